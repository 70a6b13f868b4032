// Package core turns a device inventory upload into a browser bookmark file.
//
// It contains all domain logic independent of any transport. The web server,
// the CLI and tests call it the same way.
//
// # Pipeline
//
//  1. [Service.Convert] checks the filename extension and group name
//  2. The inventory is read into a table (see package inventory)
//  3. [Filter] scans the exporter columns for each exporter token
//  4. [BuildTree] groups matches by group, country and location
//  5. [RenderBookmarks] writes the Netscape bookmark document
//
// # URL Rules
//
// Links point at https://{ip}. Exporter types with a [RuleSet] entry get
// their suffix appended, either a path ("/sbc") or a port and path
// (":8443/emlogin"). The RuleSet is built once at startup and read-only
// afterwards.
//
// # Error Handling
//
// Errors fall into three classes, see [Classify]:
//
//   - [UsageError]: rejected request (bad extension, missing field)
//   - [ParseError]: malformed spreadsheet content
//   - [MissingFieldError]: a matched row's table lacks Country, Location or
//     IP Address
//
// Technical errors are mapped to coded user messages by [MapError]. An
// inventory with no matching rows is not an error.
package core
