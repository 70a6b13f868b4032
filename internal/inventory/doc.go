// Package inventory reads uploaded device inventory spreadsheets into a
// row-oriented table with named columns.
//
// Two encodings are supported and both yield the same [Table]:
//
//   - Comma-delimited text (.csv), decoded as UTF-8 with a Windows-1252
//     fallback for files exported by older spreadsheet tools.
//   - Spreadsheets (.xlsx, .xls), read from the first sheet. An .xls file is
//     read as an Excel 97-2003 BIFF workbook when it carries the OLE2
//     signature, and as an Office Open XML package otherwise.
//
// The first row of either encoding names the columns. Column presence is not
// guaranteed; callers look fields up with [Row.Get] and treat a missing column
// as an absent value rather than an error.
package inventory
