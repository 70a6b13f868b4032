package core

import (
	"strings"

	"github.com/JonMunkholm/exporter-bookmarks/internal/inventory"
)

// Inventory columns read by the filter.
const (
	ColumnExporterApp  = "Exporter_name_app"
	ColumnExporterApp2 = "Exporter_name_app_2"
	ColumnCountry      = "Country"
	ColumnLocation     = "Location"
	ColumnIPAddress    = "IP Address"
	ColumnHostname     = "Hostname"
)

// UnknownHostname is used when a matched row carries no hostname.
const UnknownHostname = "Unknown"

// ExporterColumns are the free-text columns scanned for exporter tokens, in
// scan order.
var ExporterColumns = []string{ColumnExporterApp, ColumnExporterApp2}

// FilteredRecord is one (row, exporter token) match flattened for grouping.
type FilteredRecord struct {
	GroupName    string `json:"group_name"`
	Country      string `json:"country"`
	Location     string `json:"location"`
	ExporterType string `json:"exporter_type"`
	IPAddress    string `json:"ip_address"`
	Hostname     string `json:"hostname"`
}

// FilterOptions tunes Filter.
type FilterOptions struct {
	// Deduplicate emits at most one record per (row, token) even when the
	// token appears in both exporter columns. Off by default: each column
	// match yields its own record.
	Deduplicate bool
}

// Filter scans the exporter columns of table for each token and returns one
// record per match, in token order, then column order, then row order.
//
// Matching is a case-sensitive substring test; rows without a value in the
// column never match and absent columns are skipped. groupName is copied to
// every record unchanged. A matched row in a table without Country, Location
// or IP Address columns returns a *MissingFieldError. No match is not an
// error: the result is empty.
func Filter(table *inventory.Table, exporters []string, groupName string, opts FilterOptions) ([]FilteredRecord, error) {
	records := make([]FilteredRecord, 0)
	if table == nil {
		return records, nil
	}

	type matchKey struct {
		row   int
		token string
	}
	var seen map[matchKey]bool
	if opts.Deduplicate {
		seen = make(map[matchKey]bool)
	}

	for _, token := range exporters {
		if token == "" {
			continue
		}
		for _, col := range ExporterColumns {
			if !table.HasColumn(col) {
				continue
			}
			for i, row := range table.Rows {
				value, ok := row.Get(col)
				if !ok || !strings.Contains(value, token) {
					continue
				}
				if seen != nil {
					key := matchKey{row: i, token: token}
					if seen[key] {
						continue
					}
					seen[key] = true
				}

				rec, err := project(table, row, token, groupName)
				if err != nil {
					return nil, err
				}
				records = append(records, rec)
			}
		}
	}

	return records, nil
}

// project copies the bookmark fields of a matched row.
func project(table *inventory.Table, row inventory.Row, token, groupName string) (FilteredRecord, error) {
	rec := FilteredRecord{
		GroupName:    groupName,
		ExporterType: token,
		Hostname:     UnknownHostname,
	}

	required := []struct {
		column string
		dst    *string
	}{
		{ColumnCountry, &rec.Country},
		{ColumnLocation, &rec.Location},
		{ColumnIPAddress, &rec.IPAddress},
	}
	for _, f := range required {
		if !table.HasColumn(f.column) {
			return FilteredRecord{}, &MissingFieldError{Field: f.column, Line: row.Line, ExporterType: token}
		}
		// A short row leaves the cell empty rather than failing.
		*f.dst, _ = row.Get(f.column)
	}

	if host, ok := row.Get(ColumnHostname); ok && host != "" {
		rec.Hostname = host
	}

	return rec, nil
}
