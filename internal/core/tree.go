package core

import "sort"

// BookmarkTree groups filtered records by group, then country, then
// location. Keys are returned sorted so generated documents are stable;
// records inside a location keep their input order.
type BookmarkTree struct {
	groups map[string]map[string]map[string][]FilteredRecord
	size   int
}

// BuildTree groups records without dropping or altering any of them.
func BuildTree(records []FilteredRecord) *BookmarkTree {
	t := &BookmarkTree{
		groups: make(map[string]map[string]map[string][]FilteredRecord),
	}
	for _, rec := range records {
		countries, ok := t.groups[rec.GroupName]
		if !ok {
			countries = make(map[string]map[string][]FilteredRecord)
			t.groups[rec.GroupName] = countries
		}
		locations, ok := countries[rec.Country]
		if !ok {
			locations = make(map[string][]FilteredRecord)
			countries[rec.Country] = locations
		}
		locations[rec.Location] = append(locations[rec.Location], rec)
		t.size++
	}
	return t
}

// Len returns the number of records across all leaves.
func (t *BookmarkTree) Len() int {
	return t.size
}

// Groups returns the distinct group names in sorted order.
func (t *BookmarkTree) Groups() []string {
	return sortedKeys(t.groups)
}

// Countries returns the distinct countries of a group in sorted order.
func (t *BookmarkTree) Countries(group string) []string {
	return sortedKeys(t.groups[group])
}

// Locations returns the distinct locations of a (group, country) pair in
// sorted order.
func (t *BookmarkTree) Locations(group, country string) []string {
	return sortedKeys(t.groups[group][country])
}

// Records returns the records sharing the exact (group, country, location)
// triple.
func (t *BookmarkTree) Records(group, country, location string) []FilteredRecord {
	return t.groups[group][country][location]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
