package core

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultExporters are the exporter-type tokens searched for in an inventory.
var DefaultExporters = []string{
	"exporter_aes",
	"exporter_avayasbc",
	"exporter_acm",
}

// defaultSuffixes are the exporter types whose web consoles are not served
// from the bare HTTPS root of the device.
var defaultSuffixes = map[string]string{
	"exporter_ems":         "/sbc",
	"exporter_ams":         ":8443/emlogin",
	"exporter_voiceportal": ":5432",
}

// RuleSet maps exporter types to the URL suffix appended after the device
// IP. It is built once and never modified; the zero value has no rules and
// sends every link to https://{ip}.
type RuleSet struct {
	suffixes map[string]string
}

// NewRuleSet copies suffixes into a RuleSet. Each suffix must be a path
// ("/sbc") or a port-prefixed segment (":8443/emlogin").
func NewRuleSet(suffixes map[string]string) (RuleSet, error) {
	rs := RuleSet{suffixes: make(map[string]string, len(suffixes))}
	for exporterType, suffix := range suffixes {
		if strings.TrimSpace(exporterType) == "" {
			return RuleSet{}, fmt.Errorf("url rule: empty exporter type")
		}
		if !strings.HasPrefix(suffix, "/") && !strings.HasPrefix(suffix, ":") {
			return RuleSet{}, fmt.Errorf("url rule %s: suffix %q must start with '/' or ':'", exporterType, suffix)
		}
		rs.suffixes[exporterType] = suffix
	}
	return rs, nil
}

// DefaultRules returns the built-in URL rules.
func DefaultRules() RuleSet {
	rs, err := NewRuleSet(defaultSuffixes)
	if err != nil {
		panic(err)
	}
	return rs
}

// Suffix returns the URL suffix registered for exporterType.
func (r RuleSet) Suffix(exporterType string) (string, bool) {
	s, ok := r.suffixes[exporterType]
	return s, ok
}

// URL returns the bookmark target for a device. Path and port suffixes are
// both appended directly after the IP.
func (r RuleSet) URL(exporterType, ip string) string {
	return "https://" + ip + r.suffixes[exporterType]
}

// Len returns the number of rules.
func (r RuleSet) Len() int {
	return len(r.suffixes)
}

// Types returns the exporter types that have a rule, sorted.
func (r RuleSet) Types() []string {
	types := make([]string, 0, len(r.suffixes))
	for t := range r.suffixes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Label returns the short exporter name shown in link text: the part of
// exporterType after its final underscore ("exporter_aes" -> "aes").
func Label(exporterType string) string {
	if i := strings.LastIndex(exporterType, "_"); i >= 0 {
		return exporterType[i+1:]
	}
	return exporterType
}
