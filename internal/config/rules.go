package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RulesFile is the optional YAML document named by BOOKMARKS_RULES_FILE.
// Either section may be omitted to keep the built-in values.
//
//	exporters:
//	  - exporter_aes
//	  - exporter_acm
//	url_rules:
//	  exporter_ems: /sbc
//	  exporter_ams: ":8443/emlogin"
type RulesFile struct {
	Exporters []string          `yaml:"exporters"`
	URLRules  map[string]string `yaml:"url_rules"`
}

// LoadRulesFile reads and validates a rules file.
func LoadRulesFile(path string) (*RulesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	for i, token := range rf.Exporters {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("rules file %s: exporters[%d] is empty", path, i)
		}
		rf.Exporters[i] = token
	}

	return &rf, nil
}
