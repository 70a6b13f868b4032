package core

import (
	"fmt"

	"github.com/JonMunkholm/exporter-bookmarks/internal/config"
)

// OptionsFromConfig resolves service options from configuration. A rules
// file, when configured, takes precedence over BOOKMARKS_EXPORTERS and over
// the built-in URL rules for each section it defines.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := Options{
		Exporters:     cfg.Bookmarks.Exporters,
		Rules:         DefaultRules(),
		Deduplicate:   cfg.Bookmarks.Deduplicate,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
	}

	if cfg.Bookmarks.RulesFile == "" {
		return opts, nil
	}

	rf, err := config.LoadRulesFile(cfg.Bookmarks.RulesFile)
	if err != nil {
		return Options{}, err
	}
	if len(rf.Exporters) > 0 {
		opts.Exporters = rf.Exporters
	}
	if len(rf.URLRules) > 0 {
		rules, err := NewRuleSet(rf.URLRules)
		if err != nil {
			return Options{}, fmt.Errorf("rules file %s: %w", cfg.Bookmarks.RulesFile, err)
		}
		opts.Rules = rules
	}
	return opts, nil
}
