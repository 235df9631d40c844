package rulesfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"website_revolution/internal/domain"
	"website_revolution/internal/domain/service/scoring"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/errcodes"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type file struct {
	Rules []ruleOverride `yaml:"rules"`
}

// ruleOverride fields left out keep the built-in value.
type ruleOverride struct {
	ID      string  `yaml:"id"`
	Issue   *string `yaml:"issue"`
	Weight  *int    `yaml:"weight"`
	Enabled *bool   `yaml:"enabled"`
}

// Load reads a rules file and merges it over the built-in rules.
func Load(path string) ([]scoring.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) ([]scoring.Rule, error) {
	var f file

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidRulesFile, "rules file is not valid yaml")
	}

	defaults := scoring.DefaultRules()
	byID := make(map[scoring.RuleID]scoring.Rule, len(defaults))
	for _, r := range defaults {
		byID[r.ID] = r
	}

	overrides := make([]scoring.Rule, 0, len(f.Rules))
	for i, o := range f.Rules {
		base, ok := byID[scoring.RuleID(o.ID)]
		if !ok {
			return nil, domain.NewError(
				errcodes.InvalidRulesFile,
				fmt.Sprintf("rules[%d]: unknown rule id %q", i, o.ID),
			)
		}

		if o.Issue != nil {
			base.Issue = *o.Issue
		}
		if o.Weight != nil {
			base.Weight = *o.Weight
		}
		if o.Enabled != nil {
			base.Enabled = *o.Enabled
		}

		overrides = append(overrides, base)
	}

	return scoring.MergeRules(defaults, overrides), nil
}
