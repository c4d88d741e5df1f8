// Package categorize maps transaction titles to tags using an ordered
// keyword rule table with a fuzzy fallback.
package categorize

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tally-dev/tally/internal/model"
)

// Rule binds a tag to its keywords.
type Rule struct {
	Tag      model.Tag `yaml:"tag"`
	Keywords []string  `yaml:"keywords"`
}

// RuleTable is evaluated in declaration order. Earlier rules pre-empt
// later ones.
type RuleTable []Rule

// DefaultRules returns the built-in table.
func DefaultRules() RuleTable {
	return RuleTable{
		{Tag: model.TagFood, Keywords: []string{"food", "grocery", "supermarket", "bigbazaar", "reliance"}},
		{Tag: model.TagEntertainment, Keywords: []string{"movie", "cinema", "netflix", "hotstar", "game", "theater"}},
		{Tag: model.TagTransportation, Keywords: []string{"bus", "taxi", "uber", "ola", "train", "fuel", "petrol"}},
		{Tag: model.TagUtilities, Keywords: []string{"electricity", "water bill", "gas", "internet", "wifi"}},
		{Tag: model.TagMedical, Keywords: []string{"hospital", "doctor", "medicine", "pharmacy"}},
		{Tag: model.TagSalary, Keywords: []string{"salary", "paycheck", "monthly pay"}},
		{Tag: model.TagBusiness, Keywords: []string{"business", "client", "deal", "sale"}},
		{Tag: model.TagInvestment, Keywords: []string{"investment", "dividend", "stock", "mutual fund", "sip"}},
		{Tag: model.TagOther, Keywords: []string{"freelance", "consulting", "misc"}},
		{Tag: model.TagOthers, Keywords: []string{"other", "random", "unknown", "misc"}},
	}
}

type rulesFile struct {
	Rules RuleTable `yaml:"rules"`
}

// LoadRules reads a YAML rules file. Order in the file is kept.
func LoadRules(path string) (RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML rules and validates them.
func ParseRules(data []byte) (RuleTable, error) {
	var f rulesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if err := f.Rules.normalize(); err != nil {
		return nil, err
	}
	return f.Rules, nil
}

// MarshalRules renders rules in the same YAML shape LoadRules reads.
func MarshalRules(rules RuleTable) ([]byte, error) {
	data, err := yaml.Marshal(rulesFile{Rules: rules})
	if err != nil {
		return nil, fmt.Errorf("marshaling rules: %w", err)
	}
	return data, nil
}

func (rt RuleTable) normalize() error {
	if len(rt) == 0 {
		return fmt.Errorf("rules: table is empty")
	}
	for i := range rt {
		tag, ok := model.ParseTag(string(rt[i].Tag))
		if !ok {
			return fmt.Errorf("rules[%d]: unknown tag %q", i, rt[i].Tag)
		}
		rt[i].Tag = tag
		if len(rt[i].Keywords) == 0 {
			return fmt.Errorf("rules[%d] (%s): no keywords", i, tag)
		}
		for j, kw := range rt[i].Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return fmt.Errorf("rules[%d] (%s): keyword %d is blank", i, tag, j)
			}
			rt[i].Keywords[j] = kw
		}
	}
	return nil
}
