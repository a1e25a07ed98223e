package reconstruct

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed roles.yaml
var rolesYAML []byte

// RowRole is the accounting role inferred from a presentation label. It only
// drives the beginning/ending balance narrowing in the fact selector;
// unmatched labels get RoleNone and fall back to plain candidate ranking.
type RowRole int

const (
	RoleNone RowRole = iota
	RoleBeginning
	RoleEnding
	RoleBalance
)

type signRules struct {
	Negative []string `yaml:"negative"`
	Positive []string `yaml:"positive"`
}

type roleTable struct {
	LabelRoles      map[string][]string `yaml:"label_roles"`
	CashConcepts    []string            `yaml:"cash_concepts"`
	CashFlowSigns   signRules           `yaml:"cash_flow_signs"`
	EquitySigns     signRules           `yaml:"equity_signs"`
	MissingExpected []string            `yaml:"missing_expected"`
}

var roles roleTable

func init() {
	if err := yaml.Unmarshal(rolesYAML, &roles); err != nil {
		panic(fmt.Sprintf("reconstruct: bad embedded roles.yaml: %v", err))
	}
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// ClassifyLabel infers the row role from a presentation label.
func ClassifyLabel(label string) RowRole {
	lower := strings.ToLower(label)
	switch {
	case containsAny(lower, roles.LabelRoles["beginning"]):
		return RoleBeginning
	case containsAny(lower, roles.LabelRoles["ending"]):
		return RoleEnding
	case containsAny(lower, roles.LabelRoles["balance"]):
		return RoleBalance
	default:
		return RoleNone
	}
}

// IsCashConcept reports whether a tag names the cash roll-forward concept on
// the cash-flow statement (the balance carried between periods).
func IsCashConcept(tag string) bool {
	return containsAny(strings.ToLower(tag), roles.CashConcepts)
}

// IsExpectedMissing reports whether a tag is expected to carry no numeric
// value (abstract headers, text blocks, policy disclosures).
func IsExpectedMissing(tag string) bool {
	return containsAny(strings.ToLower(tag), roles.MissingExpected)
}
