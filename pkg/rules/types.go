package rules

import "github.com/crastos/labeler/pkg/glob"

// Group is one rule group for a label. Within a group, All requires every
// changed file to conform to every pattern, Any requires at least one
// changed file conforming to every pattern. When both are set, both must
// hold. A group with neither set is vacuously satisfied.
type Group struct {
	All []glob.Pattern
	Any []glob.Pattern
}

// Empty reports whether the group carries no constraints at all.
func (g Group) Empty() bool {
	return len(g.All) == 0 && len(g.Any) == 0
}

// LabelRule binds a label name to its ordered rule groups. The label is
// warranted when any one of its groups is satisfied.
type LabelRule struct {
	Label  string
	Groups []Group
}

// RuleSet is the normalized configuration: label rules in source order,
// with unique label names (last definition wins).
type RuleSet struct {
	rules []LabelRule
	index map[string]int
}

// NewRuleSet builds a RuleSet from label rules, keeping source order and
// collapsing duplicate labels onto their first position.
func NewRuleSet(rules []LabelRule) *RuleSet {
	rs := &RuleSet{index: make(map[string]int, len(rules))}
	for _, r := range rules {
		rs.put(r)
	}
	return rs
}

func (rs *RuleSet) put(r LabelRule) {
	if i, ok := rs.index[r.Label]; ok {
		rs.rules[i] = r
		return
	}
	rs.index[r.Label] = len(rs.rules)
	rs.rules = append(rs.rules, r)
}

// Len returns the number of configured labels.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Rules returns the label rules in configuration order.
func (rs *RuleSet) Rules() []LabelRule {
	return rs.rules
}

// Has reports whether label is managed by this configuration.
func (rs *RuleSet) Has(label string) bool {
	_, ok := rs.index[label]
	return ok
}
