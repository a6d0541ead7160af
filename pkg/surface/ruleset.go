package surface

import (
	"sort"
	"strings"
)

// RuleSetID is the stable identity of the single global suppression
// stylesheet. Replacement is keyed on it so two easelgate passes can never
// install competing rule-sets.
const RuleSetID = "easelgate-ruleset"

// RuleSet is an ordered, deduplicated set of suppression locators. The zero
// value is the empty rule-set.
type RuleSet struct {
	locators []Locator
	seen     map[Locator]bool
}

// NewRuleSet creates a RuleSet containing the given locators in order.
func NewRuleSet(locators ...Locator) *RuleSet {
	rs := &RuleSet{seen: make(map[Locator]bool)}
	for _, l := range locators {
		rs.Add(l)
	}
	return rs
}

// Add appends a locator, ignoring duplicates.
func (rs *RuleSet) Add(locators ...Locator) {
	if rs.seen == nil {
		rs.seen = make(map[Locator]bool)
	}
	for _, l := range locators {
		if l == "" || rs.seen[l] {
			continue
		}
		rs.seen[l] = true
		rs.locators = append(rs.locators, l)
	}
}

// Locators returns the rule-set's locators in insertion order.
func (rs *RuleSet) Locators() []Locator {
	out := make([]Locator, len(rs.locators))
	copy(out, rs.locators)
	return out
}

// Empty reports whether the rule-set suppresses nothing.
func (rs *RuleSet) Empty() bool { return rs == nil || len(rs.locators) == 0 }

// Len returns the number of suppression rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.locators)
}

// Equal compares two rule-sets by content, ignoring insertion order. It is
// the idempotence check: re-applying an Equal rule-set must be a no-op.
func (rs *RuleSet) Equal(other *RuleSet) bool {
	if rs.Len() != other.Len() {
		return false
	}
	if rs == nil || other == nil {
		return true
	}
	for _, l := range rs.locators {
		if !other.seen[l] {
			return false
		}
	}
	return true
}

// CSS renders the rule-set as the single stylesheet the frontend injects
// under RuleSetID. Locators are sorted so identical sets render to identical
// text regardless of build order.
func (rs *RuleSet) CSS() string {
	if rs.Empty() {
		return ""
	}

	selectors := make([]string, 0, len(rs.locators))
	for _, l := range rs.locators {
		selectors = append(selectors, string(l))
	}
	sort.Strings(selectors)

	var b strings.Builder
	b.WriteString(strings.Join(selectors, ",\n"))
	b.WriteString(" {\n  display: none !important;\n}\n")
	return b.String()
}
