package triage

import "strings"

const (
	DefaultMinAge      = 0
	DefaultMaxDaysHome = 7
)

// RedFlags lists the keywords that escalate a report and the actions shown
// with each escalation.
type RedFlags struct {
	EmergencyKeywords    []string `json:"emergency_keywords" yaml:"emergency_keywords"`
	HighPriorityKeywords []string `json:"high_priority_keywords" yaml:"high_priority_keywords"`
	EmergencyActions     []string `json:"emergency_actions" yaml:"emergency_actions"`
	HighPriorityActions  []string `json:"high_priority_actions" yaml:"high_priority_actions"`
}

// Thresholds are the age and duration limits for home care.
type Thresholds struct {
	MinAge      int `json:"min_age" yaml:"min_age"`
	MaxDaysHome int `json:"max_days_home" yaml:"max_days_home"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{MinAge: DefaultMinAge, MaxDaysHome: DefaultMaxDaysHome}
}

// RuleSet is the full keyword engine configuration. The zero RedFlags value
// disables both keyword checks.
type RuleSet struct {
	RedFlags
	Thresholds
}

func DefaultRuleSet() RuleSet {
	return RuleSet{Thresholds: DefaultThresholds()}
}

// firstKeyword returns the first keyword, in list order, contained in text.
// text must already be lowercased.
func firstKeyword(keywords []string, text string) (string, bool) {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return kw, true
		}
	}
	return "", false
}
