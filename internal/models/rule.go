package models

import "gorm.io/datatypes"

// Rule is one contest rule owned by an editathon. Type names a registered rule
// kind, Params carries its free-form configuration. Rules are immutable once a
// submission has been evaluated against them.
type Rule struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	EditathonID uint              `gorm:"index;not null" json:"editathon_id"`
	Type        string            `gorm:"size:64;not null" json:"type"`
	Severity    string            `gorm:"size:32;not null" json:"severity"`
	Params      datatypes.JSONMap `gorm:"type:json" json:"params"`
}

const (
	// RuleSeverityRequirement marks a rule whose failure rejects a submission.
	RuleSeverityRequirement = "requirement"
	// RuleSeverityWarning marks an advisory rule that never blocks.
	RuleSeverityWarning = "warning"
)

// IsBlocking reports whether the rule gates submission acceptance.
func (r Rule) IsBlocking() bool {
	return r.Severity == RuleSeverityRequirement
}
