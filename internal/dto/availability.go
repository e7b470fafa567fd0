package dto

// RuleInput is one availability rule inside a wholesale rule-set replacement.
type RuleInput struct {
	Type          string  `json:"type" validate:"required,oneof=WEEKLY DATE"`
	Weekday       *int    `json:"weekday,omitempty"`
	Date          *string `json:"date,omitempty"`
	StartMinute   int     `json:"start_minute"`
	EndMinute     int     `json:"end_minute"`
	IsUnavailable bool    `json:"is_unavailable"`
}

// ReplaceRulesRequest swaps a calendar's entire rule set. There is no
// partial update of rules.
type ReplaceRulesRequest struct {
	Rules []RuleInput `json:"rules" validate:"dive"`
}
