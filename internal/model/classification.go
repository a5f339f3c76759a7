package model

// RecurrenceType describes how often a charge is expected to repeat.
type RecurrenceType string

// Recurrence type constants.
const (
	RecurrenceOneTime   RecurrenceType = "one_time"
	RecurrenceDaily     RecurrenceType = "daily"
	RecurrenceWeekly    RecurrenceType = "weekly"
	RecurrenceMonthly   RecurrenceType = "monthly"
	RecurrenceQuarterly RecurrenceType = "quarterly"
	RecurrenceUnknown   RecurrenceType = "unknown"
)

// ConfidenceLevel indicates how strong the classification signal was.
type ConfidenceLevel string

// Classification confidence levels.
const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Classification is the category assignment for a transaction. Stateless
// and recomputable at any time from the same input.
type Classification struct {
	Category        string          `json:"category"`
	Subcategory     string          `json:"subcategory"`
	IsDiscretionary bool            `json:"is_discretionary"`
	Recurrence      RecurrenceType  `json:"recurrence_type"`
	Confidence      ConfidenceLevel `json:"confidence"`
}

// ClassificationRule maps merchant name substrings to a classification.
// Rules live in an ordered table; the first matching rule wins, so later
// entries never shadow earlier ones.
type ClassificationRule struct {
	MerchantPatterns []string // case-insensitive substrings
	Category         string
	Subcategory      string
	IsDiscretionary  bool
	Recurrence       RecurrenceType
}
