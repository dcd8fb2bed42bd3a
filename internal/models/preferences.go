package models

// Preferences holds household-level settings. There is exactly one
// Preferences object per household; sync replaces it wholesale rather than
// merging individual fields.
type Preferences struct {
	// Name is the display name of the local household member.
	Name string `json:"name"`

	// PartnerName is the display name of the other household member.
	PartnerName string `json:"partnerName"`

	// BudgetGoal is the monthly budget target. Zero disables budget
	// progress display.
	BudgetGoal float64 `json:"budgetGoal"`
}

// SyncPayload is the full snapshot one household offers to the other through
// a share link. It is transport-only: decoded, confirmed (or discarded), and
// never persisted as its own entity.
type SyncPayload struct {
	// Version tags the token format. Tokens from the original client carry
	// no version and are treated as version 1.
	Version int `json:"v,omitempty"`

	Items []Item       `json:"items"`
	Prefs *Preferences `json:"prefs"`
}
