package models

// BalanceEntry is the single canonical net-balance record between two users
// in a group. UserA and UserB are stored in canonical order (UserA < UserB);
// a positive Amount means UserA owes UserB, negative means the reverse.
// At most one entry exists per (group, pair), enforced by a compound unique
// constraint at the storage boundary.
type BalanceEntry struct {
	GroupID string  `json:"groupId"`
	UserA   string  `json:"userA"`
	UserB   string  `json:"userB"`
	Amount  float64 `json:"amount"`

	// UpdatedAt is the Unix timestamp of the last delta applied.
	UpdatedAt int64 `json:"updatedAt"`
}
