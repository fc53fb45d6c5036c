package models

// Member roles within a group.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Member is one user's membership in a group.
type Member struct {
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joinedAt"`
}

// Group organizes expenses among a set of members.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description string `json:"description,omitempty"`

	// CreatedBy is the user ID of the group creator (always an admin member).
	CreatedBy string `json:"createdBy"`

	// Members is the list of group memberships.
	Members []Member `json:"members"`

	// TotalExpenses is a running sum of all expense amounts recorded in the
	// group, maintained on expense creation and deletion.
	TotalExpenses float64 `json:"totalExpenses"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// HasMember reports whether the user is a member of the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
