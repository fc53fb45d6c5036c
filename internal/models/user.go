package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a person tracked by the ledger. Accounts are provisioned
// by an external auth provider and synced in; ExternalID is that provider's
// stable identifier. All ledger records reference the internal ID.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// ExternalID is the identifier assigned by the external auth provider.
	ExternalID string `json:"externalId"`

	// Email is the user's email address, used for member lookup.
	Email string `json:"email"`

	// FullName is the display name of the user.
	FullName string `json:"fullName"`

	// ImageURL is an optional avatar URL.
	ImageURL string `json:"imageUrl,omitempty"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(externalID, email, fullName string) *User {
	now := time.Now().Unix()
	return &User{
		ID:         uuid.New().String(),
		ExternalID: externalID,
		Email:      email,
		FullName:   fullName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
