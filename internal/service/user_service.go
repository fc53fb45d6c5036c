package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// UserService manages user records synced from the external auth provider.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// Sync creates or refreshes the local record for an externally-provisioned
// user. The external ID is the stable key; profile fields are overwritten on
// every sync while the internal ID never changes.
func (s *UserService) Sync(ctx context.Context, externalID, email, fullName, imageURL string) (*models.User, error) {
	if externalID == "" {
		return nil, &ledger.ValidationError{Message: "external ID is required"}
	}
	if email == "" {
		return nil, &ledger.ValidationError{Message: "email is required"}
	}

	user := models.NewUser(externalID, email, fullName)
	user.ImageURL = imageURL

	if err := s.store.UpsertUser(ctx, user); err != nil {
		slog.Error("User sync failed", "external_id", externalID, "error", err)
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}

	slog.Info("User synced", "user_id", user.ID, "external_id", externalID)
	return user, nil
}

// Get retrieves a user by internal or external ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return resolveParticipant(ctx, s.store, id)
}

// GetByEmail retrieves a user by email address, used when adding a group
// member by address.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ledger.ErrParticipantNotFound, email)
	}
	return user, nil
}
