// Package service implements the application logic between the HTTP layer
// and storage: participant resolution, split and payer validation, and the
// balance ledger operations.
package service

import (
	"context"
	"fmt"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// resolveParticipant accepts an internal user ID or an external auth-provider
// ID and returns the user record. All services resolve incoming user IDs
// through this one path.
func resolveParticipant(ctx context.Context, store storage.Store, id string) (*models.User, error) {
	user, err := store.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		user, err = store.GetUserByExternalID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ledger.ErrParticipantNotFound, id)
	}
	return user, nil
}

// getGroup retrieves a group or returns ErrGroupNotFound.
func getGroup(ctx context.Context, store storage.Store, groupID string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, fmt.Errorf("%w: %s", ledger.ErrGroupNotFound, groupID)
	}
	return group, nil
}
