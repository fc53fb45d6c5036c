// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splitledger/splitledger/internal/models"
)

// Store defines the persistence interface consumed by the service layer.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the services.
//
// ApplyDelta is the single choke point for every balance mutation in the
// system; no other method writes balance state.
type Store interface {
	// UpsertUser creates or updates a user keyed by ExternalID. On update
	// the internal ID is preserved and user.ID is populated with it.
	UpsertUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by internal ID.
	// Returns nil, nil when not found.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByExternalID retrieves a user by auth-provider ID.
	// Returns nil, nil when not found.
	GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error)

	// GetUserByEmail retrieves a user by email.
	// Returns nil, nil when not found.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUsersByIDs returns a map of user ID to user. Missing IDs are
	// omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateGroup persists a new group with its members. The group.ID and
	// CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members. Returns nil, nil when
	// not found.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByUser retrieves all groups the user is a member of,
	// most recently created first.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup updates a group's name and description.
	UpdateGroup(ctx context.Context, groupID, name, description string) error

	// DeleteGroup removes a group and its memberships.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMember adds a user to a group. Adding an existing member is
	// a no-op.
	AddGroupMember(ctx context.Context, groupID string, member models.Member) error

	// RemoveGroupMember removes a user from a group.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// AddToGroupTotal adjusts the group's running expense total by delta.
	AddToGroupTotal(ctx context.Context, groupID string, delta float64) error

	// CreateExpense persists an expense with its payers and splits. The
	// expense.ID and CreatedAt fields are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with payers and splits. Returns
	// nil, nil when not found.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListExpensesByUser retrieves expenses the user paid for or shares
	// in, newest first.
	ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error)

	// UpdateExpenseDetails updates the non-financial fields of an expense.
	// Amount, payers and splits are immutable; financial changes go
	// through delete and recreate.
	UpdateExpenseDetails(ctx context.Context, expenseID, description, category, notes string, expenseDate int64) error

	// DeleteExpense removes an expense with its payers and splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a settlement. The settlement.ID and
	// CreatedAt fields are populated by the store.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID. Returns nil, nil when
	// not found.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup retrieves a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// ListSettlementsByUser retrieves settlements the user paid or
	// received, newest first.
	ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// ApplyDelta atomically adds a signed debt adjustment to the canonical
	// balance entry for (group, debtor, creditor). The entry is created if
	// absent and deleted when its net magnitude falls below the money
	// epsilon; nil is returned in the deleted case. Concurrent calls for
	// the same pair are serialized; different pairs do not block each
	// other.
	ApplyDelta(ctx context.Context, groupID, debtor, creditor string, amount float64) (*models.BalanceEntry, error)

	// ListBalancesByGroup retrieves all raw balance entries of a group.
	ListBalancesByGroup(ctx context.Context, groupID string) ([]*models.BalanceEntry, error)

	// ListBalancesByUser retrieves all balance entries touching the user,
	// across groups.
	ListBalancesByUser(ctx context.Context, userID string) ([]*models.BalanceEntry, error)

	// ReplaceGroupBalances atomically deletes every balance entry of the
	// group and inserts the given entries. Used by the consolidator.
	ReplaceGroupBalances(ctx context.Context, groupID string, entries []*models.BalanceEntry) error

	// Close releases any resources held by the store.
	Close() error
}
