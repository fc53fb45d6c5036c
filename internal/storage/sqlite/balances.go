package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/money"
)

// ApplyDelta atomically increments the net balance for the (debtor, creditor)
// pair in a group. The pair is canonicalized before the write so callers may
// pass the two users in either order. When the resulting net is within the
// rounding epsilon of zero the row is deleted and (nil, nil) is returned.
func (s *SQLiteStore) ApplyDelta(ctx context.Context, groupID, debtor, creditor string, amount float64) (*models.BalanceEntry, error) {
	userA, userB, signed := ledger.CanonicalPair(debtor, creditor, amount)
	now := time.Now().Unix()

	mu := s.pairLock(groupID, userA, userB)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO balances (group_id, user_a, user_b, amount, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (group_id, user_a, user_b)
		 DO UPDATE SET amount = balances.amount + excluded.amount, updated_at = excluded.updated_at`,
		groupID, userA, userB, signed, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	var net float64
	err = tx.QueryRowContext(ctx,
		"SELECT amount FROM balances WHERE group_id = ? AND user_a = ? AND user_b = ?",
		groupID, userA, userB,
	).Scan(&net)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance after delta: %w", err)
	}

	if money.IsZero(net) {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM balances WHERE group_id = ? AND user_a = ? AND user_b = ?",
			groupID, userA, userB,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to clear settled balance: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.BalanceEntry{
		GroupID:   groupID,
		UserA:     userA,
		UserB:     userB,
		Amount:    net,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) listBalances(ctx context.Context, query string, args ...interface{}) ([]*models.BalanceEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	var entries []*models.BalanceEntry
	for rows.Next() {
		entry := &models.BalanceEntry{}
		if err := rows.Scan(&entry.GroupID, &entry.UserA, &entry.UserB,
			&entry.Amount, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}
	return entries, nil
}

// ListBalancesByGroup retrieves all outstanding balances in a group.
func (s *SQLiteStore) ListBalancesByGroup(ctx context.Context, groupID string) ([]*models.BalanceEntry, error) {
	return s.listBalances(ctx,
		"SELECT group_id, user_a, user_b, amount, updated_at FROM balances WHERE group_id = ? ORDER BY user_a, user_b",
		groupID)
}

// ListBalancesByUser retrieves all outstanding balances the user is a party
// to, across every group.
func (s *SQLiteStore) ListBalancesByUser(ctx context.Context, userID string) ([]*models.BalanceEntry, error) {
	return s.listBalances(ctx,
		"SELECT group_id, user_a, user_b, amount, updated_at FROM balances WHERE user_a = ? OR user_b = ? ORDER BY group_id, user_a, user_b",
		userID, userID)
}

// ReplaceGroupBalances deletes all of a group's balance rows and inserts the
// given entries in their place, in one transaction.
func (s *SQLiteStore) ReplaceGroupBalances(ctx context.Context, groupID string, entries []*models.BalanceEntry) error {
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "DELETE FROM balances WHERE group_id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to clear group balances: %w", err)
	}

	for _, entry := range entries {
		updatedAt := entry.UpdatedAt
		if updatedAt == 0 {
			updatedAt = now
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO balances (group_id, user_a, user_b, amount, updated_at) VALUES (?, ?, ?, ?, ?)",
			groupID, entry.UserA, entry.UserB, entry.Amount, updatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert balance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
