package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
)

const settlementColumns = "id, group_id, paid_by, paid_to, amount, currency, method, notes, settled_at, created_at"

// CreateSettlement persists a settlement record.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = now
	}
	if settlement.SettledAt == 0 {
		settlement.SettledAt = now
	}
	if settlement.Currency == "" {
		settlement.Currency = "INR"
	}
	if settlement.Method == "" {
		settlement.Method = "other"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.PaidBy, settlement.PaidTo,
		settlement.Amount, settlement.Currency, settlement.Method,
		settlement.Notes, settlement.SettledAt, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

func scanSettlement(row interface{ Scan(...interface{}) error }) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	err := row.Scan(&settlement.ID, &settlement.GroupID, &settlement.PaidBy,
		&settlement.PaidTo, &settlement.Amount, &settlement.Currency,
		&settlement.Method, &settlement.Notes, &settlement.SettledAt, &settlement.CreatedAt)
	if err != nil {
		return nil, err
	}
	return settlement, nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := scanSettlement(s.db.QueryRowContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE id = ?", settlementID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

func (s *SQLiteStore) listSettlements(ctx context.Context, query string, args ...interface{}) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// ListSettlementsByGroup retrieves a group's settlements, newest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE group_id = ? ORDER BY settled_at DESC, created_at DESC",
		groupID)
}

// ListSettlementsByUser retrieves settlements the user paid or received,
// newest first.
func (s *SQLiteStore) ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE paid_by = ? OR paid_to = ? ORDER BY settled_at DESC, created_at DESC",
		userID, userID)
}

// DeleteSettlement removes a settlement record.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("settlement not found: %s", settlementID)
	}
	return nil
}
