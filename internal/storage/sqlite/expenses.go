package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
)

const expenseColumns = "id, group_id, description, amount, currency, split_type, category, expense_date, notes, created_by, created_at"

// CreateExpense persists an expense with its payers and splits in one
// transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.ExpenseDate == 0 {
		expense.ExpenseDate = now
	}
	if expense.Currency == "" {
		expense.Currency = "INR"
	}
	if expense.Category == "" {
		expense.Category = "other"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount,
		expense.Currency, expense.SplitType, expense.Category,
		expense.ExpenseDate, expense.Notes, expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, p := range expense.Payers {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_payers (expense_id, user_id, amount) VALUES (?, ?, ?)",
			expense.ID, p.UserID, p.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense payer: %w", err)
		}
	}

	for _, sp := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, amount, percentage) VALUES (?, ?, ?, ?)",
			expense.ID, sp.UserID, sp.Amount, sp.Percentage,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense with its payers and splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
		&expense.Currency, &expense.SplitType, &expense.Category,
		&expense.ExpenseDate, &expense.Notes, &expense.CreatedBy, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadExpenseShares(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *SQLiteStore) loadExpenseShares(ctx context.Context, expense *models.Expense) error {
	payerRows, err := s.db.QueryContext(ctx,
		"SELECT user_id, amount FROM expense_payers WHERE expense_id = ? ORDER BY user_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense payers: %w", err)
	}
	defer payerRows.Close()

	for payerRows.Next() {
		var p models.PayerShare
		if err := payerRows.Scan(&p.UserID, &p.Amount); err != nil {
			return fmt.Errorf("failed to scan expense payer: %w", err)
		}
		expense.Payers = append(expense.Payers, p)
	}
	if err := payerRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense payers: %w", err)
	}

	splitRows, err := s.db.QueryContext(ctx,
		"SELECT user_id, amount, percentage FROM expense_splits WHERE expense_id = ? ORDER BY user_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var sp models.Split
		if err := splitRows.Scan(&sp.UserID, &sp.Amount, &sp.Percentage); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}
		expense.Splits = append(expense.Splits, sp)
	}
	if err := splitRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...interface{}) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description,
			&expense.Amount, &expense.Currency, &expense.SplitType, &expense.Category,
			&expense.ExpenseDate, &expense.Notes, &expense.CreatedBy, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, e := range expenses {
		if err := s.loadExpenseShares(ctx, e); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// ListExpensesByGroup retrieves a group's expenses, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY expense_date DESC, created_at DESC",
		groupID)
}

// ListExpensesByUser retrieves expenses the user paid for or shares in,
// newest first.
func (s *SQLiteStore) ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT DISTINCT e.id, e.group_id, e.description, e.amount, e.currency, e.split_type,
		        e.category, e.expense_date, e.notes, e.created_by, e.created_at
		 FROM expenses e
		 LEFT JOIN expense_payers ep ON ep.expense_id = e.id
		 LEFT JOIN expense_splits es ON es.expense_id = e.id
		 WHERE ep.user_id = ? OR es.user_id = ?
		 ORDER BY e.expense_date DESC, e.created_at DESC`,
		userID, userID)
}

// UpdateExpenseDetails updates the non-financial fields of an expense.
func (s *SQLiteStore) UpdateExpenseDetails(ctx context.Context, expenseID, description, category, notes string, expenseDate int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET description = ?, category = ?, notes = ?, expense_date = ? WHERE id = ?",
		description, category, notes, expenseDate, expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense not found: %s", expenseID)
	}
	return nil
}

// DeleteExpense removes an expense; payers and splits cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense not found: %s", expenseID)
	}
	return nil
}
