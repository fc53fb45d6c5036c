package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// ExpenseService validates and records expenses, and keeps the balance
// ledger in sync with them.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage
// backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// CreateExpenseInput is the raw request to record an expense. PaidBy and
// Payers are mutually exclusive: PaidBy covers the whole amount, Payers
// itemizes multiple contributions.
type CreateExpenseInput struct {
	GroupID     string              `json:"groupId"`
	Description string              `json:"description"`
	Amount      float64             `json:"amount"`
	Currency    string              `json:"currency"`
	PaidBy      string              `json:"paidBy,omitempty"`
	Payers      []ledger.PayerInput `json:"payers,omitempty"`
	SplitType   string              `json:"splitType"`
	Splits      []ledger.SplitInput `json:"splits"`
	Category    string              `json:"category,omitempty"`
	ExpenseDate int64               `json:"expenseDate,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	CreatedBy   string              `json:"createdBy"`
}

// UpdateExpenseInput carries the editable fields of an expense. The amount,
// payers and splits are immutable; financial changes go through delete and
// recreate so the ledger deltas reverse exactly.
type UpdateExpenseInput struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Notes       string `json:"notes"`
	ExpenseDate int64  `json:"expenseDate"`
}

// Create validates the expense, persists it, and applies its debt deltas to
// the group's balance ledger.
func (s *ExpenseService) Create(ctx context.Context, input CreateExpenseInput) (*models.Expense, error) {
	if input.Amount <= 0 {
		return nil, &ledger.ValidationError{Message: "expense amount must be positive"}
	}
	if input.Description == "" {
		return nil, &ledger.ValidationError{Message: "expense description is required"}
	}
	if input.Category != "" && !models.ValidCategory(input.Category) {
		return nil, &ledger.ValidationError{Message: fmt.Sprintf("invalid category %q", input.Category)}
	}

	group, err := getGroup(ctx, s.store, input.GroupID)
	if err != nil {
		return nil, err
	}

	creator, err := resolveParticipant(ctx, s.store, input.CreatedBy)
	if err != nil {
		return nil, err
	}

	payers, err := s.resolvePayers(ctx, group, input)
	if err != nil {
		return nil, err
	}

	splits, err := s.resolveSplits(ctx, group, input)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: input.Description,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Payers:      payers,
		SplitType:   input.SplitType,
		Splits:      splits,
		Category:    input.Category,
		ExpenseDate: input.ExpenseDate,
		Notes:       input.Notes,
		CreatedBy:   creator.ID,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", group.ID, "error", err)
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	deltas := ledger.ProjectDebts(expense.Payers, expense.Splits, expense.Amount)
	if err := s.applyDeltas(ctx, group.ID, deltas); err != nil {
		return nil, err
	}

	if err := s.store.AddToGroupTotal(ctx, group.ID, expense.Amount); err != nil {
		return nil, fmt.Errorf("failed to update group total: %w", err)
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", group.ID,
		"amount", expense.Amount,
		"deltas", len(deltas),
	)
	return expense, nil
}

// Get retrieves an expense by ID.
func (s *ExpenseService) Get(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if expense == nil {
		return nil, fmt.Errorf("%w: %s", ledger.ErrExpenseNotFound, expenseID)
	}
	return expense, nil
}

// ListByGroup retrieves a group's expenses, newest first.
func (s *ExpenseService) ListByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	if _, err := getGroup(ctx, s.store, groupID); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// ListByUser retrieves expenses the user paid for or shares in, across
// groups.
func (s *ExpenseService) ListByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	user, err := resolveParticipant(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// Update changes the non-financial fields of an expense.
func (s *ExpenseService) Update(ctx context.Context, expenseID string, input UpdateExpenseInput) (*models.Expense, error) {
	expense, err := s.Get(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if input.Description == "" {
		input.Description = expense.Description
	}
	if input.Category == "" {
		input.Category = expense.Category
	} else if !models.ValidCategory(input.Category) {
		return nil, &ledger.ValidationError{Message: fmt.Sprintf("invalid category %q", input.Category)}
	}
	if input.ExpenseDate == 0 {
		input.ExpenseDate = expense.ExpenseDate
	}

	err = s.store.UpdateExpenseDetails(ctx, expenseID, input.Description, input.Category, input.Notes, input.ExpenseDate)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return s.Get(ctx, expenseID)
}

// Delete removes an expense and reverses its ledger deltas exactly: the
// deltas are re-derived from the stored payers and splits, negated, and
// applied pair for pair.
func (s *ExpenseService) Delete(ctx context.Context, expenseID string) error {
	expense, err := s.Get(ctx, expenseID)
	if err != nil {
		return err
	}

	deltas := ledger.Negate(ledger.ProjectDebts(expense.Payers, expense.Splits, expense.Amount))
	if err := s.applyDeltas(ctx, expense.GroupID, deltas); err != nil {
		return err
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if err := s.store.AddToGroupTotal(ctx, expense.GroupID, -expense.Amount); err != nil {
		return fmt.Errorf("failed to update group total: %w", err)
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", expense.GroupID)
	return nil
}

func (s *ExpenseService) resolvePayers(ctx context.Context, group *models.Group, input CreateExpenseInput) ([]models.PayerShare, error) {
	if len(input.Payers) > 0 {
		if input.PaidBy != "" {
			return nil, &ledger.ValidationError{Message: "provide either paidBy or payers, not both"}
		}
		resolved := make([]ledger.PayerInput, len(input.Payers))
		for i, p := range input.Payers {
			user, err := s.requireMember(ctx, group, p.UserID)
			if err != nil {
				return nil, err
			}
			resolved[i] = ledger.PayerInput{UserID: user.ID, Amount: p.Amount}
		}
		return ledger.ResolvePayers(input.Amount, resolved)
	}

	if input.PaidBy == "" {
		return nil, &ledger.ValidationError{Message: "paidBy or payers is required"}
	}
	user, err := s.requireMember(ctx, group, input.PaidBy)
	if err != nil {
		return nil, err
	}
	return ledger.SinglePayer(user.ID, input.Amount), nil
}

func (s *ExpenseService) resolveSplits(ctx context.Context, group *models.Group, input CreateExpenseInput) ([]models.Split, error) {
	resolved := make([]ledger.SplitInput, len(input.Splits))
	for i, e := range input.Splits {
		user, err := s.requireMember(ctx, group, e.UserID)
		if err != nil {
			return nil, err
		}
		resolved[i] = ledger.SplitInput{UserID: user.ID, Amount: e.Amount, Percentage: e.Percentage}
	}
	return ledger.ResolveSplits(input.Amount, input.SplitType, resolved)
}

// requireMember resolves a participant and checks group membership.
func (s *ExpenseService) requireMember(ctx context.Context, group *models.Group, id string) (*models.User, error) {
	user, err := resolveParticipant(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(user.ID) {
		return nil, &ledger.ValidationError{
			Message: fmt.Sprintf("user %s is not a member of group %s", id, group.ID),
		}
	}
	return user, nil
}

func (s *ExpenseService) applyDeltas(ctx context.Context, groupID string, deltas []ledger.DebtDelta) error {
	for _, d := range deltas {
		if _, err := s.store.ApplyDelta(ctx, groupID, d.Debtor, d.Creditor, d.Amount); err != nil {
			return fmt.Errorf("failed to apply balance delta: %w", err)
		}
	}
	return nil
}
