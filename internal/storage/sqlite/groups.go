package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
)

// CreateGroup persists a new group with its members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, created_by, total_expenses, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Description, group.CreatedBy,
		group.TotalExpenses, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i := range group.Members {
		m := &group.Members[i]
		if m.JoinedAt == 0 {
			m.JoinedAt = group.CreatedAt
		}
		if m.Role == "" {
			m.Role = models.RoleMember
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
			group.ID, m.UserID, m.Role, m.JoinedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group with its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_by, total_expenses, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.CreatedBy,
		&group.TotalExpenses, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := s.loadMembers(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *SQLiteStore) loadMembers(ctx context.Context, group *models.Group) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, role, joined_at FROM group_members WHERE group_id = ? ORDER BY joined_at, user_id",
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		group.Members = append(group.Members, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate group members: %w", err)
	}
	return nil
}

// ListGroupsByUser retrieves all groups the user belongs to, newest first.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.created_by, g.total_expenses, g.created_at
		 FROM groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.user_id = ?
		 ORDER BY g.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by user: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Description,
			&group.CreatedBy, &group.TotalExpenses, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, g := range groups {
		if err := s.loadMembers(ctx, g); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// UpdateGroup updates a group's name and description.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, groupID, name, description string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, description = ? WHERE id = ?",
		name, description, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group not found: %s", groupID)
	}
	return nil
}

// DeleteGroup removes a group; memberships, expenses, settlements and
// balances cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group not found: %s", groupID)
	}
	return nil
}

// AddGroupMember adds a user to a group; adding an existing member is a
// no-op.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID string, member models.Member) error {
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}
	if member.Role == "" {
		member.Role = models.RoleMember
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, role, joined_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		groupID, member.UserID, member.Role, member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// RemoveGroupMember removes a user from a group.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("member not found in group: %s", userID)
	}
	return nil
}

// AddToGroupTotal adjusts the group's running expense total.
func (s *SQLiteStore) AddToGroupTotal(ctx context.Context, groupID string, delta float64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE groups SET total_expenses = total_expenses + ? WHERE id = ?",
		delta, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group total: %w", err)
	}
	return nil
}
