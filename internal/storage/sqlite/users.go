package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/splitledger/internal/models"
)

// UpsertUser creates or updates a user keyed by external auth-provider ID.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *models.User) error {
	now := time.Now().Unix()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, external_id, email, full_name, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (external_id) DO UPDATE SET
		   email = excluded.email,
		   full_name = excluded.full_name,
		   image_url = excluded.image_url,
		   updated_at = excluded.updated_at`,
		user.ID, user.ExternalID, user.Email, user.FullName, user.ImageURL,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	// On update the original row keeps its internal ID; read it back so the
	// caller always sees the canonical one.
	existing, err := s.GetUserByExternalID(ctx, user.ExternalID)
	if err != nil {
		return err
	}
	if existing != nil {
		*user = *existing
	}
	return nil
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.ExternalID, &user.Email, &user.FullName,
		&user.ImageURL, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by internal ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, external_id, email, full_name, image_url, created_at, updated_at
		 FROM users WHERE id = ?`, id))
}

// GetUserByExternalID retrieves a user by auth-provider ID.
func (s *SQLiteStore) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, external_id, email, full_name, image_url, created_at, updated_at
		 FROM users WHERE external_id = ?`, externalID))
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, external_id, email, full_name, image_url, created_at, updated_at
		 FROM users WHERE email = ?`, email))
}

// GetUsersByIDs retrieves multiple users by their IDs. Returns a map of user
// ID to user; IDs that don't exist are omitted from the result.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User)
	if len(ids) == 0 {
		return users, nil
	}

	query := `SELECT id, external_id, email, full_name, image_url, created_at, updated_at
		 FROM users WHERE id IN (?` + repeatPlaceholder(len(ids)-1) + `)`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.ExternalID, &user.Email, &user.FullName,
			&user.ImageURL, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
