package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// GroupService manages groups and their memberships.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// GroupView is a group enriched with the member user records.
type GroupView struct {
	*models.Group
	Users []*models.User `json:"users"`
}

// Create creates a group. The creator is always added as an admin member;
// additional member IDs may be internal or external user IDs.
func (s *GroupService) Create(ctx context.Context, name, description, creatorID string, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, &ledger.ValidationError{Message: "group name is required"}
	}

	creator, err := resolveParticipant(ctx, s.store, creatorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	group := &models.Group{
		Name:        name,
		Description: description,
		CreatedBy:   creator.ID,
		Members: []models.Member{
			{UserID: creator.ID, Role: models.RoleAdmin, JoinedAt: now},
		},
	}
	for _, id := range memberIDs {
		member, err := resolveParticipant(ctx, s.store, id)
		if err != nil {
			return nil, err
		}
		if member.ID == creator.ID {
			continue
		}
		group.Members = append(group.Members, models.Member{
			UserID: member.ID, Role: models.RoleMember, JoinedAt: now,
		})
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "name", name, "error", err)
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	slog.Info("Group created", "group_id", group.ID, "members", len(group.Members))
	return group, nil
}

// Get retrieves a group with its member user records.
func (s *GroupService) Get(ctx context.Context, groupID string) (*GroupView, error) {
	group, err := getGroup(ctx, s.store, groupID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, group)
}

// List retrieves all groups the user belongs to.
func (s *GroupService) List(ctx context.Context, userID string) ([]*models.Group, error) {
	user, err := resolveParticipant(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.store.ListGroupsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// Update changes a group's name and description.
func (s *GroupService) Update(ctx context.Context, groupID, name, description string) (*models.Group, error) {
	if name == "" {
		return nil, &ledger.ValidationError{Message: "group name is required"}
	}
	if _, err := getGroup(ctx, s.store, groupID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateGroup(ctx, groupID, name, description); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return s.store.GetGroup(ctx, groupID)
}

// Delete removes a group with all its expenses, settlements and balances.
func (s *GroupService) Delete(ctx context.Context, groupID string) error {
	if _, err := getGroup(ctx, s.store, groupID); err != nil {
		return err
	}
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// AddMember adds a user to the group, identified by user ID or email.
func (s *GroupService) AddMember(ctx context.Context, groupID, identifier string) (*GroupView, error) {
	group, err := getGroup(ctx, s.store, groupID)
	if err != nil {
		return nil, err
	}

	user, err := resolveParticipant(ctx, s.store, identifier)
	if err != nil {
		// Fall back to email lookup for invite-by-address.
		byEmail, emailErr := s.store.GetUserByEmail(ctx, identifier)
		if emailErr != nil || byEmail == nil {
			return nil, err
		}
		user = byEmail
	}

	member := models.Member{
		UserID:   user.ID,
		Role:     models.RoleMember,
		JoinedAt: time.Now().Unix(),
	}
	if err := s.store.AddGroupMember(ctx, group.ID, member); err != nil {
		return nil, fmt.Errorf("failed to add group member: %w", err)
	}

	slog.Info("Member added", "group_id", group.ID, "user_id", user.ID)
	return s.Get(ctx, group.ID)
}

// RemoveMember removes a user from the group. A member with outstanding
// balances cannot leave; the debts must be settled or the ledger simplified
// first.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID string) (*GroupView, error) {
	group, err := getGroup(ctx, s.store, groupID)
	if err != nil {
		return nil, err
	}
	user, err := resolveParticipant(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(user.ID) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrParticipantNotFound, userID)
	}

	entries, err := s.store.ListBalancesByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check balances: %w", err)
	}
	for _, e := range entries {
		if e.UserA == user.ID || e.UserB == user.ID {
			return nil, &ledger.ValidationError{
				Message: "cannot remove a member with outstanding balances; settle up first",
			}
		}
	}

	if err := s.store.RemoveGroupMember(ctx, group.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to remove group member: %w", err)
	}

	slog.Info("Member removed", "group_id", group.ID, "user_id", user.ID)
	return s.Get(ctx, group.ID)
}

func (s *GroupService) view(ctx context.Context, group *models.Group) (*GroupView, error) {
	ids := make([]string, 0, len(group.Members))
	for _, m := range group.Members {
		ids = append(ids, m.UserID)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load group users: %w", err)
	}

	view := &GroupView{Group: group}
	for _, m := range group.Members {
		if u, ok := users[m.UserID]; ok {
			view.Users = append(view.Users, u)
		}
	}
	return view, nil
}
