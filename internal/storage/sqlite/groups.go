package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitogram/internal/models"
)

// CreateGroup persists a new group and adds its creator as admin.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.InviteCode == "" {
		group.InviteCode = newInviteCode()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return s.transact(ctx, func(tx *SQLiteStore) error {
		_, err := tx.q.ExecContext(ctx,
			`INSERT INTO groups (id, name, invite_code, created_by, created_at) VALUES (?, ?, ?, ?, ?)`,
			group.ID, group.Name, group.InviteCode, group.CreatedBy, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		if _, err := tx.AddMember(ctx, group.ID, group.CreatedBy, models.RoleAdmin); err != nil {
			return err
		}
		return nil
	})
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, name, invite_code, created_by, created_at FROM groups WHERE id = ?`,
		groupID,
	)

	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("group", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetGroupByInviteCode retrieves the group an invite code belongs to.
func (s *SQLiteStore) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, name, invite_code, created_by, created_at FROM groups WHERE invite_code = ?`,
		code,
	)

	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("invite code", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by invite code: %w", err)
	}
	return group, nil
}

// ListGroupsForUser returns every group the user belongs to, newest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT g.id, g.name, g.invite_code, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.created_at DESC, g.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []*models.Group{}
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}
	return groups, nil
}

// AddMember adds a user to a group, reporting false if already a member.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID, role string) (bool, error) {
	if role == "" {
		role = models.RoleMember
	}

	res, err := s.q.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(group_id, user_id) DO NOTHING`,
		groupID, userID, role, time.Now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to add member: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to add member: %w", err)
	}
	return n > 0, nil
}

// ListMembers returns the group's members in join order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT gm.group_id, gm.user_id, u.display_name, u.username, gm.role, gm.joined_at
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = ?
		ORDER BY gm.joined_at, gm.rowid
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		var username sql.NullString
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.DisplayName, &username, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Username = username.String
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}

// IsMember reports whether the user belongs to the group.
func (s *SQLiteStore) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists int
	err := s.q.QueryRowContext(ctx,
		`SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

func scanGroup(row scanner) (*models.Group, error) {
	group := &models.Group{}
	if err := row.Scan(&group.ID, &group.Name, &group.InviteCode, &group.CreatedBy, &group.CreatedAt); err != nil {
		return nil, err
	}
	return group, nil
}

// newInviteCode returns a short random code for joining a group.
func newInviteCode() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
