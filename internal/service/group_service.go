package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/calculator"
	"github.com/mmynk/splitogram/internal/ledger"
	"github.com/mmynk/splitogram/internal/models"
	"github.com/mmynk/splitogram/internal/storage"
	"github.com/mmynk/splitogram/pkg/api"
)

// MembershipEvents is notified when a user joins a group.
type MembershipEvents interface {
	MemberJoined(groupID, userID string)
}

// GroupService implements the Connect GroupService
type GroupService struct {
	store    storage.Store
	balances *ledger.Aggregator
	events   MembershipEvents
}

// NewGroupService creates a new GroupService with the given storage backend.
// events may be nil.
func NewGroupService(store storage.Store, events MembershipEvents) *GroupService {
	return &GroupService{
		store:    store,
		balances: ledger.NewAggregator(store),
		events:   events,
	}
}

// CreateGroup creates a group with the caller as its admin.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received", "name", req.Msg.Name)

	group := &models.Group{Name: req.Msg.Name}
	err := s.store.WithinTx(ctx, func(tx storage.Store) error {
		user, err := registerCaller(ctx, tx)
		if err != nil {
			return err
		}
		group.CreatedBy = user.ID
		if err := tx.CreateGroup(ctx, group); err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, toConnectError("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID, "created_by", group.CreatedBy)

	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup returns a group and its members to one of its members.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := requireMember(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError("GetGroup", err)
	}

	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, toConnectError("GetGroup", fmt.Errorf("list members: %w", err))
	}

	return connect.NewResponse(&api.GetGroupResponse{
		Group:   groupToAPI(group),
		Members: membersToAPI(members),
	}), nil
}

// ListGroups returns the caller's groups with the caller's net balance in each.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListGroups", fmt.Errorf("list groups: %w", err))
	}

	summaries := make([]api.GroupSummary, 0, len(groups))
	for _, group := range groups {
		balances, err := s.balances.ComputeNetBalances(ctx, group.ID)
		if err != nil {
			return nil, toConnectError("ListGroups", err)
		}
		summaries = append(summaries, api.GroupSummary{
			Group:       groupToAPI(group),
			MemberCount: len(balances),
			NetBalance:  calculator.BalanceOf(balances, userID),
		})
	}

	slog.Info("ListGroups successful", "user_id", userID, "count", len(summaries))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: summaries}), nil
}

// JoinGroup adds the caller to the group behind an invite code. Joining a
// group twice is not an error; Joined reports whether anything changed.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	var (
		group  *models.Group
		userID string
		joined bool
	)
	err := s.store.WithinTx(ctx, func(tx storage.Store) error {
		var err error
		group, err = tx.GetGroupByInviteCode(ctx, req.Msg.InviteCode)
		if errors.Is(err, storage.ErrNotFound) {
			return apperror.NotFound("invite code not found")
		}
		if err != nil {
			return fmt.Errorf("get group by invite code: %w", err)
		}

		user, err := registerCaller(ctx, tx)
		if err != nil {
			return err
		}
		userID = user.ID

		joined, err = tx.AddMember(ctx, group.ID, user.ID, models.RoleMember)
		if err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, toConnectError("JoinGroup", err)
	}

	if joined {
		slog.Info("Member joined", "group_id", group.ID, "user_id", userID)
		if s.events != nil {
			s.events.MemberJoined(group.ID, userID)
		}
	}

	return connect.NewResponse(&api.JoinGroupResponse{
		Group:  groupToAPI(group),
		Joined: joined,
	}), nil
}
