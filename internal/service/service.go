// Package service implements the splitogram Connect services. Handlers read
// the caller from the request context, pass it explicitly to the core and
// translate domain errors to Connect errors.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/middleware"
	"github.com/mmynk/splitogram/internal/models"
	"github.com/mmynk/splitogram/internal/storage"
)

var errUnauthenticated = errors.New("authentication required")

// callerID returns the authenticated user id.
func callerID(ctx context.Context) (string, error) {
	id := middleware.GetUserID(ctx)
	if id == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errUnauthenticated)
	}
	return id, nil
}

// toConnectError logs err and converts it for the wire. Internal causes are
// logged here because the client only sees a generic message.
func toConnectError(method string, err error) error {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) && apperror.KindOf(err) == apperror.KindInternal {
		slog.Error(method+" failed", "error", err)
	}
	return apperror.ToConnectError(err)
}

// requireMember fails with NotFound for an unknown group and NotMember when
// userID does not belong to it.
func requireMember(ctx context.Context, store storage.GroupStore, groupID, userID string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("group not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}

	member, err := store.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, apperror.NotMember("you are not a member of this group")
	}
	return group, nil
}

// registerCaller creates or refreshes the caller's user row from the session.
func registerCaller(ctx context.Context, store storage.UserStore) (*models.User, error) {
	identity := middleware.GetIdentity(ctx)
	if identity.ID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errUnauthenticated)
	}

	user := *identity
	if user.DisplayName == "" {
		user.DisplayName = user.ID
	}
	if err := store.UpsertUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &user, nil
}

// lookupUsers loads the users referenced by ids.
func lookupUsers(ctx context.Context, store storage.UserStore, ids ...string) (map[string]*models.User, error) {
	users, err := store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	return users, nil
}
