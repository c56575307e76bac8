package moderation_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/reaper/internal/database/models"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/pkg/duration"
)

// fakeActionStore is an in-memory ActionStore.
type fakeActionStore struct {
	actions   []*types.Action
	createErr error
	countErr  error
}

func (s *fakeActionStore) Create(
	_ context.Context, actionType enum.ActionType,
	guildID, userID, moderatorID uint64, reason string, dur *duration.Duration,
) (*types.Action, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}

	now := time.Now()
	action := &types.Action{
		ID:          uuid.New(),
		Type:        actionType,
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		Active:      true,
		CreatedAt:   now,
	}
	if dur != nil {
		action.Expiry = dur.ExpiryFrom(now)
	}

	s.actions = append(s.actions, action)

	return action, nil
}

func (s *fakeActionStore) Get(_ context.Context, guildID uint64, id uuid.UUID) (*types.Action, error) {
	for _, action := range s.actions {
		if action.GuildID == guildID && action.ID == id {
			return action, nil
		}
	}

	return nil, models.ErrActionNotFound
}

func (s *fakeActionStore) CountActiveStrikes(_ context.Context, guildID, userID uint64) (uint64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}

	var count uint64

	for _, action := range s.actions {
		if action.GuildID == guildID && action.UserID == userID &&
			action.Type == enum.ActionTypeStrike && action.Active {
			count++
		}
	}

	return count, nil
}

func (s *fakeActionStore) ExpireMostRecent(
	_ context.Context, guildID, userID uint64, actionType enum.ActionType,
) (*types.Action, error) {
	for i := len(s.actions) - 1; i >= 0; i-- {
		action := s.actions[i]
		if action.GuildID == guildID && action.UserID == userID &&
			action.Type == actionType && action.Active {
			action.Active = false
			return action, nil
		}
	}

	return nil, models.ErrActionNotFound
}

func (s *fakeActionStore) ClaimDueExpired(_ context.Context, now time.Time) ([]*types.Action, error) {
	var claimed []*types.Action

	for _, action := range s.actions {
		if action.Active && action.Expiry != nil && action.Expiry.Before(now) {
			action.Active = false
			claimed = append(claimed, action)
		}
	}

	return claimed, nil
}

// fakeGuildStore serves a fixed guild configuration.
type fakeGuildStore struct {
	config types.GuildConfig
	err    error
}

func (s *fakeGuildStore) GetOrCreate(_ context.Context, guildID uint64) (*types.Guild, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &types.Guild{ID: guildID, Config: s.config}, nil
}

// fakeEffector records side-effect calls.
type fakeEffector struct {
	bans        []uint64
	unbans      []uint64
	kicks       []uint64
	granted     map[uint64]uint64 // userID -> roleID
	revoked     map[uint64]uint64
	memberRoles map[uint64][]uint64 // userID -> role IDs

	banErr   error
	kickErr  error
	grantErr error
	roleErr  error
}

func newFakeEffector() *fakeEffector {
	return &fakeEffector{
		granted:     make(map[uint64]uint64),
		revoked:     make(map[uint64]uint64),
		memberRoles: make(map[uint64][]uint64),
	}
}

func (e *fakeEffector) Ban(_ context.Context, _, userID uint64, _ string) error {
	if e.banErr != nil {
		return e.banErr
	}

	e.bans = append(e.bans, userID)

	return nil
}

func (e *fakeEffector) Unban(_ context.Context, _, userID uint64, _ string) error {
	e.unbans = append(e.unbans, userID)
	return nil
}

func (e *fakeEffector) Kick(_ context.Context, _, userID uint64, _ string) error {
	if e.kickErr != nil {
		return e.kickErr
	}

	e.kicks = append(e.kicks, userID)

	return nil
}

func (e *fakeEffector) GrantRole(_ context.Context, _, userID, roleID uint64, _ string) error {
	if e.grantErr != nil {
		return e.grantErr
	}

	e.granted[userID] = roleID

	return nil
}

func (e *fakeEffector) RevokeRole(_ context.Context, _, userID, roleID uint64, _ string) error {
	e.revoked[userID] = roleID
	return nil
}

func (e *fakeEffector) MemberHasRole(_ context.Context, _, userID, roleID uint64) (bool, error) {
	if e.roleErr != nil {
		return false, e.roleErr
	}

	for _, id := range e.memberRoles[userID] {
		if id == roleID {
			return true, nil
		}
	}

	return false, nil
}

// fakeAudit counts emitted audit lines.
type fakeAudit struct {
	logged    []*types.Action
	reversals []*types.Action
}

func (a *fakeAudit) LogAction(_ context.Context, action *types.Action) {
	a.logged = append(a.logged, action)
}

func (a *fakeAudit) LogReversal(_ context.Context, action *types.Action, _ uint64) {
	a.reversals = append(a.reversals, action)
}

// fakeGrantStore serves stored grants from maps keyed by guild and ID.
type fakeGrantStore struct {
	users   map[string][]string
	roles   map[string][]string
	userErr error
	roleErr error
}

func newFakeGrantStore() *fakeGrantStore {
	return &fakeGrantStore{
		users: make(map[string][]string),
		roles: make(map[string][]string),
	}
}

func grantKey(guildID, id uint64) string {
	return fmt.Sprintf("%d:%d", guildID, id)
}

func (s *fakeGrantStore) GetOrCreateUser(_ context.Context, guildID, userID uint64) (*types.GuildUser, error) {
	if s.userErr != nil {
		return nil, s.userErr
	}

	return &types.GuildUser{
		ID:          userID,
		GuildID:     guildID,
		Permissions: s.users[grantKey(guildID, userID)],
	}, nil
}

func (s *fakeGrantStore) GetOrCreateRole(_ context.Context, guildID, roleID uint64) (*types.GuildRole, error) {
	if s.roleErr != nil {
		return nil, s.roleErr
	}

	return &types.GuildRole{
		ID:          roleID,
		GuildID:     guildID,
		Permissions: s.roles[grantKey(guildID, roleID)],
	}, nil
}
