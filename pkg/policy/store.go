package policy

import (
	"context"
	"sync"

	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.uber.org/zap"

	"github.com/easelgate/easelgate/pkg/models"
)

// Source fetches identity and policy from the editor. Implemented by the
// REST client; mocked in tests.
type Source interface {
	FetchCurrentUser(ctx context.Context) (*models.CurrentUser, humane.Error)
	FetchGroups(ctx context.Context) (*models.GroupsResponse, humane.Error)
	PushGroups(ctx context.Context, groups *models.GroupsResponse) humane.Error
}

// Store caches the current user and the role-policy map. Both are fetched
// lazily on first use and refreshed only on Invalidate or UpdateGroups. A
// failed fetch keeps the previous cached value; before the first successful
// fetch callers receive nil and must defer enforcement.
//
// Unlike the single-threaded frontend this was ported from, the store is read
// from the enforcement goroutine and written from request goroutines, so all
// cache access is mutex-guarded.
type Store struct {
	source Source

	mu   sync.Mutex
	user *models.CurrentUser
	pmap Map
}

// NewStore creates a Store backed by the given source.
func NewStore(source Source) *Store {
	return &Store{source: source}
}

// CurrentUser returns the cached user, fetching it on first use. Returns nil
// without error when no value has ever been fetched successfully.
func (s *Store) CurrentUser(ctx context.Context) *models.CurrentUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		user, err := s.source.FetchCurrentUser(ctx)
		if err != nil {
			otelzap.L().WithError(err).WarnContext(ctx, "current-user fetch failed, keeping cached value")
			return s.user
		}
		s.user = user
	}

	return s.user
}

// PolicyMap returns the cached role-policy map, fetching it on first use.
// Returns nil when no value has ever been fetched successfully.
func (s *Store) PolicyMap(ctx context.Context) Map {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pmap == nil {
		resp, err := s.source.FetchGroups(ctx)
		if err != nil {
			otelzap.L().WithError(err).WarnContext(ctx, "policy-map fetch failed, keeping cached value")
			return s.pmap
		}
		s.pmap = FromGroupsResponse(resp)
	}

	return s.pmap
}

// EffectiveRole resolves the role to enforce for: the cached user's role, or
// guest when identity is unknown. The is_admin flag wins over the group list.
func (s *Store) EffectiveRole(ctx context.Context) Role {
	user := s.CurrentUser(ctx)
	if user == nil {
		return RoleGuest
	}
	if user.IsAdmin {
		return RoleAdmin
	}
	if r := Role(user.Role); r.Valid() {
		return r
	}
	return ParseRole(user.Groups)
}

// Invalidate drops both caches so the next read refetches. Called after an
// administrator edit lands elsewhere.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.pmap = nil
}

// UpdateGroups writes the given map through to the server and, on success,
// replaces the cache with it.
func (s *Store) UpdateGroups(ctx context.Context, m Map) humane.Error {
	if err := s.source.PushGroups(ctx, m.ToGroupsResponse()); err != nil {
		return humane.Wrap(err, "failed to update role policy map", "verify the session has admin rights")
	}

	s.mu.Lock()
	s.pmap = m
	s.mu.Unlock()

	otelzap.L().InfoContext(ctx, "role policy map updated", zap.Int("roles", len(m)))
	return nil
}
