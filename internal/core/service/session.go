package service

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/ports"
	"github.com/hackorsnooze/story-client/internal/pkg/metrics"
)

// Session is the state of one browser: the global story list it was shown
// and, once authenticated, its current user. It is passed explicitly to every
// operation that needs it.
type Session struct {
	Scope   string
	Stories *domain.StoryCollection

	mu   sync.RWMutex
	user *domain.CurrentUser
}

// User returns the authenticated user, or nil.
func (s *Session) User() *domain.CurrentUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser replaces the session's user.
func (s *Session) SetUser(u *domain.CurrentUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// SessionLimits bounds the sessions a registry keeps in memory. Zero values
// disable the corresponding bound.
type SessionLimits struct {
	// IdleTTL evicts a session not used for this long.
	IdleTTL time.Duration
	// MaxSessions evicts the least recently used session beyond this count.
	MaxSessions int
}

type registryEntry struct {
	session  *Session
	lastUsed time.Time
	elem     *list.Element
}

// SessionRegistry holds one Session per scope. A session is created on first
// use with a single fetch of all stories and a single silent restore.
// Evicted sessions only lose their in-memory state: persisted credentials
// stay, so the next Open restores the user.
type SessionRegistry struct {
	stories  ports.StoryService
	sessions ports.SessionService
	limits   SessionLimits
	logger   zerolog.Logger
	now      func() time.Time

	group   singleflight.Group
	mu      sync.Mutex
	byScope map[string]*registryEntry
	lru     *list.List // front is most recently used; values are scopes
}

func NewSessionRegistry(stories ports.StoryService, sessions ports.SessionService, limits SessionLimits, logger zerolog.Logger) *SessionRegistry {
	return &SessionRegistry{
		stories:  stories,
		sessions: sessions,
		limits:   limits,
		logger:   logger,
		now:      time.Now,
		byScope:  make(map[string]*registryEntry),
		lru:      list.New(),
	}
}

// Open returns the session of scope, creating it if needed. A failed story
// fetch is returned and nothing is cached, so the next call tries again.
func (r *SessionRegistry) Open(ctx context.Context, scope string) (*Session, error) {
	if s, ok := r.lookup(scope); ok {
		return s, nil
	}

	v, err, _ := r.group.Do(scope, func() (any, error) {
		if s, ok := r.lookup(scope); ok {
			return s, nil
		}

		stories, err := r.stories.FetchAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
		s := &Session{Scope: scope, Stories: stories}
		s.SetUser(r.sessions.Restore(ctx, scope))
		r.insert(s)

		ev := r.logger.Debug().Str("scope", scope).Int("stories", stories.Len())
		if u := s.User(); u != nil {
			ev = ev.Str("username", u.Username)
		}
		ev.Msg("session opened")
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Refresh re-reads every story from the store into the session's collection.
func (r *SessionRegistry) Refresh(ctx context.Context, s *Session) error {
	fresh, err := r.stories.FetchAll(ctx)
	if err != nil {
		return err
	}
	s.Stories.Replace(fresh.Stories())
	return nil
}

// Drop forgets the session of scope. The next Open starts from scratch.
func (r *SessionRegistry) Drop(scope string) {
	r.mu.Lock()
	if e, ok := r.byScope[scope]; ok {
		r.remove(e)
	}
	n := len(r.byScope)
	r.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))
}

// Sweep evicts every session idle for longer than the TTL and returns how
// many were removed.
func (r *SessionRegistry) Sweep() int {
	if r.limits.IdleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	now := r.now()
	evicted := 0
	for el := r.lru.Back(); el != nil; {
		e := r.byScope[el.Value.(string)]
		if now.Sub(e.lastUsed) <= r.limits.IdleTTL {
			break
		}
		prev := el.Prev()
		r.remove(e)
		evicted++
		el = prev
	}
	n := len(r.byScope)
	r.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	if evicted > 0 {
		r.logger.Debug().Int("evicted", evicted).Int("remaining", n).Msg("idle sessions evicted")
	}
	return evicted
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) {
	if r.limits.IdleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Len returns the number of open sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byScope)
}

// lookup returns a live session and marks it used. An expired one is evicted
// and reported absent.
func (r *SessionRegistry) lookup(scope string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byScope[scope]
	if !ok {
		return nil, false
	}
	now := r.now()
	if r.limits.IdleTTL > 0 && now.Sub(e.lastUsed) > r.limits.IdleTTL {
		r.remove(e)
		return nil, false
	}
	e.lastUsed = now
	r.lru.MoveToFront(e.elem)
	return e.session, true
}

func (r *SessionRegistry) insert(s *Session) {
	r.mu.Lock()
	if old, ok := r.byScope[s.Scope]; ok {
		r.remove(old)
	}
	e := &registryEntry{session: s, lastUsed: r.now()}
	e.elem = r.lru.PushFront(s.Scope)
	r.byScope[s.Scope] = e
	for r.limits.MaxSessions > 0 && len(r.byScope) > r.limits.MaxSessions {
		oldest := r.byScope[r.lru.Back().Value.(string)]
		r.remove(oldest)
	}
	n := len(r.byScope)
	r.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))
}

// remove must be called with r.mu held.
func (r *SessionRegistry) remove(e *registryEntry) {
	r.lru.Remove(e.elem)
	delete(r.byScope, e.session.Scope)
}
