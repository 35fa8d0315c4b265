package enrich

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lepinkainen/athenaeum/internal/bookid"
)

// Session tracks the active book in an interactive run and debounces
// enrichment triggers as the selection changes. Results land in
// per-book in-memory state; a result arriving after the user has moved
// on is dropped from session state (the cache write already happened
// inside the Service, keyed by the book it was fetched for, so nothing
// is lost).
type Session struct {
	svc       *Service
	debouncer *Debouncer
	delays    map[Kind]time.Duration

	mu      sync.Mutex
	active  string
	results map[string]*Results
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDelays overrides the per-kind debounce delays. A zero delay makes
// that kind fire immediately, which is what the one-shot CLI mode uses.
func WithDelays(delays map[Kind]time.Duration) SessionOption {
	return func(s *Session) {
		if delays != nil {
			s.delays = delays
		}
	}
}

// NewSession creates a Session around a Service.
func NewSession(svc *Service, opts ...SessionOption) *Session {
	session := &Session{
		svc:       svc,
		debouncer: NewDebouncer(),
		delays:    DefaultDelays,
		results:   make(map[string]*Results),
	}

	for _, opt := range opts {
		opt(session)
	}

	return session
}

func timerName(key string, kind Kind) string {
	return key + "/" + string(kind)
}

// SetActive marks a book as the active selection. Pending debounce timers
// for the previous selection are cancelled, and enrichment is scheduled
// for every kind whose session state is still empty.
func (s *Session) SetActive(ctx context.Context, title, author string) {
	key := bookid.CanonicalID(title, author)

	s.mu.Lock()
	prev := s.active
	s.active = key
	if _, ok := s.results[key]; !ok {
		s.results[key] = &Results{}
	}
	current := s.results[key]
	s.mu.Unlock()

	if prev != "" && prev != key {
		for _, kind := range AllKinds {
			if s.debouncer.Cancel(timerName(prev, kind)) {
				slog.Debug("Cancelled pending enrichment", "key", prev, "kind", kind)
			}
		}
	}

	for _, kind := range AllKinds {
		if hasResults(current, kind) {
			continue
		}
		kind := kind
		s.debouncer.Start(timerName(key, kind), s.delays[kind], func() {
			s.run(ctx, key, kind, title, author)
		})
	}
}

func hasResults(r *Results, kind Kind) bool {
	switch kind {
	case KindPodcasts:
		return len(r.Podcasts) > 0
	case KindArticles:
		return len(r.Articles) > 0
	case KindRelated:
		return len(r.Related) > 0
	case KindFacts:
		return len(r.Facts) > 0
	case KindVideos:
		return len(r.Videos) > 0
	}
	return false
}

// run performs one enrichment and stores the outcome in session state,
// unless the user has switched books in the meantime. The stale-result
// guard only applies to session state: the Service has already written
// the cache for the book the fetch was keyed to.
func (s *Session) run(ctx context.Context, key string, kind Kind, title, author string) {
	var apply func(r *Results)

	switch kind {
	case KindPodcasts:
		data := s.svc.Podcasts(ctx, title, author)
		apply = func(r *Results) { r.Podcasts = data }
	case KindArticles:
		data := s.svc.Articles(ctx, title, author)
		apply = func(r *Results) { r.Articles = data }
	case KindRelated:
		data := s.svc.RelatedBooks(ctx, title, author)
		apply = func(r *Results) { r.Related = data }
	case KindFacts:
		data := s.svc.AuthorFacts(ctx, title, author)
		apply = func(r *Results) { r.Facts = data }
	case KindVideos:
		data := s.svc.Videos(ctx, title, author)
		apply = func(r *Results) { r.Videos = data }
	default:
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != key {
		slog.Debug("Dropping stale enrichment result", "key", key, "kind", kind, "active", s.active)
		return
	}
	apply(s.results[key])
}

// Results returns a copy of the session state for a book.
func (s *Session) Results(title, author string) Results {
	key := bookid.CanonicalID(title, author)

	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.results[key]; ok {
		return *r
	}
	return Results{}
}

// Close cancels all pending debounce timers.
func (s *Session) Close() {
	s.debouncer.CancelAll()
}
