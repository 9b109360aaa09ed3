package media

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an idle picker session is kept.
const DefaultSessionTTL = 30 * time.Minute

// session is one open picker: its resolved window and the selection being curated.
type session struct {
	mu        sync.Mutex
	id        string
	exclude   URLSet
	window    *SelectionWindow
	selection *Selection
	gen       uint64
	closed    bool
	lastUsed  time.Time
}

// SessionView is the client-facing snapshot of a session.
type SessionView struct {
	ID        string             `json:"id"`
	Visible   []UnorganizedImage `json:"visible"`
	Revealed  int                `json:"revealed"`
	Total     int                `json:"total"`
	HasMore   bool               `json:"has_more"`
	Selection []string           `json:"selection"`
	Main      string             `json:"main,omitempty"`
}

func (s *session) view() SessionView {
	v := SessionView{
		ID:        s.id,
		Visible:   toImages(s.window.Visible()),
		Revealed:  s.window.Revealed(),
		Total:     s.window.Total(),
		HasMore:   s.window.HasMore(),
		Selection: s.selection.Commit(),
	}
	v.Main, _ = s.selection.Main()
	return v
}

type SessionManager struct {
	svc      *Service
	pageSize int
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionManager(svc *Service, pageSize int, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		svc:      svc,
		pageSize: pageSize,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

type OpenRequest struct {
	// Initial is the product's current ordered image list.
	Initial []string `json:"initial"`
	// Exclude holds URLs already picked elsewhere in the same batch. It lives only as long as the session.
	Exclude []string `json:"exclude"`
}

// Open invalidates the reference set, resolves the unorganized list and starts a session.
func (m *SessionManager) Open(ctx context.Context, req OpenRequest) (SessionView, error) {
	m.PurgeIdle()
	m.svc.InvalidateCache(ctx)
	excl := NewURLSet(req.Exclude...)
	objs, err := m.svc.Unorganized(ctx, excl, false)
	if err != nil {
		return SessionView{}, err
	}
	s := &session{
		id:        uuid.NewString(),
		exclude:   excl,
		window:    NewSelectionWindow(objs, m.pageSize),
		selection: NewSelection(req.Initial),
		lastUsed:  m.now(),
	}
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	return s.view(), nil
}

func (m *SessionManager) get(id string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// with runs fn under the session lock if the session is still open.
func (m *SessionManager) with(id string, fn func(s *session) error) (SessionView, error) {
	s, err := m.get(id)
	if err != nil {
		return SessionView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return SessionView{}, ErrSessionClosed
	}
	if err := fn(s); err != nil {
		return SessionView{}, err
	}
	s.lastUsed = m.now()
	return s.view(), nil
}

func (m *SessionManager) Get(id string) (SessionView, error) {
	return m.with(id, func(*session) error { return nil })
}

// Refresh re-resolves the list. The result is dropped if the session closed or a newer
// refresh started while this one was running.
func (m *SessionManager) Refresh(ctx context.Context, id string, force bool) (SessionView, error) {
	s, err := m.get(id)
	if err != nil {
		return SessionView{}, err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return SessionView{}, ErrSessionClosed
	}
	s.gen++
	gen := s.gen
	excl := s.exclude
	s.mu.Unlock()

	objs, err := m.svc.Unorganized(ctx, excl, force)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return SessionView{}, ErrSessionClosed
	case gen != s.gen:
		return SessionView{}, ErrStaleResult
	case err != nil:
		return SessionView{}, err
	}
	s.window = NewSelectionWindow(objs, m.pageSize)
	s.lastUsed = m.now()
	return s.view(), nil
}

func (m *SessionManager) Reveal(id string) (SessionView, error) {
	return m.with(id, func(s *session) error {
		s.window.Reveal()
		return nil
	})
}

func (m *SessionManager) Toggle(id, url string) (SessionView, error) {
	return m.with(id, func(s *session) error {
		s.selection.Toggle(url)
		return nil
	})
}

func (m *SessionManager) Reorder(id string, from, to int) (SessionView, error) {
	return m.with(id, func(s *session) error {
		return s.selection.Reorder(from, to)
	})
}

// UploadInto uploads a file and appends its URL to the session's selection.
func (m *SessionManager) UploadInto(ctx context.Context, id string, in UploadInput) (SessionView, error) {
	if _, err := m.Get(id); err != nil {
		return SessionView{}, err
	}
	img, err := m.svc.Upload(ctx, in)
	if err != nil {
		return SessionView{}, err
	}
	return m.with(id, func(s *session) error {
		s.selection.Append(img.URL)
		return nil
	})
}

// Commit returns the final ordered list and closes the session.
func (m *SessionManager) Commit(id string) ([]string, error) {
	return m.CommitWith(id, nil)
}

// CommitWith hands the final ordered list to write while holding the session, so no
// toggle or reorder can land between the write and the close. If write fails the
// session stays open and unchanged.
func (m *SessionManager) CommitWith(id string, write func(images []string) error) ([]string, error) {
	var out []string
	if _, err := m.with(id, func(s *session) error {
		images := s.selection.Commit()
		if write != nil {
			if err := write(images); err != nil {
				return err
			}
		}
		out = images
		s.closed = true
		return nil
	}); err != nil {
		return nil, err
	}
	m.remove(id)
	return out, nil
}

// Close discards the session. Results of requests still running for it are dropped.
func (m *SessionManager) Close(id string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	m.remove(id)
	return nil
}

func (m *SessionManager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// PurgeIdle closes sessions unused for longer than the TTL and returns how many were closed.
func (m *SessionManager) PurgeIdle() int {
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		if s.lastUsed.Before(cutoff) {
			s.closed = true
			delete(m.sessions, id)
			n++
		}
		s.mu.Unlock()
	}
	return n
}

// Len returns the number of open sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
