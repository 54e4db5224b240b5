package main

import (
	"context"
	"fmt"
	"log"
	"maps"
	"slices"
	"time"

	"github.com/ryansname/gridsizer/src/portfolio"
)

// SessionUpdate is emitted after a command changes a session, or fails without a reply channel
type SessionUpdate struct {
	Session  string
	Snapshot portfolio.Snapshot
	Err      error
}

type session struct {
	store    *portfolio.Store
	draft    map[string]string
	lastUsed time.Time
}

// Session limits. The console session is never evicted.
const (
	DefaultMaxSessions = 64
	DefaultSessionIdle = 12 * time.Hour
	sessionSweepPeriod = 5 * time.Minute
)

// SessionManager owns one store per session. It is only used from the session worker.
// Sessions idle for longer than idle are evicted, as is the least recently used
// one when a new session would exceed maxSessions.
type SessionManager struct {
	seed        portfolio.Snapshot
	sessions    map[string]*session
	maxSessions int
	idle        time.Duration
	now         func() time.Time
}

// NewSessionManager creates a manager whose new sessions start from seed
func NewSessionManager(seed portfolio.Snapshot) *SessionManager {
	return &SessionManager{
		seed:        seed,
		sessions:    make(map[string]*session),
		maxSessions: DefaultMaxSessions,
		idle:        DefaultSessionIdle,
		now:         time.Now,
	}
}

func (m *SessionManager) get(name string) (*session, error) {
	if s, ok := m.sessions[name]; ok {
		s.lastUsed = m.now()
		return s, nil
	}

	m.EvictIdle()
	if len(m.sessions) >= m.maxSessions && !m.evictOldest() {
		return nil, fmt.Errorf("too many sessions (%d), not creating %s", len(m.sessions), name)
	}

	store, err := portfolio.NewStoreFrom(m.seed)
	if err != nil {
		return nil, fmt.Errorf("seeding session %s: %w", name, err)
	}
	s := &session{store: store, draft: make(map[string]string), lastUsed: m.now()}
	m.sessions[name] = s
	log.Printf("Session %s created (%d active)\n", name, len(m.sessions))
	return s, nil
}

// EvictIdle drops sessions that have not been used within the idle timeout
// and returns their names
func (m *SessionManager) EvictIdle() []string {
	cutoff := m.now().Add(-m.idle)
	var evicted []string
	for _, name := range slices.Sorted(maps.Keys(m.sessions)) {
		if name != ConsoleSession && m.sessions[name].lastUsed.Before(cutoff) {
			delete(m.sessions, name)
			evicted = append(evicted, name)
			log.Printf("Session %s evicted after being idle\n", name)
		}
	}
	return evicted
}

// evictOldest drops the least recently used session other than the console
func (m *SessionManager) evictOldest() bool {
	oldest := ""
	for name, s := range m.sessions {
		if name == ConsoleSession {
			continue
		}
		if oldest == "" || s.lastUsed.Before(m.sessions[oldest].lastUsed) {
			oldest = name
		}
	}
	if oldest == "" {
		return false
	}
	delete(m.sessions, oldest)
	log.Printf("Session %s evicted to make room\n", oldest)
	return true
}

// Len returns the number of live sessions
func (m *SessionManager) Len() int {
	return len(m.sessions)
}

// Handle applies a command. changed reports whether the session's snapshot changed.
func (m *SessionManager) Handle(cmd Command) (reply Reply, changed bool) {
	s, err := m.get(cmd.Session)
	if err != nil {
		return Reply{Err: err}, false
	}

	changed, err = m.apply(s, cmd)
	return Reply{Err: err, Snapshot: s.store.Snapshot(), Draft: maps.Clone(s.draft)}, changed
}

func (m *SessionManager) apply(s *session, cmd Command) (bool, error) {
	switch cmd.Op {
	case OpShow:
		return false, nil

	case OpSelect:
		var sel portfolio.Selection
		if err := sel.UnmarshalText([]byte(cmd.Target)); err != nil {
			return false, err
		}
		clear(s.draft)
		s.store.SelectForEdit(sel)
		return true, nil

	case OpSet:
		k, ok := s.store.Snapshot().Selected.Kind()
		if !ok {
			return false, fmt.Errorf("no component selected, use edit <component> first")
		}
		draft := maps.Clone(s.draft)
		maps.Copy(draft, cmd.Fields)
		if _, err := portfolio.ApplyFields(s.store.Snapshot().Spec(k), draft); err != nil {
			return false, err
		}
		s.draft = draft
		return false, nil

	case OpSave:
		k, err := m.saveTarget(s, cmd.Target)
		if err != nil {
			return false, err
		}
		fields := maps.Clone(s.draft)
		maps.Copy(fields, cmd.Fields)
		spec, err := portfolio.ApplyFields(s.store.Snapshot().Spec(k), fields)
		if err != nil {
			return false, err
		}
		if err := s.store.Save(k, spec); err != nil {
			return false, err
		}
		clear(s.draft)
		return true, nil

	case OpCancel:
		clear(s.draft)
		s.store.SelectForEdit(portfolio.None)
		return true, nil

	case OpSetGlobal:
		g, err := portfolio.ApplyGlobalFields(s.store.Snapshot().Global, cmd.Fields)
		if err != nil {
			return false, err
		}
		if err := s.store.SetGlobal(g); err != nil {
			return false, err
		}
		return true, nil

	case OpAttach:
		ref, err := portfolio.ParseProfileRef(cmd.Fields["id"], cmd.Fields["name"])
		if err != nil {
			return false, err
		}
		if cmd.Target == TargetLoad {
			s.store.AttachLoadProfile(ref)
			return true, nil
		}
		k, err := portfolio.ParseKind(cmd.Target)
		if err != nil {
			return false, err
		}
		s.store.AttachProfile(k, ref)
		return true, nil
	}

	return false, fmt.Errorf("unsupported operation %s", cmd.Op)
}

// saveTarget resolves which component a save applies to: the named one, else the selection
func (m *SessionManager) saveTarget(s *session, target string) (portfolio.Kind, error) {
	if target != "" {
		return portfolio.ParseKind(target)
	}
	if k, ok := s.store.Snapshot().Selected.Kind(); ok {
		return k, nil
	}
	return 0, fmt.Errorf("no component selected, use edit <component> first")
}

// sessionWorker serialises every command for every session through one goroutine
func sessionWorker(
	ctx context.Context,
	commandChan <-chan Command,
	updateChan chan<- SessionUpdate,
	seed portfolio.Snapshot,
) {
	log.Println("Session worker started")
	manager := NewSessionManager(seed)

	ticker := time.NewTicker(sessionSweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			manager.EvictIdle()

		case cmd := <-commandChan:
			reply, changed := manager.Handle(cmd)

			if reply.Err != nil {
				log.Printf("Session %s: %s %s failed: %v\n", cmd.Session, cmd.Op, cmd.Target, reply.Err)
			}

			if cmd.Reply != nil {
				select {
				case cmd.Reply <- reply:
				case <-ctx.Done():
					return
				}
			}

			// Callers without a reply channel (MQTT) only hear back through updates
			republish := cmd.Reply == nil && (reply.Err != nil || cmd.Op == OpShow)
			if changed || republish {
				update := SessionUpdate{Session: cmd.Session, Snapshot: reply.Snapshot, Err: reply.Err}
				select {
				case updateChan <- update:
				case <-ctx.Done():
					return
				}
			}

		case <-ctx.Done():
			log.Println("Session worker stopped")
			return
		}
	}
}
