package removal

import (
	"sync"
	"time"
)

// store holds in-flight sessions with their timeout timers. Completed and
// timed-out sessions are removed; an arriving component interaction for a
// missing id just gets the expired notice.
type store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	timers   map[string]*time.Timer
}

var active = &store{
	sessions: make(map[string]*Session),
	timers:   make(map[string]*time.Timer),
}

func (st *store) put(s *Session, timeout time.Duration, onTimeout func(Session)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	st.timers[s.ID] = time.AfterFunc(timeout, func() {
		expired, ok := st.take(s.ID)
		if !ok {
			return
		}
		next, effects, err := Transition(*expired, Event{Kind: EventTimeout})
		if err != nil || len(effects) == 0 {
			return
		}
		onTimeout(next)
	})
}

func (st *store) get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *store) update(s Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[s.ID]; ok {
		copied := s
		st.sessions[s.ID] = &copied
	}
}

// take removes a session, stopping its timer. Used on completion and by the
// timer itself, so whichever fires first wins.
func (st *store) take(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	delete(st.sessions, id)
	if t, tok := st.timers[id]; tok {
		t.Stop()
		delete(st.timers, id)
	}
	return s, true
}
