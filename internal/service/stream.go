package service

import "github.com/bench-prog/barsim/internal/engine"

// streamBuffer bounds how many per-bar batches a slow subscriber may
// lag before batches are dropped for it.
const streamBuffer = 64

// Subscribe registers a notification subscriber on the session. The
// returned channel receives one batch per processed bar; the returned
// function unsubscribes and closes the channel.
func (s *SessionService) Subscribe(sessionID string) (<-chan []engine.Notification, func(), error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan []engine.Notification, streamBuffer)

	sess.mu.Lock()
	sess.subs[ch] = true
	sess.mu.Unlock()

	unsubscribe := func() {
		sess.mu.Lock()
		if sess.subs[ch] {
			delete(sess.subs, ch)
			close(ch)
		}
		sess.mu.Unlock()
	}
	return ch, unsubscribe, nil
}

// broadcast fans a notification batch out to all subscribers without
// blocking bar processing: a subscriber whose buffer is full misses the
// batch. Callers hold the session mutex.
func (sess *Session) broadcast(notes []engine.Notification) {
	if len(notes) == 0 {
		return
	}
	for ch := range sess.subs {
		select {
		case ch <- notes:
		default:
		}
	}
}
