// Package events provides an in-process publish/subscribe broker used to
// drive live data streams. Writers publish change notifications for a
// user's records and stream handlers re-read the current snapshot on each
// notification.
package events

import "sync"

// Stream names identify the record collections clients can observe.
const (
	StreamSessions = "sessions"
	StreamMessages = "messages"
	StreamScores   = "scores"
)

// Topic identifies one observable collection for one user. SessionID is
// set only for message streams scoped to a single chat session.
type Topic struct {
	UserID    int64
	Stream    string
	SessionID string
}

// Subscription delivers change notifications on C. Notifications are
// coalesced: a slow consumer sees at most one pending signal.
type Subscription struct {
	C      <-chan struct{}
	ch     chan struct{}
	closed bool
}

// Broker routes change notifications from writers to stream subscribers.
type Broker struct {
	mu   sync.Mutex
	subs map[Topic]map[*Subscription]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[Topic]map[*Subscription]struct{})}
}

// Subscribe registers interest in a topic. The returned cancel function
// removes the subscription and closes its channel; it is safe to call
// more than once.
func (b *Broker) Subscribe(t Topic) (*Subscription, func()) {
	ch := make(chan struct{}, 1)
	sub := &Subscription{C: ch, ch: ch}

	b.mu.Lock()
	set, ok := b.subs[t]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.subs[t] = set
	}
	set[sub] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.remove(t, sub)
	}
	return sub, cancel
}

// Publish notifies all subscribers of the topic. It never blocks; a
// subscriber with a pending notification is not signaled again.
func (b *Broker) Publish(t Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs[t] {
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// CancelUser closes every subscription belonging to a user. Used on
// logout so open streams terminate promptly.
func (b *Broker) CancelUser(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for topic, set := range b.subs {
		if topic.UserID != userID {
			continue
		}
		for sub := range set {
			b.remove(topic, sub)
		}
	}
}

// remove must be called with b.mu held.
func (b *Broker) remove(t Topic, sub *Subscription) {
	set, ok := b.subs[t]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(b.subs, t)
	}
	if !sub.closed {
		sub.closed = true
		close(sub.ch)
	}
}

// SubscriberCount returns the number of active subscriptions for a topic.
func (b *Broker) SubscriberCount(t Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[t])
}
