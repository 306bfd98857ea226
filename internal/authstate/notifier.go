package authstate

import (
	"sync"

	"github.com/Rrens/storefront-assistant/internal/domain"
)

// EventKind identifies an authentication transition
type EventKind string

const (
	EventLogin  EventKind = "login"
	EventLogout EventKind = "logout"
)

// Event is published whenever the signed-in state changes. Seq increases
// by one with every publish.
type Event struct {
	Kind EventKind
	User *domain.User
	Seq  uint64
}

// Notifier fans out auth events to subscribers. Publishing never blocks and
// never drops: each subscriber has its own unbounded queue, drained in
// publish order.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	seq    uint64
	subs   map[int]*subscriber
}

type subscriber struct {
	mu     sync.Mutex
	queue  []Event
	signal chan struct{}
	stop   chan struct{}
	out    chan Event
}

// NewNotifier creates a notifier with no subscribers
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]*subscriber)}
}

// Subscribe registers a listener. The returned func unsubscribes; the
// channel is closed shortly after.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	sub := &subscriber{
		signal: make(chan struct{}, 1),
		stop:   make(chan struct{}),
		out:    make(chan Event),
	}

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = sub
	n.mu.Unlock()

	go sub.pump()

	var once sync.Once
	return sub.out, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
			close(sub.stop)
		})
	}
}

// Publish queues ev for every subscriber and stamps it with the next sequence number
func (n *Notifier) Publish(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	ev.Seq = n.seq
	for _, sub := range n.subs {
		sub.push(ev)
	}
}

// Latest returns the sequence number of the most recently published event
func (n *Notifier) Latest() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seq
}

func (s *subscriber) push(ev Event) {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscriber) pop() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return Event{}, false
	}
	ev := s.queue[0]
	s.queue[0] = Event{}
	s.queue = s.queue[1:]
	return ev, true
}

func (s *subscriber) pump() {
	defer close(s.out)

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		ev, ok := s.pop()
		if !ok {
			select {
			case <-s.signal:
				continue
			case <-s.stop:
				return
			}
		}

		select {
		case s.out <- ev:
		case <-s.stop:
			return
		}
	}
}
