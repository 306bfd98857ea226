package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rrens/storefront-assistant/internal/authstate"
	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyQuery      = errors.New("search query is empty")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrNoSession       = errors.New("no active chat session")
	ErrLoginRequired   = errors.New("please log in to continue")
	ErrMessageNotFound = errors.New("message not found")
	ErrNotRetryable    = errors.New("only failed user messages can be retried")
	ErrSessionReset    = errors.New("chat session was reset")
)

// ChatBackend is the part of the storefront API the chat view talks to
type ChatBackend interface {
	StartSession(ctx context.Context, category string) (*domain.StartSessionResponse, error)
	SendMessage(ctx context.Context, sessionID, message string) (*domain.ChatMessageResponse, error)
	GetConversation(ctx context.Context, sessionID string) (*domain.Conversation, error)
	ListSearchSessions(ctx context.Context) ([]domain.SessionSummary, error)
	LinkSession(ctx context.Context, sessionID string) error
	GetSessionProducts(ctx context.Context, sessionID string) ([]domain.Product, error)
}

// ChatTracker records the recent-session heuristic in client storage
type ChatTracker interface {
	MarkChatSession(ctx context.Context, sessionID string) error
	RecentChatSession(ctx context.Context, window time.Duration) (string, bool)
}

// AuthEvents is the login/logout notification channel. Latest reports the
// sequence number of the newest published event.
type AuthEvents interface {
	Subscribe() (<-chan authstate.Event, func())
	Latest() uint64
}

// ChatState is the reconciliation state of the chat view
type ChatState string

const (
	StateIdle           ChatState = "idle"
	StateSessionStarted ChatState = "session-started"
	StateAwaitingReply  ChatState = "awaiting-reply"
	StateLoginRequired  ChatState = "login-required"
)

// ChatView is a point-in-time copy of everything the chat view renders
type ChatView struct {
	State           ChatState
	SessionID       string
	Messages        []domain.Message
	Products        []domain.Product
	Filters         domain.Filters
	RequiresLogin   bool
	InputEnabled    bool
	ShowLoginPrompt bool
}

type chatSession struct {
	id            string
	messages      []domain.Message
	products      []domain.Product
	filters       domain.Filters
	requiresLogin bool
}

// ChatService reconciles local chat state with the storefront API.
//
// Operations run one at a time in the order they were called. A send
// appends its user message immediately, so the displayed order always
// follows call order even when replies resolve out of order. Reset bumps
// a generation counter; results of operations queued before it are dropped.
// A queued send is pinned to the session it was typed into and is never
// delivered to a session that replaced it.
type ChatService struct {
	backend ChatBackend
	tracker ChatTracker
	events  AuthEvents
	window  time.Duration

	mu       sync.Mutex
	session  chatSession
	gen      uint64
	inflight int
	tail     chan struct{}
}

// NewChatService creates a chat service in the idle state.
// tracker and events may be nil.
func NewChatService(backend ChatBackend, tracker ChatTracker, events AuthEvents, recentWindow time.Duration) *ChatService {
	tail := make(chan struct{})
	close(tail)
	return &ChatService{
		backend: backend,
		tracker: tracker,
		events:  events,
		window:  recentWindow,
		tail:    tail,
	}
}

// Snapshot returns a copy of the current view state
func (s *ChatService) Snapshot() ChatView {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]domain.Message, len(s.session.messages))
	copy(msgs, s.session.messages)

	return ChatView{
		State:           s.stateLocked(),
		SessionID:       s.session.id,
		Messages:        msgs,
		Products:        domain.CloneProducts(s.session.products),
		Filters:         s.session.filters.Clone(),
		RequiresLogin:   s.session.requiresLogin,
		InputEnabled:    !s.session.requiresLogin,
		ShowLoginPrompt: s.session.requiresLogin,
	}
}

func (s *ChatService) stateLocked() ChatState {
	switch {
	case s.session.requiresLogin:
		return StateLoginRequired
	case s.session.id == "":
		return StateIdle
	case s.inflight > 0:
		return StateAwaitingReply
	default:
		return StateSessionStarted
	}
}

// enqueueLocked reserves the next slot in the operation queue. The caller
// must hold s.mu and must call done exactly once.
func (s *ChatService) enqueueLocked() (wait <-chan struct{}, done func()) {
	prev := s.tail
	next := make(chan struct{})
	s.tail = next

	var once sync.Once
	return prev, func() { once.Do(func() { close(next) }) }
}

// await blocks until it is this operation's turn. On cancellation the slot
// is handed on once the predecessor finishes, so later operations keep order.
func await(ctx context.Context, wait <-chan struct{}, done func()) error {
	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		go func() {
			<-wait
			done()
		}()
		return ctx.Err()
	}
}

// Start opens a new chat session for a search query and seeds the view
// with the server greeting. On failure the view is idle with one error entry.
func (s *ChatService) Start(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}

	s.mu.Lock()
	gen := s.gen
	wait, done := s.enqueueLocked()
	s.mu.Unlock()

	if err := await(ctx, wait, done); err != nil {
		return err
	}
	defer done()

	resp, err := s.backend.StartSession(ctx, query)

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return ErrSessionReset
	}
	if err != nil {
		s.session = chatSession{
			messages: []domain.Message{domain.NewErrorMessage(err.Error(), nil)},
		}
		s.mu.Unlock()
		log.Warn().Err(err).Str("query", query).Msg("Failed to start chat session")
		return fmt.Errorf("failed to start session: %w", err)
	}

	s.session = chatSession{
		id:       resp.SessionID,
		messages: []domain.Message{domain.NewBotMessage(resp.Message, resp.Step)},
		products: replaceProducts(resp.Products),
		filters:  resp.Filters.Clone(),
	}
	s.mu.Unlock()

	log.Debug().Str("session_id", resp.SessionID).Msg("Chat session started")
	s.markSession(ctx, resp.SessionID)
	return nil
}

// Send appends the user message as pending and delivers it. The reply is
// inserted directly after the message it answers.
func (s *ChatService) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if err := s.canSendLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	msg := domain.NewUserMessage(text)
	s.session.messages = append(s.session.messages, msg)
	s.inflight++
	op := pendingSend{id: msg.ID, text: text, sessionID: s.session.id, gen: s.gen}
	wait, done := s.enqueueLocked()
	s.mu.Unlock()

	return s.deliver(ctx, op, wait, done)
}

// Retry re-sends a failed user message, dropping its error replies first
func (s *ChatService) Retry(ctx context.Context, messageID uuid.UUID) error {
	s.mu.Lock()
	if err := s.canSendLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	idx := s.indexLocked(messageID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrMessageNotFound
	}
	msg := s.session.messages[idx]
	if msg.Sender != domain.SenderUser || msg.Status != domain.StatusFailed {
		s.mu.Unlock()
		return ErrNotRetryable
	}

	kept := s.session.messages[:0]
	for _, m := range s.session.messages {
		if m.IsError() && m.ReplyTo != nil && *m.ReplyTo == messageID {
			continue
		}
		kept = append(kept, m)
	}
	s.session.messages = kept
	s.session.messages[s.indexLocked(messageID)].Status = domain.StatusPending

	s.inflight++
	op := pendingSend{id: messageID, text: msg.Text, sessionID: s.session.id, gen: s.gen}
	wait, done := s.enqueueLocked()
	s.mu.Unlock()

	return s.deliver(ctx, op, wait, done)
}

// LastFailed returns the most recent failed user message, if any
func (s *ChatService) LastFailed() (domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.session.messages) - 1; i >= 0; i-- {
		m := s.session.messages[i]
		if m.Sender == domain.SenderUser && m.Status == domain.StatusFailed {
			return m, true
		}
	}
	return domain.Message{}, false
}

func (s *ChatService) canSendLocked() error {
	if s.session.requiresLogin {
		return ErrLoginRequired
	}
	if s.session.id == "" {
		return ErrNoSession
	}
	return nil
}

// pendingSend is a user message waiting for its turn in the queue
type pendingSend struct {
	id        uuid.UUID
	text      string
	sessionID string
	gen       uint64
}

// currentLocked reports whether the session op was typed into is still shown
func (s *ChatService) currentLocked(op pendingSend) bool {
	return s.gen == op.gen && s.session.id == op.sessionID
}

func (s *ChatService) deliver(ctx context.Context, op pendingSend, wait <-chan struct{}, done func()) error {
	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	id := op.id
	if err := await(ctx, wait, done); err != nil {
		s.mu.Lock()
		if s.currentLocked(op) {
			s.failLocked(id, err)
		}
		s.mu.Unlock()
		return err
	}
	defer done()

	s.mu.Lock()
	if !s.currentLocked(op) {
		s.mu.Unlock()
		return ErrSessionReset
	}
	s.mu.Unlock()

	resp, err := s.backend.SendMessage(ctx, op.sessionID, op.text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentLocked(op) {
		return ErrSessionReset
	}
	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrMessageNotFound
	}

	if err != nil {
		s.failLocked(id, err)
		log.Warn().Err(err).Str("session_id", op.sessionID).Msg("Failed to send chat message")
		return fmt.Errorf("failed to send message: %w", err)
	}

	s.session.messages[idx].Status = domain.StatusCommitted
	if resp.Message != "" {
		reply := domain.NewBotMessage(resp.Message, resp.Step)
		replyTo := id
		reply.ReplyTo = &replyTo
		s.insertAfterLocked(idx, reply)
	}
	s.session.products = replaceProducts(resp.Products)
	s.session.filters = mergeFilters(s.session.filters, resp.Filters)
	if resp.RequiresLogin {
		s.session.requiresLogin = true
	}
	return nil
}

func (s *ChatService) failLocked(id uuid.UUID, err error) {
	idx := s.indexLocked(id)
	if idx < 0 {
		return
	}
	s.session.messages[idx].Status = domain.StatusFailed
	replyTo := id
	s.insertAfterLocked(idx, domain.NewErrorMessage(err.Error(), &replyTo))
}

func (s *ChatService) indexLocked(id uuid.UUID) int {
	for i, m := range s.session.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *ChatService) insertAfterLocked(idx int, m domain.Message) {
	msgs := s.session.messages
	msgs = append(msgs, domain.Message{})
	copy(msgs[idx+2:], msgs[idx+1:])
	msgs[idx+1] = m
	s.session.messages = msgs
}

// Reset returns the view to idle. Used for logout and the logo click.
func (s *ChatService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.session = chatSession{}
}

// Home resets the view and reports the remembered session when the last
// chat was recent enough to offer resuming it
func (s *ChatService) Home(ctx context.Context) (string, bool) {
	s.Reset()
	if s.tracker == nil {
		return "", false
	}
	return s.tracker.RecentChatSession(ctx, s.window)
}

// Resume loads a prior conversation into the view
func (s *ChatService) Resume(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrNoSession
	}

	s.mu.Lock()
	gen := s.gen
	wait, done := s.enqueueLocked()
	s.mu.Unlock()

	if err := await(ctx, wait, done); err != nil {
		return err
	}
	defer done()

	loaded, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return ErrSessionReset
	}
	s.session = loaded
	s.mu.Unlock()

	s.markSession(ctx, sessionID)
	return nil
}

// HandleLogin reconciles the view after the user signs in. A session that
// already has messages is linked to the account and kept; otherwise the
// user's most recent session is loaded from the server.
func (s *ChatService) HandleLogin(ctx context.Context) error {
	return s.handleLogin(ctx, nil)
}

// handleLogin runs the login reconciliation once its turn comes. superseded,
// if not nil, is checked at that point; a login already followed by another
// auth event is skipped, since it would act with the wrong account's token.
func (s *ChatService) handleLogin(ctx context.Context, superseded func() bool) error {
	s.mu.Lock()
	gen := s.gen
	wait, done := s.enqueueLocked()
	s.mu.Unlock()

	if err := await(ctx, wait, done); err != nil {
		return err
	}
	defer done()

	if superseded != nil && superseded() {
		log.Debug().Msg("Skipping login superseded by a later auth event")
		return nil
	}

	s.mu.Lock()
	sessionID := s.session.id
	hasMessages := len(s.session.messages) > 0
	s.mu.Unlock()

	if sessionID != "" && hasMessages {
		if err := s.backend.LinkSession(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to link session: %w", err)
		}

		s.mu.Lock()
		if s.gen == gen {
			s.session.requiresLogin = false
		}
		s.mu.Unlock()

		log.Debug().Str("session_id", sessionID).Msg("Linked chat session to account")
		return nil
	}

	sessions, err := s.backend.ListSearchSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	latest, ok := mostRecent(sessions)
	if !ok {
		return nil
	}

	loaded, err := s.loadSession(ctx, latest.SessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return ErrSessionReset
	}
	s.session = loaded
	s.mu.Unlock()

	log.Debug().Str("session_id", latest.SessionID).Msg("Restored most recent chat session")
	return nil
}

// Watch subscribes to login and logout notifications and applies them in
// publish order until ctx is cancelled. A logout always resets the view. applied, if not nil, is called after each event
// has been handled. The returned channel closes when Watch stops.
func (s *ChatService) Watch(ctx context.Context, applied func(authstate.Event, error)) <-chan struct{} {
	stopped := make(chan struct{})
	if s.events == nil {
		close(stopped)
		return stopped
	}

	events, unsubscribe := s.events.Subscribe()

	go func() {
		defer close(stopped)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				var err error
				switch ev.Kind {
				case authstate.EventLogin:
					seq := ev.Seq
					err = s.handleLogin(ctx, func() bool { return s.events.Latest() > seq })
					if err != nil && !errors.Is(err, context.Canceled) {
						log.Warn().Err(err).Msg("Failed to reconcile chat after login")
					}
				case authstate.EventLogout:
					s.Reset()
				}
				if applied != nil {
					applied(ev, err)
				}
			}
		}
	}()

	return stopped
}

func (s *ChatService) loadSession(ctx context.Context, sessionID string) (chatSession, error) {
	var (
		conv     *domain.Conversation
		products []domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		conv, err = s.backend.GetConversation(gctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to load conversation: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		products, err = s.backend.GetSessionProducts(gctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to load session products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return chatSession{}, err
	}

	msgs := make([]domain.Message, 0, len(conv.Messages))
	for _, h := range conv.Messages {
		msgs = append(msgs, h.ToMessage())
	}

	return chatSession{
		id:       sessionID,
		messages: msgs,
		products: replaceProducts(products),
		filters:  conv.Filters.Clone(),
	}, nil
}

func (s *ChatService) markSession(ctx context.Context, sessionID string) {
	if s.tracker == nil || sessionID == "" {
		return
	}
	if err := s.tracker.MarkChatSession(ctx, sessionID); err != nil {
		log.Warn().Err(err).Msg("Failed to record chat session")
	}
}

// mergeFilters keeps the previous filters when a turn omits them
func mergeFilters(prev, next domain.Filters) domain.Filters {
	if next == nil {
		return prev
	}
	return next.Clone()
}

// replaceProducts never merges; an omitted list clears the view
func replaceProducts(in []domain.Product) []domain.Product {
	if in == nil {
		return []domain.Product{}
	}
	return domain.CloneProducts(in)
}

func mostRecent(sessions []domain.SessionSummary) (domain.SessionSummary, bool) {
	var (
		best  domain.SessionSummary
		found bool
	)
	for _, sess := range sessions {
		if sess.SessionID == "" {
			continue
		}
		if !found || sess.LastActivity().After(best.LastActivity()) {
			best = sess
			found = true
		}
	}
	return best, found
}
