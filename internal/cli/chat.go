package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Rrens/storefront-assistant/internal/authstate"
	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/Rrens/storefront-assistant/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const chatHelp = `Type a message to chat. Commands:
  /retry    resend the last failed message
  /login    sign in to continue a gated conversation
  /logout   sign out and clear the chat
  /home     clear the chat and start over
  /resume   reopen your most recent chat
  /quit     leave`

const loginPrompt = "Log in to keep chatting: type /login"

// reconcileTimeout bounds how long the REPL waits for a login or logout to
// be applied to the chat view
const reconcileTimeout = 15 * time.Second

func newChatCmd(a *app) *cobra.Command {
	var resume string

	cmd := &cobra.Command{
		Use:   "chat [query]",
		Short: "Chat with the shopping assistant",
		Long:  "Start an assistant chat from a search query, or resume an earlier one.\n\n" + chatHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, a, strings.Join(args, " "), resume)
		},
	}
	cmd.Flags().StringVar(&resume, "resume", "", "Resume the chat with this session id")
	return cmd
}

func newSessionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List or resume your saved chats",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your saved chats",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.client.ListSearchSessions(cmd.Context())
			if err != nil {
				return err
			}
			renderSessions(cmd.OutOrStdout(), sessions)
			return nil
		},
	}

	resume := &cobra.Command{
		Use:   "resume <session-id>",
		Short: "Reopen a saved chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, a, "", args[0])
		},
	}

	cmd.AddCommand(list, resume)
	return cmd
}

// chatREPL prints the chat view incrementally and dispatches input lines
type chatREPL struct {
	app        *app
	in         *lineReader
	out        io.Writer
	printed    map[uuid.UUID]bool
	products   string
	filters    string
	prompted   bool
	reconciled chan authstate.EventKind
}

func runChat(cmd *cobra.Command, a *app, query, resumeID string) error {
	ctx, cancel := context.WithCancel(cmd.Context())

	r := &chatREPL{
		app:        a,
		in:         newLineReader(cmd),
		out:        cmd.OutOrStdout(),
		printed:    make(map[uuid.UUID]bool),
		reconciled: make(chan authstate.EventKind, 1),
	}

	stopped := a.chat.Watch(ctx, func(ev authstate.Event, err error) {
		select {
		case r.reconciled <- ev.Kind:
		default:
		}
	})
	defer func() {
		cancel()
		<-stopped
	}()

	switch {
	case resumeID != "":
		if err := a.chat.Resume(ctx, resumeID); err != nil {
			return err
		}
	case query != "":
		if err := a.chat.Start(ctx, query); err != nil {
			r.render()
			fmt.Fprintln(r.out, mutedStyle.Render("Type another search to try again."))
		}
	default:
		r.home(ctx)
	}
	r.render()

	for {
		fmt.Fprint(r.out, promptStyle.Render("> "))
		line, ok, err := r.in.next()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := r.command(ctx, line)
			if err != nil {
				fmt.Fprintln(r.out, errorStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
		} else {
			r.say(ctx, line)
		}
		r.render()
	}
}

// say starts a session from idle, otherwise sends a chat message
func (r *chatREPL) say(ctx context.Context, text string) {
	var err error
	if r.app.chat.Snapshot().State == service.StateIdle {
		err = r.app.chat.Start(ctx, text)
	} else {
		err = r.app.chat.Send(ctx, text)
	}

	switch {
	case err == nil:
	case errors.Is(err, service.ErrLoginRequired):
		fmt.Fprintln(r.out, promptStyle.Render(loginPrompt))
	case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrEmptyQuery), errors.Is(err, service.ErrSessionReset):
		fmt.Fprintln(r.out, mutedStyle.Render(err.Error()))
	default:
		// failures are already shown inline in the conversation
	}
}

func (r *chatREPL) command(ctx context.Context, line string) (bool, error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(r.out, chatHelp)
	case "/retry":
		failed, ok := r.app.chat.LastFailed()
		if !ok {
			return false, errors.New("nothing to retry")
		}
		// other failures are shown inline
		if err := r.app.chat.Retry(ctx, failed.ID); errors.Is(err, service.ErrLoginRequired) {
			return false, err
		}
	case "/login":
		r.drain()
		if err := loginWithPassword(ctx, r.app, r.in, domain.UserLogin{}); err != nil {
			return false, err
		}
		r.awaitReconcile(ctx)
	case "/logout":
		r.drain()
		if err := r.app.auth.Logout(ctx); err != nil {
			return false, err
		}
		r.awaitReconcile(ctx)
		r.reset()
		fmt.Fprintln(r.out, "Signed out.")
	case "/home":
		r.home(ctx)
	case "/resume":
		id := arg
		if id == "" {
			recent, ok := r.app.session.RecentChatSession(ctx, r.app.cfg.Chat.RecentSessionWindow)
			if !ok {
				return false, errors.New("no recent chat to resume")
			}
			id = recent
		}
		r.reset()
		return false, r.app.chat.Resume(ctx, id)
	case "/products":
		r.products = ""
	default:
		return false, fmt.Errorf("unknown command %s, type /help", name)
	}
	return false, nil
}

func (r *chatREPL) home(ctx context.Context) {
	r.reset()
	fmt.Fprintln(r.out, mutedStyle.Render("What are you shopping for? Type a search to start."))
	if _, ok := r.app.chat.Home(ctx); ok {
		fmt.Fprintln(r.out, mutedStyle.Render("You chatted recently. Type /resume to pick up where you left off."))
	}
}

func (r *chatREPL) reset() {
	r.printed = make(map[uuid.UUID]bool)
	r.products = ""
	r.filters = ""
	r.prompted = false
}

func (r *chatREPL) drain() {
	select {
	case <-r.reconciled:
	default:
	}
}

func (r *chatREPL) awaitReconcile(ctx context.Context) {
	select {
	case <-r.reconciled:
	case <-ctx.Done():
	case <-time.After(reconcileTimeout):
	}
}

// render prints messages not shown yet, then products and filters when
// they changed
func (r *chatREPL) render() {
	view := r.app.chat.Snapshot()

	for _, m := range view.Messages {
		if r.printed[m.ID] {
			continue
		}
		r.printed[m.ID] = true
		fmt.Fprintln(r.out, formatMessage(m))
	}

	if key := productKey(view.Products); key != r.products {
		r.products = key
		if len(view.Products) > 0 {
			renderProducts(r.out, view.Products)
		}
	}
	if f := formatFilters(view.Filters); f != r.filters {
		r.filters = f
		if f != "" {
			fmt.Fprintln(r.out, f)
		}
	}

	if view.ShowLoginPrompt && !r.prompted {
		fmt.Fprintln(r.out, promptStyle.Render(loginPrompt))
	}
	r.prompted = view.ShowLoginPrompt
}

func productKey(products []domain.Product) string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return strings.Join(ids, ",")
}
