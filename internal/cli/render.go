package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/Rrens/storefront-assistant/internal/security"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	botStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

func formatMessage(m domain.Message) string {
	switch {
	case m.IsError():
		return errorStyle.Render("! " + m.Text)
	case m.Sender == domain.SenderUser:
		line := userStyle.Render("You: ") + m.Text
		switch m.Status {
		case domain.StatusPending:
			line += mutedStyle.Render(" (sending)")
		case domain.StatusFailed:
			line += errorStyle.Render(" (failed, type /retry)")
		}
		return line
	default:
		return botStyle.Render("Assistant: ") + m.Text
	}
}

func formatPrice(p float64) string {
	return priceStyle.Render(fmt.Sprintf("$%.2f", p))
}

func formatProduct(p domain.Product) string {
	line := fmt.Sprintf("%s  %s", idStyle.Render(p.ID), p.Name)
	if p.Price > 0 {
		line += "  " + formatPrice(p.Price)
	}
	return line
}

func formatFilters(f domain.Filters) string {
	if len(f) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, f[k]))
	}
	return mutedStyle.Render("Filters: " + strings.Join(parts, ", "))
}

func renderProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No products found."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Products (%d)", len(products))))
	for _, p := range products {
		fmt.Fprintln(w, "  "+formatProduct(p))
	}
}

func renderProductDetail(w io.Writer, p *domain.Product) {
	fmt.Fprintln(w, headerStyle.Render(p.Name))
	fmt.Fprintf(w, "  ID:     %s\n", idStyle.Render(p.ID))
	fmt.Fprintf(w, "  Price:  %s\n", formatPrice(p.Price))
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}

	keys := make([]string, 0, len(p.Attributes))
	for k := range p.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %v\n", mutedStyle.Render(k), p.Attributes[k])
	}
}

func renderOrders(w io.Writer, orders []domain.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No orders yet."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Orders (%d)", len(orders))))
	for _, o := range orders {
		fmt.Fprintf(w, "  %s  %-10s %s  %s\n",
			idStyle.Render(o.ID), o.Status, formatPrice(o.Total), mutedStyle.Render(formatTime(o.CreatedAt)))
	}
}

func renderOrderDetail(w io.Writer, o *domain.Order) {
	fmt.Fprintln(w, headerStyle.Render("Order "+o.ID))
	fmt.Fprintf(w, "  Status: %s\n", o.Status)
	fmt.Fprintf(w, "  Total:  %s\n", formatPrice(o.Total))
	if !o.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  Placed: %s\n", formatTime(o.CreatedAt))
	}
	for _, item := range o.Items {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		fmt.Fprintf(w, "  %d x %s\n", item.Quantity, name)
	}
}

func renderUser(w io.Writer, u *domain.User) {
	fmt.Fprintln(w, headerStyle.Render(u.Name))
	fmt.Fprintf(w, "  Email:   %s\n", u.Email)
	if u.Phone != "" {
		fmt.Fprintf(w, "  Phone:   %s\n", u.Phone)
	}
	if u.Address != "" {
		fmt.Fprintf(w, "  Address: %s\n", u.Address)
	}
}

func renderTokenInfo(w io.Writer, info *security.TokenInfo, now time.Time) {
	if info.Subject != "" {
		fmt.Fprintf(w, "  Subject: %s\n", info.Subject)
	}
	if info.ExpiresAt.IsZero() {
		return
	}
	status := "valid"
	if info.Expired(now) {
		status = errorStyle.Render("expired")
	}
	fmt.Fprintf(w, "  Token:   %s until %s\n", status, formatTime(info.ExpiresAt))
}

func renderSessions(w io.Writer, sessions []domain.SessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No saved chats."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Chats (%d)", len(sessions))))
	for _, s := range sessions {
		title := s.Title
		if title == "" {
			title = s.Category
		}
		fmt.Fprintf(w, "  %s  %s  %s\n",
			idStyle.Render(s.SessionID), title, mutedStyle.Render(formatTime(s.LastActivity())))
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
