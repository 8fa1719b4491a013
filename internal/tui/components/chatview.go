package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	lru "github.com/hashicorp/golang-lru"
	"github.com/interpretive-systems/futuresight/internal/session"
	"github.com/interpretive-systems/futuresight/internal/theme"
	tansi "github.com/interpretive-systems/futuresight/internal/tui/ansi"
)

const renderCacheSize = 256

// ChatView renders the conversation. Assistant replies are markdown rendered
// with glamour and cached per entry, width and style.
type ChatView struct {
	cache     *lru.Cache
	renderers map[string]*glamour.TermRenderer
	style     string
}

// NewChatView creates a chat view.
func NewChatView() *ChatView {
	cache, _ := lru.New(renderCacheSize) // only fails for a non-positive size
	return &ChatView{cache: cache, renderers: make(map[string]*glamour.TermRenderer)}
}

// SetStyle forces a glamour standard style instead of the theme's, e.g.
// styles.NoTTYStyle for output that is not a terminal.
func (v *ChatView) SetStyle(style string) { v.style = style }

func (v *ChatView) glamourStyle(th theme.Theme) string {
	if v.style != "" {
		return v.style
	}
	return th.GlamourStyle()
}

// Render renders entries to fit width. thinking, when non-empty, is shown as
// a trailing placeholder that is not part of the history.
func (v *ChatView) Render(entries []session.ChatEntry, width int, thinking string, th theme.Theme) string {
	if width < 10 {
		width = 10
	}
	if len(entries) == 0 && thinking == "" {
		return th.Muted("Ask a question about your data. Replies appear here.")
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch e.Role {
		case session.RoleUser:
			b.WriteString(th.UserText("You") + userSuffix(e.Status, th))
			for _, l := range tansi.WrapText(e.Content, width-2) {
				b.WriteString("\n  " + l)
			}
		default:
			b.WriteString(th.AssistantText("Assistant"))
			b.WriteString("\n")
			b.WriteString(v.markdown(e, width, v.glamourStyle(th)))
		}
	}
	if thinking != "" {
		if len(entries) > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(th.Muted(thinking))
	}
	return b.String()
}

func userSuffix(s session.EntryStatus, th theme.Theme) string {
	switch s {
	case session.StatusPending:
		return th.Muted(" · sending")
	case session.StatusFailed:
		return th.ErrorText(" · failed")
	default:
		return ""
	}
}

func (v *ChatView) markdown(e session.ChatEntry, width int, style string) string {
	key := fmt.Sprintf("%s|%d|%s", e.ID, width, style)
	if out, ok := v.cache.Get(key); ok {
		return out.(string)
	}
	out := v.safeRender(e.Content, width, style)
	v.cache.Add(key, out)
	return out
}

// safeRender falls back to wrapped plain text when glamour fails or panics.
func (v *ChatView) safeRender(content string, width int, style string) (out string) {
	plain := "  " + strings.Join(tansi.WrapText(content, width-2), "\n  ")
	defer func() {
		if r := recover(); r != nil {
			out = plain
		}
	}()

	rkey := fmt.Sprintf("%d|%s", width, style)
	r, ok := v.renderers[rkey]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width-4),
		)
		if err != nil {
			return plain
		}
		v.renderers[rkey] = r
	}
	rendered, err := r.Render(content)
	if err != nil {
		return plain
	}
	return strings.Trim(rendered, "\n")
}
