package ui

import (
	"fmt"
	"strings"

	"github.com/studyhall/studychat/internal/domain"
)

// TerminalRenderer implements the chat render callbacks for the
// interactive terminal client. The chat manager pushes state; the
// renderer only formats and prints.
type TerminalRenderer struct{}

func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{}
}

func (t *TerminalRenderer) RenderMessage(msg *domain.Message) {
	tag := Styles.UserTag.Render("you")
	if msg.Role == domain.RoleAssistant {
		tag = Styles.BotTag.Render("tutor")
	}
	fmt.Printf("\n%s %s\n", tag, formatContent(msg.Content))
}

func (t *TerminalRenderer) RenderChat(chat *domain.ChatSession) {
	fmt.Println()
	PrintBold("── %s ──", chat.Title)
	for _, msg := range chat.Messages {
		t.RenderMessage(msg)
	}
}

func (t *TerminalRenderer) RenderChatList(chats []*domain.ChatSession) {
	if len(chats) == 0 {
		fmt.Println(Styles.Dim.Render("  (no chats yet)"))
		return
	}
	for i, chat := range chats {
		marker := Styles.Dim.Render(fmt.Sprintf("%2d.", i+1))
		fmt.Printf("%s %s\n", marker, Styles.ChatTitle.Render(chat.Title))
	}
}

func (t *TerminalRenderer) ShowWelcome() {
	fmt.Println()
	PrintBold("Ask me anything about your BCA subjects.")
	fmt.Println(Styles.Dim.Render("Type /help for commands."))
}

// formatContent renders the lightweight markup used by canned
// replies: **bold** spans and • bullet lines.
func formatContent(content string) string {
	var out strings.Builder

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "•") {
			out.WriteString("  " + renderBold(trimmed) + "\n")
			continue
		}
		out.WriteString(renderBold(line) + "\n")
	}
	return strings.TrimRight(out.String(), "\n")
}

// renderBold replaces **span** pairs with styled text.
func renderBold(line string) string {
	parts := strings.Split(line, "**")
	if len(parts) < 3 {
		return line
	}
	var out strings.Builder
	for i, part := range parts {
		// Odd segments sit between a ** pair unless the closer is
		// missing at the end of the line.
		if i%2 == 1 && i < len(parts)-1 {
			out.WriteString(Styles.Bold.Render(part))
		} else {
			out.WriteString(part)
		}
	}
	return out.String()
}
