package conversation

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/moby/term"
	"github.com/muesli/termenv"
)

const (
	RenderPlain    = "plain"
	RenderMarkdown = "markdown"

	promptText   = "You: "
	defaultWidth = 80
)

// Renderer decides how the loop's output looks.
type Renderer interface {
	Prompt() string
	Reply(text string) string
	Notice(text string) string
}

// PlainRenderer prints text unchanged.
type PlainRenderer struct{}

func (PlainRenderer) Prompt() string            { return promptText }
func (PlainRenderer) Reply(text string) string  { return text }
func (PlainRenderer) Notice(text string) string { return text }

// TermRenderer colours the prompt and notices, wraps replies to the terminal
// width and optionally renders them as markdown.
type TermRenderer struct {
	mode     string
	width    int
	prompt   *color.Color
	notice   *color.Color
	markdown *glamour.TermRenderer
}

// NewTermRenderer builds a renderer for stdout. Unknown modes fall back to plain.
func NewTermRenderer(mode string) *TermRenderer {
	r := &TermRenderer{
		mode:   mode,
		width:  terminalWidth(),
		prompt: color.New(color.FgHiBlue, color.Bold),
		notice: color.New(color.FgHiBlack),
	}
	if mode == RenderMarkdown {
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithColorProfile(termenv.ANSI256),
			glamour.WithWordWrap(r.width-4),
		)
		if err == nil {
			r.markdown = md
		}
	}
	return r
}

func (r *TermRenderer) Prompt() string {
	return r.prompt.Sprint(promptText)
}

func (r *TermRenderer) Reply(text string) string {
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(text); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return wordwrap.WrapString(text, uint(r.width))
}

func (r *TermRenderer) Notice(text string) string {
	return r.notice.Sprint(text)
}

func terminalWidth() int {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	ws, err := term.GetWinsize(fd)
	if err != nil || ws.Width == 0 {
		return defaultWidth
	}
	return int(ws.Width)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
