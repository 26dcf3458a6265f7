// Package conversation runs the line-oriented chat loop on top of the agent runtime.
package conversation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/kiosk404/echotask/internal/agent/pkg/errno"
	"github.com/kiosk404/echotask/internal/agent/runtime"
	"github.com/kiosk404/echotask/internal/agent/session"
	"github.com/kiosk404/echotask/pkg/logger"
)

const ModuleName = "conversation"

const (
	MsgRetryLater   = "I couldn't complete that right now. Please try again."
	MsgUnknownTool  = "I couldn't complete that: the assistant asked for an unknown tool %q."
	MsgCleared      = "Conversation cleared."
	MsgGoodbye      = "Goodbye!"
	cmdQuit         = "/quit"
	cmdExit         = "/exit"
	cmdClear        = "/clear"
	maxLineCapacity = 1 << 20
)

// Agent runs one turn. *runtime.Runner implements it.
type Agent interface {
	Run(ctx context.Context, req *runtime.RunRequest) (*runtime.RunResult, error)
}

// Driver reads user lines, runs each through the Agent and keeps the history.
type Driver struct {
	agent     Agent
	history   *session.History
	renderer  Renderer
	sessionID string
}

type Option func(*Driver)

// WithRenderer replaces the plain renderer.
func WithRenderer(r Renderer) Option {
	return func(d *Driver) {
		d.renderer = r
	}
}

// WithHistory starts from an existing history.
func WithHistory(h *session.History) Option {
	return func(d *Driver) {
		d.history = h
	}
}

func NewDriver(agent Agent, opts ...Option) *Driver {
	d := &Driver{
		agent:     agent,
		renderer:  PlainRenderer{},
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.history == nil {
		d.history = session.NewHistory(0)
	}
	return d
}

// History returns the live conversation history.
func (d *Driver) History() *session.History {
	return d.history
}

// Run prompts, reads and answers until EOF, /quit, /exit or ctx is done.
// A failed turn prints a short apology, leaves the history alone and the
// loop goes on. Only a broken input stream is returned as an error.
func (d *Driver) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, readErr := readLines(readCtx, in)
	logger.InfoX(ModuleName, "chat session %s started", d.sessionID)

	for {
		fmt.Fprint(out, d.renderer.Prompt())

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			d.goodbye(out)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out)
			if err := <-readErr; err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			d.goodbye(out)
			return nil
		}

		input := strings.TrimSpace(line)
		switch input {
		case "":
			continue
		case cmdQuit, cmdExit:
			d.goodbye(out)
			return nil
		case cmdClear:
			d.history.Clear()
			fmt.Fprintln(out, d.renderer.Notice(MsgCleared))
			continue
		}

		reply, err := d.turn(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(out)
				d.goodbye(out)
				return nil
			}
			fmt.Fprintln(out, d.renderer.Notice(Describe(err)))
			continue
		}
		fmt.Fprintln(out, d.renderer.Reply(reply))
	}
}

// turn runs one exchange and records it only when it succeeds.
func (d *Driver) turn(ctx context.Context, input string) (string, error) {
	res, err := d.agent.Run(ctx, &runtime.RunRequest{
		Input:   input,
		History: d.history.Snapshot(),
	})
	if err != nil {
		logger.ErrorX(ModuleName, "session %s: turn failed: %v", d.sessionID, err)
		return "", err
	}
	d.history.AppendTurn(input, res.Output)
	return res.Output, nil
}

func (d *Driver) goodbye(out io.Writer) {
	fmt.Fprintln(out, d.renderer.Notice(MsgGoodbye))
	logger.InfoX(ModuleName, "chat session %s ended after %d turns", d.sessionID, d.history.Turns())
}

// Describe turns a turn failure into one plain sentence for the user.
func Describe(err error) string {
	var tnf *errno.ToolNotFoundError
	if errors.As(err, &tnf) {
		return fmt.Sprintf(MsgUnknownTool, tnf.Name)
	}
	return MsgRetryLater
}

// readLines feeds lines from in until EOF. The reader goroutine lets a
// cancelled context end the loop while a read is still blocked.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		defer close(errc)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineCapacity)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}
