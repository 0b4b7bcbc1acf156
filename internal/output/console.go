// Package output renders user facing messages, pull progress and tables.
package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/melih/grf/internal/core/domain"
)

// Console writes status lines to out and problems to errOut.
type Console struct {
	out         io.Writer
	errOut      io.Writer
	interactive bool

	mu         sync.Mutex
	spin       *spinner.Spinner
	lastStatus string
}

// NewConsole creates a console. Interactive consoles animate pull progress
// on a spinner; otherwise only status changes are printed.
func NewConsole(out, errOut io.Writer, interactive bool) *Console {
	return &Console{out: out, errOut: errOut, interactive: interactive}
}

func (c *Console) Infof(format string, args ...any) {
	c.println(c.out, nil, format, args...)
}

func (c *Console) Successf(format string, args ...any) {
	c.println(c.out, color.New(color.FgGreen), format, args...)
}

func (c *Console) Warnf(format string, args ...any) {
	c.println(c.errOut, color.New(color.FgYellow), format, args...)
}

func (c *Console) Errorf(format string, args ...any) {
	c.println(c.errOut, color.New(color.FgRed), format, args...)
}

func (c *Console) println(w io.Writer, col *color.Color, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if col != nil {
		msg = col.Sprint(msg)
	}
	if c.spin != nil {
		// Keep the spinner line from swallowing the message.
		c.spin.Stop()
		defer c.spin.Start()
	}
	fmt.Fprintln(w, msg)
}

// Progress shows one pull progress message.
func (c *Console) Progress(evt domain.PullEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.interactive {
		// Layer progress bars are noise in logs; keep the status lines.
		if evt.Progress == "" && evt.Status != c.lastStatus {
			c.lastStatus = evt.Status
			fmt.Fprintln(c.out, evt.String())
		}
		return
	}

	if c.spin == nil {
		c.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.out))
		c.spin.Start()
	}
	c.spin.Lock()
	c.spin.Suffix = " " + strings.TrimSpace(evt.String())
	c.spin.Unlock()
}

// ProgressDone clears the progress display.
func (c *Console) ProgressDone() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.spin != nil {
		c.spin.Stop()
		c.spin = nil
	}
	c.lastStatus = ""
}
