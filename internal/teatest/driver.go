// Package teatest drives bubbletea models synchronously in tests.
//
// Instead of running a tea.Program, the Driver calls Update directly and
// executes returned Cmds inline until they stop producing messages. Cmds
// that do not return within the driver's timeout are dropped, which is
// how cursor blink timers are kept from stalling a test.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may execute.
const MaxDrainDepth = 100

// DefaultCmdTimeout leaves room for in-memory SQLite round trips while
// still dropping blink timers (about half a second) quickly.
const DefaultCmdTimeout = 250 * time.Millisecond

// Driver is a synchronous harness for a tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been produced.
	Quitting bool

	timeout time.Duration
}

// Option configures a Driver.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout overrides DefaultCmdTimeout.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.timeout = timeout
	}
}

// New wraps model. Call DrainInit to run its Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, timeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send runs msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

// Press sends one key. Names understood by tea.KeyType ("enter", "esc",
// "ctrl+c", "up", "tab", ...) become special keys; anything else is sent
// as runes.
func (d *Driver) Press(key string) {
	d.T.Helper()
	if kt, ok := keyTypes[key]; ok {
		d.Send(tea.KeyMsg{Type: kt})
		return
	}
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (d *Driver) View() string {
	return d.Model.View()
}

// ViewContains reports whether the rendered view holds every substring.
func (d *Driver) ViewContains(subs ...string) bool {
	view := d.View()
	for _, s := range subs {
		if !strings.Contains(view, s) {
			return false
		}
	}
	return true
}

var keyTypes = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"ctrl+c":    tea.KeyCtrlC,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"backspace": tea.KeyBackspace,
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: stopped draining after %d chained commands", MaxDrainDepth)
		return
	}

	msg := d.exec(cmd)
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(m)
		d.Model = updated
		return
	}
	if isBlink(msg) {
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drain(next, depth+1)
}

func (d *Driver) exec(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(d.timeout):
		return nil
	}
}

// isBlink matches the unexported blink messages of bubbles/cursor.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
