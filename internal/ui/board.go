// Package ui provides the interactive task board.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"task-tracker/internal/api"
	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/mood"
	"task-tracker/internal/validation"
)

// Options configures the board.
type Options struct {
	DateFormat      string
	IDLength        int
	RefreshInterval time.Duration
	Input           io.Reader
	Output          io.Writer
}

// DefaultOptions returns the board settings used by the CLI.
func DefaultOptions() Options {
	return Options{
		DateFormat:      "2006-01-02 15:04",
		IDLength:        8,
		RefreshInterval: time.Second,
	}
}

// Run shows the board until the user quits or ctx ends. Reminders run in
// the background for as long as the board is open.
func Run(ctx context.Context, taskAPI api.TaskAPI, opts Options) error {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if !IsTTY(out) {
		return fmt.Errorf("board requires a TTY")
	}

	stop := taskAPI.StartReminders(ctx)
	defer stop()

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	_, err := tea.NewProgram(NewModel(ctx, taskAPI, opts), programOpts...).Run()
	return err
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type mode int

const (
	modeBrowse mode = iota
	modeConfirmDelete
	modeAdd
)

type addField int

const (
	fieldContent addField = iota
	fieldDue
)

// Model is the bubbletea model behind the board.
type Model struct {
	ctx  context.Context
	api  api.TaskAPI
	opts Options

	board  *api.Board
	cursor int
	mode   mode
	flash  string

	pending *api.TaskView

	field   addField
	content []rune
	due     []rune
}

type tickMsg time.Time

// NewModel builds a board model. Zero options fall back to defaults.
func NewModel(ctx context.Context, taskAPI api.TaskAPI, opts Options) *Model {
	defaults := DefaultOptions()
	if opts.DateFormat == "" {
		opts.DateFormat = defaults.DateFormat
	}
	if opts.IDLength <= 0 {
		opts.IDLength = defaults.IDLength
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = defaults.RefreshInterval
	}
	m := &Model{ctx: ctx, api: taskAPI, opts: opts, flash: mood.MessageWelcome}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tickCmd(m.opts.RefreshInterval)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.opts.RefreshInterval)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""
	items := m.items()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "x", " ", "enter":
		if item, ok := m.selected(); ok {
			if _, err := m.api.ToggleTask(m.ctx, item.ID); err != nil {
				m.flash = userMessage(err)
			}
			m.refresh()
		}
	case "d":
		if item, ok := m.selected(); ok {
			m.pending = &item
			m.mode = modeConfirmDelete
		}
	case "a":
		m.mode = modeAdd
		m.field = fieldContent
		m.content, m.due = nil, nil
	case "r":
		m.refresh()
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if _, err := m.api.DeleteTask(m.ctx, m.pending.ID); err != nil {
			m.flash = userMessage(err)
		}
		m.refresh()
	default:
		m.flash = "Delete cancelled."
	}
	m.pending = nil
	m.mode = modeBrowse
	return m, nil
}

func (m *Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	target := &m.content
	if m.field == fieldDue {
		target = &m.due
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
	case tea.KeyTab, tea.KeyShiftTab:
		m.field = 1 - m.field
	case tea.KeyEnter:
		if _, err := m.api.AddTask(m.ctx, string(m.content), string(m.due)); err != nil {
			m.flash = userMessage(err)
			m.field = fieldInError(err, m.field)
			return m, nil
		}
		m.flash = ""
		m.mode = modeBrowse
		m.refresh()
	case tea.KeyBackspace:
		if n := len(*target); n > 0 {
			*target = (*target)[:n-1]
		}
	case tea.KeySpace:
		*target = append(*target, ' ')
	case tea.KeyRunes:
		*target = append(*target, msg.Runes...)
	}
	return m, nil
}

// fieldInError moves focus to the first rejected input.
func fieldInError(err error, current addField) addField {
	ve, ok := validation.AsValidationError(err)
	if !ok {
		return current
	}
	if len(ve.GetFieldErrors("content")) > 0 {
		return fieldContent
	}
	if len(ve.GetFieldErrors("dueDate")) > 0 {
		return fieldDue
	}
	return current
}

func (m *Model) refresh() {
	board, err := m.api.GetBoard(m.ctx)
	if err != nil {
		m.flash = userMessage(err)
		return
	}
	m.board = board
	if n := len(m.items()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// items is the cursor order: pending tasks first, then completed.
func (m *Model) items() []api.TaskView {
	if m.board == nil {
		return nil
	}
	items := make([]api.TaskView, 0, len(m.board.Pending)+len(m.board.Completed))
	items = append(items, m.board.Pending...)
	return append(items, m.board.Completed...)
}

func (m *Model) selected() (api.TaskView, bool) {
	items := m.items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return api.TaskView{}, false
	}
	return items[m.cursor], true
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString("tk board\n\n")

	if m.board == nil {
		b.WriteString("Loading...\n")
		return b.String()
	}

	b.WriteString(moodLine(m.board.Mood))
	b.WriteString("\n\n")

	index := 0
	b.WriteString(fmt.Sprintf("Pending (%d)\n", len(m.board.Pending)))
	if len(m.board.Pending) == 0 {
		b.WriteString("  nothing to do\n")
	}
	for _, item := range m.board.Pending {
		b.WriteString(m.row(item, index == m.cursor))
		index++
	}
	b.WriteString(fmt.Sprintf("\nCompleted (%d)\n", len(m.board.Completed)))
	for _, item := range m.board.Completed {
		b.WriteString(m.row(item, index == m.cursor))
		index++
	}
	b.WriteString("\n")

	switch m.mode {
	case modeConfirmDelete:
		b.WriteString(fmt.Sprintf("Delete %q? (y/n)\n", m.pending.Content))
	case modeAdd:
		b.WriteString(m.addForm())
	}
	if m.flash != "" {
		b.WriteString(m.flash + "\n")
	}
	b.WriteString("j/k move | space toggle | a add | d delete | q quit\n")
	return b.String()
}

func (m *Model) row(item api.TaskView, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	check := "[ ]"
	if item.IsComplete {
		check = "[x]"
	}
	line := fmt.Sprintf("%s %s %s  %s  %s", cursor, check, shortID(item.ID, m.opts.IDLength), formatDue(item.DueDate, m.opts.DateFormat), item.Content)
	if item.Overdue {
		line += "  OVERDUE"
	}
	return line + "\n"
}

func (m *Model) addForm() string {
	contentCursor, dueCursor := "_", ""
	if m.field == fieldDue {
		contentCursor, dueCursor = "", "_"
	}
	return fmt.Sprintf("New task: %s%s\nDue (2h, 1d or 2024-05-10T14:30): %s%s\n(tab switch field | enter save | esc cancel)\n",
		string(m.content), contentCursor, string(m.due), dueCursor)
}

func userMessage(err error) string {
	if ve, ok := validation.AsValidationError(err); ok {
		return ve.GetUserFriendlyMessage()
	}
	return errors.GetUserMessage(err)
}

func moodLine(md mood.Mood) string {
	icons := map[string]string{
		"warning": "(!)",
		"success": "(*)",
		"info":    "(i)",
		"idle":    "(-)",
	}
	return icons[md.Tone()] + " " + md.Message
}

func shortID(id string, n int) string {
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// formatDue renders a due date in local time, or as stored when unreadable.
func formatDue(due, layout string) string {
	t, err := domain.ParseTimestamp(due)
	if err != nil {
		return due
	}
	return t.Local().Format(layout)
}
