package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"task-tracker/internal/api"
	"task-tracker/internal/config"
	"task-tracker/internal/domain"
)

// App carries what every command handler needs.
type App struct {
	api    api.TaskAPI
	config *config.Config
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	logger *log.Logger
}

// NewApp creates a CLI application bound to the process streams.
func NewApp(taskAPI api.TaskAPI, cfg *config.Config) *App {
	return NewAppWithIO(taskAPI, cfg, os.Stdin, os.Stdout, os.Stderr)
}

// NewAppWithIO creates a CLI application with explicit streams
func NewAppWithIO(taskAPI api.TaskAPI, cfg *config.Config, in io.Reader, out, errOut io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		api:    taskAPI,
		config: cfg,
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}
}

// WithLogger sets the logger command failures are reported to.
func (a *App) WithLogger(logger *log.Logger) *App {
	a.logger = logger
	return a
}

// API returns the task API the app was built with.
func (a *App) API() api.TaskAPI {
	return a.api
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func (a *App) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", question)
	answer, err := a.in.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(a.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// warnOnSaveError tells the user when the last change only lives in memory.
func (a *App) warnOnSaveError() {
	if err := a.api.SaveError(); err != nil {
		fmt.Fprintf(a.errOut, "Warning: %s\n", NewErrorHandler().HandleSimple(err))
	}
}

func (a *App) shortID(id string) string {
	n := a.config.Display.IDLength
	if n <= 0 || len(id) <= n {
		return id
	}
	return id[:n]
}

// formatDue renders a due date in local time, or as stored when unreadable.
func (a *App) formatDue(due string) string {
	t, err := domain.ParseTimestamp(due)
	if err != nil {
		return due
	}
	return t.In(time.Local).Format(a.config.Display.DateFormat)
}
