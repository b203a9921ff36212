// Package notify delivers reminder notifications through whatever the host
// offers. Every variant degrades to a silent no-op rather than failing a
// sweep.
package notify

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
)

// Permission is the authorization state of a notifier.
type Permission int

const (
	// PermissionDefault means permission has not been requested yet.
	PermissionDefault Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// Notifier delivers a notification by title and body.
type Notifier interface {
	Permission() Permission
	// RequestPermission asks the host once and returns the outcome.
	RequestPermission(ctx context.Context) Permission
	// Notify requests delivery. It must not block on the host.
	Notify(ctx context.Context, title, body string) error
}

// Unavailable is the notifier for hosts without any notification support.
type Unavailable struct{}

func (Unavailable) Permission() Permission                       { return PermissionDenied }
func (Unavailable) RequestPermission(context.Context) Permission { return PermissionDenied }
func (Unavailable) Notify(context.Context, string, string) error { return nil }

// Log writes notifications to a logger. It is always granted.
type Log struct {
	logger *log.Logger
}

// NewLog returns a notifier that logs at info level.
func NewLog(logger *log.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Permission() Permission                       { return PermissionGranted }
func (l *Log) RequestPermission(context.Context) Permission { return PermissionGranted }

// Notify logs the notification.
func (l *Log) Notify(_ context.Context, title, body string) error {
	l.logger.Info(title, "body", body)
	return nil
}

// Gate wraps a notifier so that permission is requested at most once and
// nothing is delivered unless it was granted.
type Gate struct {
	inner  Notifier
	logger *log.Logger

	once       sync.Once
	mu         sync.Mutex
	permission Permission
}

// NewGate wraps inner.
func NewGate(inner Notifier) *Gate {
	return &Gate{inner: inner, logger: logging.Discard(), permission: inner.Permission()}
}

// WithLogger sets where skipped notifications are reported at debug level.
func (g *Gate) WithLogger(logger *log.Logger) *Gate {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Permission returns the last known permission.
func (g *Gate) Permission() Permission {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.permission
}

// RequestPermission prompts the wrapped notifier on the first call only,
// and only if the state is still undecided. A denial is final.
func (g *Gate) RequestPermission(ctx context.Context) Permission {
	g.once.Do(func() {
		if g.Permission() != PermissionDefault {
			return
		}
		result := g.inner.RequestPermission(ctx)
		g.mu.Lock()
		g.permission = result
		g.mu.Unlock()
	})
	return g.Permission()
}

// Notify forwards to the wrapped notifier when granted.
func (g *Gate) Notify(ctx context.Context, title, body string) error {
	if permission := g.Permission(); permission != PermissionGranted {
		err := errors.NewCapabilityUnavailableError("notifications", nil).WithContext("permission", permission.String())
		g.logger.Debug("notification skipped", "title", title, "err", err)
		return nil
	}
	return g.inner.Notify(ctx, title, body)
}

// Message is one recorded notification.
type Message struct {
	Title string
	Body  string
}

// Recorder keeps notifications in memory. Used by tests and dry runs.
type Recorder struct {
	mu       sync.Mutex
	grant    Permission
	requests int
	err      error
	messages []Message
}

// NewRecorder returns a recorder that answers permission requests with grant.
func NewRecorder(grant Permission) *Recorder {
	return &Recorder{grant: grant}
}

// FailWith makes Notify record the message and then return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) Permission() Permission {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.requests == 0 {
		return PermissionDefault
	}
	return r.grant
}

func (r *Recorder) RequestPermission(context.Context) Permission {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests++
	return r.grant
}

func (r *Recorder) Notify(_ context.Context, title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Title: title, Body: body})
	return r.err
}

// Messages returns a copy of what was delivered.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Requests reports how many times permission was requested.
func (r *Recorder) Requests() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests
}
