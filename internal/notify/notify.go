// Package notify carries the transient title/description/severity messages
// shown to the user when an upload or delete finishes.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

type Notifier interface {
	Notify(n Notification)
}

// Func adapts a plain function to Notifier.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

type zapNotifier struct {
	log *zap.Logger
}

// NewZap writes notifications to a logger, errors at error level.
func NewZap(log *zap.Logger) Notifier {
	return &zapNotifier{log: log}
}

func (z *zapNotifier) Notify(n Notification) {
	fields := []zap.Field{
		zap.String("description", n.Description),
		zap.String("severity", string(n.Severity)),
	}
	if n.Severity == SeverityError {
		z.log.Error(n.Title, fields...)
		return
	}
	z.log.Info(n.Title, fields...)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}

// Multi fans a notification out to several notifiers.
func Multi(ns ...Notifier) Notifier {
	return Func(func(n Notification) {
		for _, x := range ns {
			x.Notify(n)
		}
	})
}
