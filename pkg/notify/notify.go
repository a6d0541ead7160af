// Package notify is the user-facing message surface. Enforcement and guard
// code emit notifications through it instead of writing to output directly,
// so the CLI, the agent, and tests can each attach their own sink.
package notify

import (
	"github.com/google/uuid"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.uber.org/zap"
)

// Severity classifies a notification for rendering purposes.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityDenied  Severity = "denied"
)

// Notification is a single user-facing message. ID is unique per emission so
// sinks that de-duplicate or dismiss messages can address them individually.
type Notification struct {
	ID       string
	Severity Severity
	Message  string
}

// Notifier receives user-facing messages from guard and enforcement code.
type Notifier interface {
	Info(message string)
	Success(message string)
	Error(message string)

	// Denied reports a blocked action together with the capability role the
	// denial was evaluated for.
	Denied(message string, role string)
}

func newNotification(severity Severity, message string) Notification {
	return Notification{
		ID:       uuid.New().String(),
		Severity: severity,
		Message:  message,
	}
}

// ZapNotifier logs notifications through the process logger. It is the
// default sink for the agent, where no interactive surface exists.
type ZapNotifier struct{}

func (ZapNotifier) Info(message string)    { emit(newNotification(SeverityInfo, message)) }
func (ZapNotifier) Success(message string) { emit(newNotification(SeveritySuccess, message)) }
func (ZapNotifier) Error(message string)   { emit(newNotification(SeverityError, message)) }

func (ZapNotifier) Denied(message string, role string) {
	n := newNotification(SeverityDenied, message)
	otelzap.L().Warn(n.Message,
		zap.String("notification_id", n.ID),
		zap.String("severity", string(n.Severity)),
		zap.String("role", role),
	)
}

func emit(n Notification) {
	fields := []zap.Field{
		zap.String("notification_id", n.ID),
		zap.String("severity", string(n.Severity)),
	}

	switch n.Severity {
	case SeverityError:
		otelzap.L().Error(n.Message, fields...)
	default:
		otelzap.L().Info(n.Message, fields...)
	}
}
