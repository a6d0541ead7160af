package notify

import "sync"

// Recorder is a Notifier that captures every notification in memory. It is
// used by tests and by the agent status API, which exposes recent messages.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
	roles         map[string]string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{roles: make(map[string]string)}
}

func (r *Recorder) Info(message string)    { r.record(SeverityInfo, message, "") }
func (r *Recorder) Success(message string) { r.record(SeveritySuccess, message, "") }
func (r *Recorder) Error(message string)   { r.record(SeverityError, message, "") }

func (r *Recorder) Denied(message string, role string) {
	r.record(SeverityDenied, message, role)
}

func (r *Recorder) record(severity Severity, message string, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := newNotification(severity, message)
	r.notifications = append(r.notifications, n)
	if role != "" {
		r.roles[n.ID] = role
	}
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Messages returns only the message strings, in emission order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.notifications))
	for _, n := range r.notifications {
		out = append(out, n.Message)
	}
	return out
}

// RoleFor returns the role attached to a denied notification, if any.
func (r *Recorder) RoleFor(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roles[id]
}

// Reset discards all recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
	r.roles = make(map[string]string)
}
