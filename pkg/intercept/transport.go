package intercept

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.uber.org/zap"

	"github.com/easelgate/easelgate/pkg/models"
	"github.com/easelgate/easelgate/pkg/notify"
	"github.com/easelgate/easelgate/pkg/policy"
)

// workflowPathPrefix is the workflow-persistence endpoint the editor guards
// server-side.
const workflowPathPrefix = "/api/userdata/workflows"

// CapabilityCheck reports the local decision for a capability so a denial
// from the server can be cross-checked against it.
type CapabilityCheck func(key policy.Key) bool

// Transport wraps an http.RoundTripper and watches workflow-persistence
// responses for server-side capability denials. A denial always raises a
// notification; when the local policy check disagrees with the server the
// mismatch is logged for diagnosis but the notification is still shown.
type Transport struct {
	base     http.RoundTripper
	notifier notify.Notifier
	check    CapabilityCheck
}

// NewTransport wraps base. A nil base falls back to
// http.DefaultTransport.
func NewTransport(base http.RoundTripper, notifier notify.Notifier, check CapabilityCheck) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, notifier: notifier, check: check}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	if !t.isWorkflowMutation(req) || resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}

	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if readErr != nil {
		return resp, nil
	}

	var denial models.DenialResponse
	if jsonErr := json.Unmarshal(body, &denial); jsonErr != nil || denial.Code != models.WorkflowDeniedCode {
		return resp, nil
	}

	message := denial.Error
	if message == "" {
		message = "Workflow modification denied"
	}
	t.notifier.Denied(message, denial.Role)

	if t.check != nil && t.check(policy.KeyModifyWorkflows) {
		// The server denied an action the local policy allows. One of the
		// two policy views is stale.
		otelzap.L().Warn("server denied a workflow mutation the local policy allows",
			zap.String("path", req.URL.Path),
			zap.String("method", req.Method),
			zap.String("role", denial.Role),
		)
	}

	return resp, nil
}

func (t *Transport) isWorkflowMutation(req *http.Request) bool {
	if !strings.HasPrefix(req.URL.Path, workflowPathPrefix) {
		return false
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	default:
		return false
	}
}
