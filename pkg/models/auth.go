package models

// AuthResponse is the JSON body returned by the editor's login, registration,
// and token-generation endpoints. Success responses carry a message and one of
// the token fields; failure responses may additionally carry the server's
// authoritative failed-attempt count and remaining lockout seconds.
type AuthResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`

	// The bearer token is returned under jwt_token by current editor builds
	// and under token by older ones.
	JwtToken    string `json:"jwt_token,omitempty"`
	LegacyToken string `json:"token,omitempty"`

	// Authoritative lockout sync. Only meaningful when both are present.
	FailedAttempts   *int `json:"failed_attempts,omitempty"`
	RemainingSeconds *int `json:"remaining_seconds,omitempty"`
}

// Token returns the bearer token, preferring jwt_token over the legacy field.
func (r *AuthResponse) Token() string {
	if r == nil {
		return ""
	}
	if r.JwtToken != "" {
		return r.JwtToken
	}
	return r.LegacyToken
}

// Text returns the response's user-facing message: message, then error, then
// the given fallback.
func (r *AuthResponse) Text(fallback string) string {
	if r == nil {
		return fallback
	}
	if r.Message != "" {
		return r.Message
	}
	if r.Error != "" {
		return r.Error
	}
	return fallback
}

// HasLockoutSync reports whether the server supplied an authoritative
// (failed_attempts, remaining_seconds) pair.
func (r *AuthResponse) HasLockoutSync() bool {
	return r != nil && r.FailedAttempts != nil && r.RemainingSeconds != nil
}

// RegisterRequest carries the registration form fields. The admin credentials
// authorize the registration and are absent only during first-admin bootstrap.
type RegisterRequest struct {
	Username      string
	Password      string
	AdminUsername string
	AdminPassword string
}

// CurrentUser is the editor's /easelgate/api/me response. The zero value is
// an anonymous guest.
type CurrentUser struct {
	Username string   `json:"username"`
	Role     string   `json:"role"`
	Groups   []string `json:"groups,omitempty"`
	IsAdmin  bool     `json:"is_admin"`
}

// GroupsResponse is the editor's role-policy-map payload, both the GET
// response and the PUT request body.
type GroupsResponse struct {
	Groups map[string]map[string]bool `json:"groups"`
}

// WorkflowDeniedCode is the machine-readable code attached to 403 responses
// from the workflow-persistence endpoint when the modify capability is
// blocked server-side.
const WorkflowDeniedCode = "WORKFLOW_DENIED"

// DenialResponse is the body of a capability-denial response from the editor.
type DenialResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Role  string `json:"role,omitempty"`
}
