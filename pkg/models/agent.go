package models

// RuleSetResponse is the agent's view of the currently computed suppression
// rule-set.
// @Description Suppression rule-set computed for the effective role
type RuleSetResponse struct {
	// Stable identity of the injected stylesheet
	ID string `json:"id"`

	// Role the rule-set was computed for
	Role string `json:"role"`

	// CSS selectors suppressed for this role
	Locators []string `json:"locators"`
}

// LockoutStatus reports the progressive-lockout state of the agent.
// @Description Current failed-attempt count and lockout window
type LockoutStatus struct {
	FailedAttempts   int    `json:"failed_attempts"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Locked           bool   `json:"locked"`
	WaitMessage      string `json:"wait_message,omitempty"`
}

// WhoAmIResponse reports the cached identity and the capability decisions
// enforcement is currently acting on.
// @Description Cached identity and effective capability decisions
type WhoAmIResponse struct {
	User *CurrentUser `json:"user,omitempty"`

	// Effective role after admin-flag and group resolution
	Role string `json:"role"`

	// Capability decisions for the static catalog
	Capabilities map[string]bool `json:"capabilities"`
}
