package policy

import "strings"

// Key is a stable identifier for one gateable feature: either a server-side
// permission or a client-side UI affordance.
type Key string

// Static capability catalog. Keys prefixed settings_ additionally exist in a
// dynamically discovered set derived from extension names at runtime; those
// are sanitized into the same key space by KeyFromLabel.
const (
	KeyRun                Key = "can_run"
	KeyUpload             Key = "can_upload"
	KeyAccessManager      Key = "can_access_manager"
	KeyAccessAPI          Key = "can_access_api"
	KeyRestrictedSettings Key = "can_see_restricted_settings"
	KeyModifyWorkflows    Key = "can_modify_workflows"
	KeyOpenWorkflows      Key = "can_open_workflows"
	KeyBrowseTemplates    Key = "can_browse_templates"
	KeyManageExtensions   Key = "can_manage_extensions"
	KeyQueueButton        Key = "show_queue_button"
	KeyHistoryTab         Key = "show_history_tab"
)

// Catalog returns the static capability keys, in a stable order.
func Catalog() []Key {
	return []Key{
		KeyRun,
		KeyUpload,
		KeyAccessManager,
		KeyAccessAPI,
		KeyRestrictedSettings,
		KeyModifyWorkflows,
		KeyOpenWorkflows,
		KeyBrowseTemplates,
		KeyManageExtensions,
		KeyQueueButton,
		KeyHistoryTab,
	}
}

// DiscoveredPrefix marks keys derived from free-text labels rather than the
// static catalog.
const DiscoveredPrefix = "settings_"

// legacyDefaultAllow lists keys whose absent-value default is "allowed" for
// every role, guest included. The asymmetry is inherited from the editor's
// server-side enforcement and is kept verbatim rather than normalized; it is
// data here so a reviewer can audit it in one place.
var legacyDefaultAllow = map[Key]bool{
	KeyRun:       true,
	KeyUpload:    true,
	KeyAccessAPI: true,
}

// defaultFor returns the effective value of key for role when the policy map
// holds no explicit entry: legacy keys default to allowed, everything else is
// blocked for guests and allowed for other roles.
func defaultFor(role Role, key Key) bool {
	if legacyDefaultAllow[key] {
		return true
	}
	return role != RoleGuest
}

// KeyFromLabel sanitizes a visible UI label into a discovered capability key:
// lower-cased, non-alphanumerics stripped, settings_ prefix. Labels are free
// text owned by the host editor, so the mapping is best-effort; unknown
// labels simply resolve through the default policy. Two features that render
// identical text collapse onto one key.
func KeyFromLabel(label string) Key {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return ""
	}

	return Key(DiscoveredPrefix + b.String())
}
