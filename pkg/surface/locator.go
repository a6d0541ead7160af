// Package surface models the slice of the host editor's UI that enforcement
// acts on: a static locator table per capability, the suppression rule-set,
// and a snapshot/diff pair describing the rendered UI and the changes one
// enforcement pass wants applied to it.
package surface

import "github.com/easelgate/easelgate/pkg/policy"

// Locator is a CSS selector addressing one or more host UI elements.
type Locator string

// BlockedMarker is the class the host attaches to elements that must never
// be visible to a suppressed role. It is force-suppressed on every pass for
// non-admin roles regardless of the policy map.
const BlockedMarker Locator = ".easelgate-blocked"

// Targets maps each capability to the locators suppressed when the
// capability resolves to blocked. Every key carries at least one locator;
// TestTargetsCoverAllKeys keeps the table honest as keys are added.
var Targets = map[policy.Key][]Locator{
	policy.KeyRun: {
		"#queue-button",
		"[data-command='queue-prompt']",
	},
	policy.KeyUpload: {
		"[data-command='upload-file']",
		".upload-drop-zone",
	},
	policy.KeyAccessManager: {
		"[data-menu='user-manager']",
	},
	policy.KeyAccessAPI: {
		"[data-menu='api-panel']",
	},
	policy.KeyRestrictedSettings: {
		".settings-restricted",
		"[data-setting-category='server']",
	},
	policy.KeyModifyWorkflows: {
		"[data-command='save-workflow']",
		"[data-command='save-workflow-as']",
		"[data-command='export-workflow']",
		"[data-command='export-workflow-api']",
	},
	policy.KeyOpenWorkflows: {
		"[data-command='open-workflow']",
		".workflow-open-panel",
	},
	policy.KeyBrowseTemplates: {
		"[data-command='browse-templates']",
		".template-browser",
	},
	policy.KeyManageExtensions: {
		"[data-command='manage-extensions']",
		".extension-manager",
	},
	policy.KeyQueueButton: {
		".queue-tab-button",
	},
	policy.KeyHistoryTab: {
		".history-tab",
	},
}

// MenuEntry names a host menu item enforcement may remove outright. Menu
// entries are re-created by the host every time a menu opens, so hiding is
// not enough for them.
type MenuEntry string

const (
	MenuSave             MenuEntry = "save"
	MenuSaveAs           MenuEntry = "save-as"
	MenuExport           MenuEntry = "export"
	MenuExportAPI        MenuEntry = "export-api"
	MenuOpen             MenuEntry = "open"
	MenuBrowseTemplates  MenuEntry = "browse-templates"
	MenuManageExtensions MenuEntry = "manage-extensions"
)

// MenuCapabilities groups the removable menu entries under the capability
// that gates them. Save, save-as and both export variants are all faces of
// the workflow-modify capability.
var MenuCapabilities = map[MenuEntry]policy.Key{
	MenuSave:             policy.KeyModifyWorkflows,
	MenuSaveAs:           policy.KeyModifyWorkflows,
	MenuExport:           policy.KeyModifyWorkflows,
	MenuExportAPI:        policy.KeyModifyWorkflows,
	MenuOpen:             policy.KeyOpenWorkflows,
	MenuBrowseTemplates:  policy.KeyBrowseTemplates,
	MenuManageExtensions: policy.KeyManageExtensions,
}
