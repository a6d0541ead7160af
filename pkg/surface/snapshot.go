package surface

// Element is one interactive control inside the host's modal settings
// surface. These are generated with non-deterministic markup, so the static
// locator table cannot address them; enforcement matches them by label.
type Element struct {
	ID     string
	Label  string
	Hidden bool
}

// Dialog is an open confirmation dialog. PatchMarker is empty until
// enforcement rewrites the dialog; afterwards it carries the per-instance
// marker that makes re-patching a no-op.
type Dialog struct {
	ID          string
	Title       string
	Body        string
	PatchMarker string
}

// Snapshot is a pure data view of the rendered host UI at one instant.
type Snapshot struct {
	// InstalledRuleSet is the suppression rule-set currently injected, or
	// nil when none is installed.
	InstalledRuleSet *RuleSet

	// SettingsElements are the controls currently rendered inside the
	// settings surface.
	SettingsElements []Element

	// MenuEntries are the named menu items currently present.
	MenuEntries []MenuEntry

	// Dialogs are the confirmation dialogs currently open.
	Dialogs []Dialog
}

// Provider yields snapshots of the host UI. Implementations read whatever
// bridge the host exposes; tests hand back fixtures.
type Provider interface {
	Snapshot() (*Snapshot, error)
}

// ElementOp hides or shows one settings-surface element.
type ElementOp struct {
	ID   string
	Hide bool
}

// DialogPatch rewrites one dialog's copy to an access-denied message and
// blocks its accept control. Marker is the uuid recorded on the dialog so a
// later pass recognizes it as already patched. The cancel control is left
// untouched so the user can always back out.
type DialogPatch struct {
	ID     string
	Title  string
	Body   string
	Marker string
}

// Diff is everything one enforcement pass wants changed. An all-zero Diff
// means the pass found the UI already in the desired state.
type Diff struct {
	// ReplaceRuleSet, when set, atomically replaces the installed rule-set.
	// An empty (non-nil) rule-set clears it.
	ReplaceRuleSet *RuleSet

	ElementOps    []ElementOp
	RemoveMenus   []MenuEntry
	DialogPatches []DialogPatch
}

// Empty reports whether applying the diff would change nothing.
func (d *Diff) Empty() bool {
	return d == nil ||
		(d.ReplaceRuleSet == nil &&
			len(d.ElementOps) == 0 &&
			len(d.RemoveMenus) == 0 &&
			len(d.DialogPatches) == 0)
}

// Merge folds other into d.
func (d *Diff) Merge(other Diff) {
	if other.ReplaceRuleSet != nil {
		d.ReplaceRuleSet = other.ReplaceRuleSet
	}
	d.ElementOps = append(d.ElementOps, other.ElementOps...)
	d.RemoveMenus = append(d.RemoveMenus, other.RemoveMenus...)
	d.DialogPatches = append(d.DialogPatches, other.DialogPatches...)
}

// Applier consumes diffs and mutates the host UI accordingly.
type Applier interface {
	Apply(diff Diff) error
}
