package surface

import "sync"

// Bridge is the in-process rendezvous between the enforcement engine and the
// host frontend. The engine reads snapshots from it and applies diffs to it;
// the frontend reports its rendered state into it and polls the resulting
// rule-set and element operations back out. It is both a Provider and an
// Applier.
type Bridge struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Report replaces the bridge's view of the rendered UI with what the
// frontend currently shows. The installed rule-set and any patch markers
// survive the report, since the frontend echoes them back.
func (b *Bridge) Report(snap Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap = snap
}

// Snapshot returns a copy of the current view. The engine treats the result
// as read-only, so slices are copied to keep a concurrent Report safe.
func (b *Bridge) Snapshot() (*Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := Snapshot{
		InstalledRuleSet: b.snap.InstalledRuleSet,
		SettingsElements: append([]Element(nil), b.snap.SettingsElements...),
		MenuEntries:      append([]MenuEntry(nil), b.snap.MenuEntries...),
		Dialogs:          append([]Dialog(nil), b.snap.Dialogs...),
	}
	return &out, nil
}

// Apply folds an enforcement diff into the view so the frontend observes the
// desired state on its next poll.
func (b *Bridge) Apply(diff Diff) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if diff.ReplaceRuleSet != nil {
		if diff.ReplaceRuleSet.Empty() {
			b.snap.InstalledRuleSet = nil
		} else {
			b.snap.InstalledRuleSet = diff.ReplaceRuleSet
		}
	}

	for _, op := range diff.ElementOps {
		for i := range b.snap.SettingsElements {
			if b.snap.SettingsElements[i].ID == op.ID {
				b.snap.SettingsElements[i].Hidden = op.Hide
			}
		}
	}

	for _, remove := range diff.RemoveMenus {
		entries := b.snap.MenuEntries[:0]
		for _, entry := range b.snap.MenuEntries {
			if entry != remove {
				entries = append(entries, entry)
			}
		}
		b.snap.MenuEntries = entries
	}

	for _, patch := range diff.DialogPatches {
		for i := range b.snap.Dialogs {
			if b.snap.Dialogs[i].ID == patch.ID {
				b.snap.Dialogs[i].Title = patch.Title
				b.snap.Dialogs[i].Body = patch.Body
				b.snap.Dialogs[i].PatchMarker = patch.Marker
			}
		}
	}

	return nil
}

// InstalledRuleSet returns the rule-set the engine last installed, or nil.
func (b *Bridge) InstalledRuleSet() *RuleSet {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap.InstalledRuleSet
}
