package surface

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBridgeApplyInstallsAndClearsRuleSet(t *testing.T) {
	b := NewBridge()

	rs := NewRuleSet(".queue-button", ".upload-button")
	require.NoError(t, b.Apply(Diff{ReplaceRuleSet: rs}))

	snap, err := b.Snapshot()
	require.NoError(t, err)
	require.True(t, rs.Equal(snap.InstalledRuleSet))
	require.True(t, rs.Equal(b.InstalledRuleSet()))

	// An empty replacement uninstalls rather than installing an empty set.
	require.NoError(t, b.Apply(Diff{ReplaceRuleSet: NewRuleSet()}))
	snap, err = b.Snapshot()
	require.NoError(t, err)
	require.Nil(t, snap.InstalledRuleSet)
}

func TestBridgeApplyElementAndMenuOps(t *testing.T) {
	b := NewBridge()
	b.Report(Snapshot{
		SettingsElements: []Element{
			{ID: "el-1", Label: "Manage users"},
			{ID: "el-2", Label: "Color palette"},
		},
		MenuEntries: []MenuEntry{MenuSave, MenuOpen, MenuExport},
	})

	require.NoError(t, b.Apply(Diff{
		ElementOps:  []ElementOp{{ID: "el-1", Hide: true}},
		RemoveMenus: []MenuEntry{MenuSave, MenuExport},
	}))

	snap, err := b.Snapshot()
	require.NoError(t, err)
	require.True(t, snap.SettingsElements[0].Hidden)
	require.False(t, snap.SettingsElements[1].Hidden)
	require.Equal(t, []MenuEntry{MenuOpen}, snap.MenuEntries)
}

func TestBridgeApplyDialogPatch(t *testing.T) {
	b := NewBridge()
	b.Report(Snapshot{
		Dialogs: []Dialog{{ID: "dlg-1", Title: "Save changes?", Body: "You have unsaved changes."}},
	})

	require.NoError(t, b.Apply(Diff{DialogPatches: []DialogPatch{{
		ID:     "dlg-1",
		Title:  "Access denied",
		Body:   "Your role does not allow saving workflows.",
		Marker: "abc-123",
	}}}))

	snap, err := b.Snapshot()
	require.NoError(t, err)
	require.Equal(t, "Access denied", snap.Dialogs[0].Title)
	require.Equal(t, "abc-123", snap.Dialogs[0].PatchMarker)
}

func TestBridgeSnapshotIsACopy(t *testing.T) {
	b := NewBridge()
	b.Report(Snapshot{MenuEntries: []MenuEntry{MenuSave}})

	snap, err := b.Snapshot()
	require.NoError(t, err)
	snap.MenuEntries[0] = MenuOpen

	fresh, err := b.Snapshot()
	require.NoError(t, err)
	require.Equal(t, []MenuEntry{MenuSave}, fresh.MenuEntries)
}
