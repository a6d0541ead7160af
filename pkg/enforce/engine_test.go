package enforce_test

import (
	"context"
	"sync"
	"testing"

	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/stretchr/testify/require"

	"github.com/easelgate/easelgate/pkg/enforce"
	"github.com/easelgate/easelgate/pkg/models"
	"github.com/easelgate/easelgate/pkg/policy"
	"github.com/easelgate/easelgate/pkg/surface"
)

type fakeSource struct {
	mu     sync.Mutex
	user   *models.CurrentUser
	groups *models.GroupsResponse
	fail   bool
}

func (f *fakeSource) FetchCurrentUser(ctx context.Context) (*models.CurrentUser, humane.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, humane.New("editor unreachable", "start the editor")
	}
	return f.user, nil
}

func (f *fakeSource) FetchGroups(ctx context.Context) (*models.GroupsResponse, humane.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, humane.New("editor unreachable", "start the editor")
	}
	return f.groups, nil
}

func (f *fakeSource) PushGroups(ctx context.Context, groups *models.GroupsResponse) humane.Error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups = groups
	return nil
}

// fakeUI plays both Provider and Applier over one mutable snapshot, the way
// the real bridge reflects applied diffs back into the next snapshot.
type fakeUI struct {
	mu      sync.Mutex
	snap    surface.Snapshot
	applies int
}

func (u *fakeUI) Snapshot() (*surface.Snapshot, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	snap := u.snap
	snap.SettingsElements = append([]surface.Element(nil), u.snap.SettingsElements...)
	snap.MenuEntries = append([]surface.MenuEntry(nil), u.snap.MenuEntries...)
	snap.Dialogs = append([]surface.Dialog(nil), u.snap.Dialogs...)
	return &snap, nil
}

func (u *fakeUI) Apply(diff surface.Diff) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.applies++

	if diff.ReplaceRuleSet != nil {
		u.snap.InstalledRuleSet = diff.ReplaceRuleSet
	}
	for _, op := range diff.ElementOps {
		for i := range u.snap.SettingsElements {
			if u.snap.SettingsElements[i].ID == op.ID {
				u.snap.SettingsElements[i].Hidden = op.Hide
			}
		}
	}
	for _, entry := range diff.RemoveMenus {
		kept := u.snap.MenuEntries[:0]
		for _, e := range u.snap.MenuEntries {
			if e != entry {
				kept = append(kept, e)
			}
		}
		u.snap.MenuEntries = kept
	}
	for _, patch := range diff.DialogPatches {
		for i := range u.snap.Dialogs {
			if u.snap.Dialogs[i].ID == patch.ID {
				u.snap.Dialogs[i].Title = patch.Title
				u.snap.Dialogs[i].Body = patch.Body
				u.snap.Dialogs[i].PatchMarker = patch.Marker
			}
		}
	}
	return nil
}

func (u *fakeUI) applyCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.applies
}

func (u *fakeUI) installed() *surface.RuleSet {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.snap.InstalledRuleSet
}

func guestUser() *models.CurrentUser {
	return &models.CurrentUser{Role: "guest", Groups: []string{"guest"}}
}

func TestEngine_TickInstallsRuleSetForGuest(t *testing.T) {
	src := &fakeSource{
		user:   guestUser(),
		groups: &models.GroupsResponse{Groups: map[string]map[string]bool{}},
	}
	ui := &fakeUI{}
	engine := enforce.NewEngine(policy.NewStore(src), ui, ui)

	engine.Tick(context.Background())

	require.Equal(t, 1, ui.applyCount())
	require.False(t, ui.installed().Empty())
	require.Contains(t, ui.installed().Locators(), surface.BlockedMarker)
}

func TestEngine_RepeatTickIsNoop(t *testing.T) {
	src := &fakeSource{
		user:   guestUser(),
		groups: &models.GroupsResponse{Groups: map[string]map[string]bool{}},
	}
	ui := &fakeUI{}
	engine := enforce.NewEngine(policy.NewStore(src), ui, ui)

	engine.Tick(context.Background())
	require.Equal(t, 1, ui.applyCount())

	engine.Tick(context.Background())
	engine.Tick(context.Background())
	require.Equal(t, 1, ui.applyCount(), "identical policy must not re-apply")
}

func TestEngine_DefersUntilFirstResolution(t *testing.T) {
	src := &fakeSource{fail: true}
	ui := &fakeUI{snap: surface.Snapshot{
		MenuEntries: []surface.MenuEntry{surface.MenuSave},
	}}
	engine := enforce.NewEngine(policy.NewStore(src), ui, ui)

	engine.Tick(context.Background())
	require.Equal(t, 0, ui.applyCount(), "nothing may be enforced before the first fetch succeeds")

	src.mu.Lock()
	src.fail = false
	src.user = guestUser()
	src.groups = &models.GroupsResponse{Groups: map[string]map[string]bool{}}
	src.mu.Unlock()

	engine.Tick(context.Background())
	require.Equal(t, 1, ui.applyCount())
}

func TestEngine_AdminClearsInstalledRuleSet(t *testing.T) {
	src := &fakeSource{
		user:   &models.CurrentUser{Username: "root", Role: "admin", IsAdmin: true},
		groups: &models.GroupsResponse{Groups: map[string]map[string]bool{}},
	}
	ui := &fakeUI{snap: surface.Snapshot{
		InstalledRuleSet: surface.NewRuleSet("#left-over"),
	}}
	engine := enforce.NewEngine(policy.NewStore(src), ui, ui)

	engine.Tick(context.Background())
	require.Equal(t, 1, ui.applyCount())
	require.True(t, ui.installed().Empty())

	// And stays a no-op afterwards.
	engine.Tick(context.Background())
	require.Equal(t, 1, ui.applyCount())
}

func TestEngine_CapabilityFlipVisibleNextTick(t *testing.T) {
	src := &fakeSource{
		user: &models.CurrentUser{Username: "u", Role: "user", Groups: []string{"user"}},
		groups: &models.GroupsResponse{Groups: map[string]map[string]bool{
			"user": {"can_modify_workflows": false},
		}},
	}
	ui := &fakeUI{snap: surface.Snapshot{
		MenuEntries: []surface.MenuEntry{surface.MenuSave, surface.MenuOpen},
	}}
	store := policy.NewStore(src)
	engine := enforce.NewEngine(store, ui, ui)

	engine.Tick(context.Background())
	require.NotContains(t, ui.snap.MenuEntries, surface.MenuSave)
	for _, l := range surface.Targets[policy.KeyModifyWorkflows] {
		require.Contains(t, ui.installed().Locators(), l)
	}

	// Administrator grants the capability; the store refetches and the next
	// tick lifts the suppression.
	src.mu.Lock()
	src.groups = &models.GroupsResponse{Groups: map[string]map[string]bool{
		"user": {"can_modify_workflows": true},
	}}
	src.mu.Unlock()
	store.Invalidate()

	engine.Tick(context.Background())
	for _, l := range surface.Targets[policy.KeyModifyWorkflows] {
		require.NotContains(t, ui.installed().Locators(), l)
	}
}

func TestEngine_DialogPatchedOncePerInstance(t *testing.T) {
	src := &fakeSource{
		user:   guestUser(),
		groups: &models.GroupsResponse{Groups: map[string]map[string]bool{}},
	}
	ui := &fakeUI{snap: surface.Snapshot{
		Dialogs: []surface.Dialog{
			{ID: "d1", Title: "Save workflow?", Body: "You have unsaved changes."},
		},
	}}
	engine := enforce.NewEngine(policy.NewStore(src), ui, ui)

	engine.Tick(context.Background())
	require.Equal(t, enforce.DeniedTitle, ui.snap.Dialogs[0].Title)
	marker := ui.snap.Dialogs[0].PatchMarker
	require.NotEmpty(t, marker)

	engine.Tick(context.Background())
	require.Equal(t, marker, ui.snap.Dialogs[0].PatchMarker, "a patched dialog must not be re-patched")
}
