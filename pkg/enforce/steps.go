// Package enforce computes and applies UI suppression for the current role.
// The decision logic lives in pure step functions that map (policy, role,
// snapshot) to a partial diff; the Engine composes them on a ticker and
// isolates each step's failures from the rest.
package enforce

import (
	"strings"

	"github.com/google/uuid"

	"github.com/easelgate/easelgate/pkg/policy"
	"github.com/easelgate/easelgate/pkg/surface"
)

// DeniedTitle and DeniedBody are the copy a blocked confirmation dialog is
// rewritten to.
const (
	DeniedTitle = "Access denied"
	DeniedBody  = "Your role is not allowed to modify workflows. Contact an administrator if you need this permission."
)

// ClearStep removes any installed rule-set. It is the whole of enforcement
// for admins, who bypass suppression regardless of map contents.
func ClearStep(snap *surface.Snapshot) surface.Diff {
	if snap.InstalledRuleSet.Empty() {
		return surface.Diff{}
	}
	return surface.Diff{ReplaceRuleSet: surface.NewRuleSet()}
}

// ComputeRuleSet walks the static locator table and accumulates the locators
// of every blocked capability, plus the blocked-marker class which is always
// suppressed for non-admin roles.
func ComputeRuleSet(pm policy.Map, role policy.Role) *surface.RuleSet {
	rs := surface.NewRuleSet(surface.BlockedMarker)
	for _, key := range policy.Catalog() {
		if pm.Allows(role, key) {
			continue
		}
		rs.Add(surface.Targets[key]...)
	}
	return rs
}

// RuleSetStep replaces the installed rule-set with the computed one. An
// identical rule-set yields an empty diff so re-application is a no-op.
func RuleSetStep(pm policy.Map, role policy.Role, snap *surface.Snapshot) surface.Diff {
	want := ComputeRuleSet(pm, role)
	if want.Equal(snap.InstalledRuleSet) {
		return surface.Diff{}
	}
	return surface.Diff{ReplaceRuleSet: want}
}

// SettingsStep hides or shows each settings-surface element by deriving a
// capability key from its visible label. This covers controls the static
// locator table cannot address because their markup is generated.
func SettingsStep(pm policy.Map, role policy.Role, snap *surface.Snapshot) surface.Diff {
	var diff surface.Diff
	for _, el := range snap.SettingsElements {
		key := policy.KeyFromLabel(el.Label)
		if key == "" {
			continue
		}

		allowed := pm.Allows(role, key)
		switch {
		case !allowed && !el.Hidden:
			diff.ElementOps = append(diff.ElementOps, surface.ElementOp{ID: el.ID, Hide: true})
		case allowed && el.Hidden:
			diff.ElementOps = append(diff.ElementOps, surface.ElementOp{ID: el.ID, Hide: false})
		}
	}
	return diff
}

// MenuStep removes blocked named menu entries outright. The host rebuilds
// these on every menu open, so hiding would let them flash visible for a
// frame before the next pass.
func MenuStep(pm policy.Map, role policy.Role, snap *surface.Snapshot) surface.Diff {
	var diff surface.Diff
	for _, entry := range snap.MenuEntries {
		key, ok := surface.MenuCapabilities[entry]
		if !ok {
			continue
		}
		if !pm.Allows(role, key) {
			diff.RemoveMenus = append(diff.RemoveMenus, entry)
		}
	}
	return diff
}

// dialogLooksLikeSavePrompt matches the save/unsaved-changes confirmation
// dialogs by their visible copy.
func dialogLooksLikeSavePrompt(d surface.Dialog) bool {
	text := strings.ToLower(d.Title + " " + d.Body)
	return strings.Contains(text, "save") ||
		strings.Contains(text, "unsaved") ||
		strings.Contains(text, "changes")
}

// DialogStep rewrites save-confirmation dialogs to an access-denied message
// when workflow modification is blocked. Only the accept control is blocked;
// cancel stays live so the user can always back out. A per-instance marker
// makes re-patching a no-op.
func DialogStep(pm policy.Map, role policy.Role, snap *surface.Snapshot) surface.Diff {
	if pm.Allows(role, policy.KeyModifyWorkflows) {
		return surface.Diff{}
	}

	var diff surface.Diff
	for _, d := range snap.Dialogs {
		if d.PatchMarker != "" || !dialogLooksLikeSavePrompt(d) {
			continue
		}
		diff.DialogPatches = append(diff.DialogPatches, surface.DialogPatch{
			ID:     d.ID,
			Title:  DeniedTitle,
			Body:   DeniedBody,
			Marker: uuid.New().String(),
		})
	}
	return diff
}
