// Package intercept guards the two paths a blocked action can still sneak
// through after UI suppression: keyboard shortcuts and direct requests to
// the workflow-persistence endpoint.
package intercept

import (
	"strings"

	"github.com/easelgate/easelgate/pkg/policy"
)

// Chord is one keyboard combination as reported by the host.
type Chord struct {
	Key   string
	Mod   bool // ctrl on most platforms, cmd on macOS
	Shift bool
}

// chordCapabilities maps the conventional editor chords to the capability
// that gates them. Save and save-as are both faces of workflow-modify.
func chordCapability(c Chord) (policy.Key, bool) {
	if !c.Mod {
		return "", false
	}

	switch strings.ToLower(c.Key) {
	case "s":
		return policy.KeyModifyWorkflows, true
	case "o":
		if c.Shift {
			return "", false
		}
		return policy.KeyOpenWorkflows, true
	default:
		return "", false
	}
}

// Decision is the outcome of evaluating one chord.
type Decision struct {
	// Block tells the caller to swallow the event before the host sees it.
	Block bool

	// Capability is the key the decision was evaluated against, empty when
	// the chord is not one we guard.
	Capability policy.Key
}

// Decide evaluates a chord against the current policy. Unguarded chords and
// allowed capabilities pass through untouched.
func Decide(pm policy.Map, role policy.Role, chord Chord) Decision {
	key, guarded := chordCapability(chord)
	if !guarded {
		return Decision{}
	}
	return Decision{
		Block:      !pm.Allows(role, key),
		Capability: key,
	}
}
