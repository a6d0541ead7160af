package policy

import (
	"strings"

	"github.com/easelgate/easelgate/pkg/models"
)

// Grants is one role's explicit capability values. A key absent from the map
// means "use the default policy", which is distinct from an explicit false.
type Grants map[Key]bool

// Map is the role-policy table: role -> capability -> explicit value. The
// server owns it; the client holds a cached copy.
type Map map[Role]Grants

// FromGroupsResponse converts the editor's wire payload into a Map.
func FromGroupsResponse(resp *models.GroupsResponse) Map {
	if resp == nil {
		return nil
	}

	m := make(Map, len(resp.Groups))
	for role, perms := range resp.Groups {
		grants := make(Grants, len(perms))
		for key, allowed := range perms {
			grants[Key(key)] = allowed
		}
		m[Role(strings.ToLower(role))] = grants
	}
	return m
}

// ToGroupsResponse converts the Map back into the wire payload for PUT.
func (m Map) ToGroupsResponse() *models.GroupsResponse {
	groups := make(map[string]map[string]bool, len(m))
	for role, grants := range m {
		perms := make(map[string]bool, len(grants))
		for key, allowed := range grants {
			perms[string(key)] = allowed
		}
		groups[string(role)] = perms
	}
	return &models.GroupsResponse{Groups: groups}
}

// Allows resolves the effective boolean for (role, key). Admin always passes.
// An explicit value wins; an absent value falls back to the per-key default:
// blocked for guests, allowed for other roles, except the legacy keys that
// default to allowed everywhere.
func (m Map) Allows(role Role, key Key) bool {
	if role.IsAdmin() {
		return true
	}

	if grants, ok := m[role]; ok {
		if v, ok := grants[key]; ok {
			return v
		}
	}

	return defaultFor(role, key)
}

// Set records an explicit value, creating the role's grant map on first use.
func (m Map) Set(role Role, key Key, allowed bool) {
	if m[role] == nil {
		m[role] = Grants{}
	}
	m[role][key] = allowed
}
