package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/sierrasoftworks/humane-errors-go"

	"github.com/easelgate/easelgate/pkg/models"
)

// FetchCurrentUser retrieves the identity behind the session cookie.
func (c *Client) FetchCurrentUser(ctx context.Context) (*models.CurrentUser, humane.Error) {
	user, _, herr := doRequestAndDecode[models.CurrentUser](ctx, c, http.MethodGet, "/easelgate/api/me", nil, nil)
	return user, herr
}

// FetchGroups retrieves the role-to-capability policy map. Reads are open to
// any session; writes are admin-gated.
func (c *Client) FetchGroups(ctx context.Context) (*models.GroupsResponse, humane.Error) {
	groups, _, herr := doRequestAndDecode[models.GroupsResponse](ctx, c, http.MethodGet, "/easelgate/api/groups", nil, nil)
	return groups, herr
}

// PushGroups merges changes into the server-side policy map. Admin-only.
func (c *Client) PushGroups(ctx context.Context, groups *models.GroupsResponse) humane.Error {
	body, err := json.Marshal(groups)
	if err != nil {
		return humane.Wrap(err, "failed to encode policy map", "this indicates a bug; please report it")
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	_, _, herr := doRequestAndDecode[models.AuthResponse](ctx, c, http.MethodPut, "/easelgate/api/groups", bytes.NewReader(body), header)
	return herr
}
