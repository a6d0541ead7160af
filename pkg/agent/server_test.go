package agent_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/stretchr/testify/require"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"github.com/easelgate/easelgate/pkg/agent"
	"github.com/easelgate/easelgate/pkg/lockout"
	"github.com/easelgate/easelgate/pkg/models"
	"github.com/easelgate/easelgate/pkg/policy"
)

var sharedPrometheus = ginprometheus.NewPrometheus("easelgate")

type staticSource struct {
	user   *models.CurrentUser
	groups *models.GroupsResponse
}

func (s staticSource) FetchCurrentUser(ctx context.Context) (*models.CurrentUser, humane.Error) {
	return s.user, nil
}

func (s staticSource) FetchGroups(ctx context.Context) (*models.GroupsResponse, humane.Error) {
	return s.groups, nil
}

func (s staticSource) PushGroups(ctx context.Context, groups *models.GroupsResponse) humane.Error {
	return nil
}

func newTestServer(t *testing.T, src policy.Source, ctrl *lockout.Controller) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if ctrl == nil {
		ctrl = lockout.NewController(nil)
	}

	srv, herr := agent.NewServer(policy.NewStore(src), ctrl,
		agent.WithPrometheusMiddleware(sharedPrometheus),
	)
	require.Nil(t, herr)

	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestGetRuleSet_GuestSuppressesBlockedCapabilities(t *testing.T) {
	ts := newTestServer(t, staticSource{
		user:   &models.CurrentUser{Role: "guest", Groups: []string{"guest"}},
		groups: &models.GroupsResponse{Groups: map[string]map[string]bool{}},
	}, nil)

	var got models.RuleSetResponse
	getJSON(t, ts, "/api/v1alpha1/ruleset", &got)

	require.Equal(t, "easelgate-ruleset", got.ID)
	require.Equal(t, "guest", got.Role)
	require.NotEmpty(t, got.Locators)
	require.Contains(t, got.Locators, ".easelgate-blocked")
}

func TestGetRuleSet_AdminGetsEmptySet(t *testing.T) {
	ts := newTestServer(t, staticSource{
		user:   &models.CurrentUser{Username: "root", IsAdmin: true, Role: "admin"},
		groups: &models.GroupsResponse{Groups: map[string]map[string]bool{}},
	}, nil)

	var got models.RuleSetResponse
	getJSON(t, ts, "/api/v1alpha1/ruleset", &got)

	require.Equal(t, "admin", got.Role)
	require.Empty(t, got.Locators)
}

func TestGetRuleSetCSS(t *testing.T) {
	ts := newTestServer(t, staticSource{
		user:   &models.CurrentUser{Role: "guest", Groups: []string{"guest"}},
		groups: &models.GroupsResponse{Groups: map[string]map[string]bool{}},
	}, nil)

	resp, err := http.Get(ts.URL + "/api/v1alpha1/ruleset.css")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/css"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "display: none !important;")
	require.Contains(t, string(body), ".easelgate-blocked")
}

func TestGetLockout(t *testing.T) {
	ctrl := lockout.NewController(nil)
	for i := 0; i < 3; i++ {
		ctrl.RecordOutcome(403, nil, "login")
	}

	ts := newTestServer(t, staticSource{
		user:   &models.CurrentUser{Role: "guest", Groups: []string{"guest"}},
		groups: &models.GroupsResponse{Groups: map[string]map[string]bool{}},
	}, ctrl)

	var got models.LockoutStatus
	getJSON(t, ts, "/api/v1alpha1/lockout", &got)

	require.Equal(t, 3, got.FailedAttempts)
	require.True(t, got.Locked)
	require.Greater(t, got.RemainingSeconds, 0)
	require.Contains(t, got.WaitMessage, "Wait")
}

func TestGetWhoAmI(t *testing.T) {
	ts := newTestServer(t, staticSource{
		user: &models.CurrentUser{Username: "u", Role: "user", Groups: []string{"user"}},
		groups: &models.GroupsResponse{Groups: map[string]map[string]bool{
			"user": {"can_modify_workflows": false},
		}},
	}, nil)

	var got models.WhoAmIResponse
	getJSON(t, ts, "/api/v1alpha1/whoami", &got)

	require.Equal(t, "user", got.Role)
	require.Equal(t, "u", got.User.Username)
	require.False(t, got.Capabilities["can_modify_workflows"])
	require.True(t, got.Capabilities["can_open_workflows"])
	require.True(t, got.Capabilities["can_run"])
}
