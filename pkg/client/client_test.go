package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/easelgate/easelgate/pkg/client"
	"github.com/easelgate/easelgate/pkg/models"
)

func TestLogin_SuccessStoresCookieToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "ab_1", r.PostFormValue("username"))
		require.Equal(t, "passw0rd!", r.PostFormValue("password"))
		require.Empty(t, r.PostFormValue("guest_login"))

		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			Message:  "Login successful",
			JwtToken: "jwt-abc",
		})
	}))
	defer srv.Close()

	c, herr := client.New(srv.URL)
	require.Nil(t, herr)

	resp, status, herr := c.Login(context.Background(), "ab_1", "passw0rd!", false)
	require.Nil(t, herr)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "jwt-abc", resp.Token())
	require.Equal(t, "jwt-abc", c.Token())
}

func TestLogin_GuestSendsFlagInsteadOfCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "true", r.PostFormValue("guest_login"))
		require.Empty(t, r.PostFormValue("username"))

		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			Message:  "Guest login",
			JwtToken: "guest-jwt",
		})
	}))
	defer srv.Close()

	c, herr := client.New(srv.URL)
	require.Nil(t, herr)

	resp, status, herr := c.Login(context.Background(), "", "", true)
	require.Nil(t, herr)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "guest-jwt", resp.Token())
}

func TestLogin_FailureBodyIsReturnedNotErrored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		attempts, remaining := 4, 60
		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			Error:            "Invalid credentials",
			FailedAttempts:   &attempts,
			RemainingSeconds: &remaining,
		})
	}))
	defer srv.Close()

	c, herr := client.New(srv.URL)
	require.Nil(t, herr)

	resp, status, herr := c.Login(context.Background(), "ab_1", "wr0ng_pw!", false)
	require.Nil(t, herr, "a received 403 must surface its body, not an error")
	require.Equal(t, http.StatusForbidden, status)
	require.True(t, resp.HasLockoutSync())
	require.Equal(t, 4, *resp.FailedAttempts)
	require.Empty(t, c.Token())
}

func TestLogin_UnreachableServerReportsZeroStatus(t *testing.T) {
	c, herr := client.New("http://127.0.0.1:1")
	require.Nil(t, herr)

	_, status, herr := c.Login(context.Background(), "ab_1", "passw0rd!", false)
	require.NotNil(t, herr)
	require.Equal(t, 0, status)
}

func TestLogin_GarbageBodyReportsZeroStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c, herr := client.New(srv.URL)
	require.Nil(t, herr)

	_, status, herr := c.Login(context.Background(), "ab_1", "passw0rd!", false)
	require.NotNil(t, herr)
	require.Equal(t, 0, status, "an unparseable body must look like a transport failure")
}

func TestRegister_SendsAdminCredentialsWhenPresent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/register", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "new_user", r.PostFormValue("new_user_username"))
		require.Equal(t, "root_admin", r.PostFormValue("username"))

		_ = json.NewEncoder(w).Encode(models.AuthResponse{Message: "User registered"})
	}))
	defer srv.Close()

	c, herr := client.New(srv.URL)
	require.Nil(t, herr)

	resp, status, herr := c.Register(context.Background(), models.RegisterRequest{
		Username:      "new_user",
		Password:      "passw0rd!",
		AdminUsername: "root_admin",
		AdminPassword: "adm1n_s3cret!",
	})
	require.Nil(t, herr)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "User registered", resp.Message)
}

func TestGenerateToken_SendsExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate_token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "24", r.PostFormValue("expire_hours"))

		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			Message:  "JWT Token successfully generated",
			JwtToken: "one-time",
		})
	}))
	defer srv.Close()

	c, herr := client.New(srv.URL)
	require.Nil(t, herr)

	resp, _, herr := c.GenerateToken(context.Background(), "ab_1", "passw0rd!", "24")
	require.Nil(t, herr)
	require.Equal(t, "one-time", resp.Token())
}

func TestFetchCurrentUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/easelgate/api/me", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.CurrentUser{
			Username: "ab_1",
			Role:     "power",
			Groups:   []string{"power"},
		})
	}))
	defer srv.Close()

	c, herr := client.New(srv.URL)
	require.Nil(t, herr)

	user, herr := c.FetchCurrentUser(context.Background())
	require.Nil(t, herr)
	require.Equal(t, "ab_1", user.Username)
	require.Equal(t, "power", user.Role)
}

func TestFetchGroups_ForbiddenIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Admins only"})
	}))
	defer srv.Close()

	c, herr := client.New(srv.URL)
	require.Nil(t, herr)

	_, herr = c.FetchGroups(context.Background())
	require.NotNil(t, herr)
	require.Contains(t, herr.Error(), "Admins only")
}

func TestPushGroups_SendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/easelgate/api/groups", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body models.GroupsResponse
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.False(t, body.Groups["guest"]["can_run"])

		_ = json.NewEncoder(w).Encode(models.AuthResponse{Message: "ok"})
	}))
	defer srv.Close()

	c, herr := client.New(srv.URL)
	require.Nil(t, herr)

	herr = c.PushGroups(context.Background(), &models.GroupsResponse{
		Groups: map[string]map[string]bool{
			"guest": {"can_run": false},
		},
	})
	require.Nil(t, herr)
}

func TestNew_RejectsBadAddress(t *testing.T) {
	_, herr := client.New("ftp://example.com")
	require.NotNil(t, herr)

	_, herr = client.New("://nope")
	require.NotNil(t, herr)
}
