package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sierrasoftworks/humane-errors-go"

	"github.com/easelgate/easelgate/pkg/models"
)

// The credential endpoints return a meaningful AuthResponse body on 400/401
// and 403 as well as on 200, and the lockout controller needs that body, so
// these calls decode every received response instead of turning non-2xx into
// errors. A zero status means no response was received at all.

// Login authenticates with username/password, or as an anonymous guest when
// guest is set. The session cookie returned by the server lands in the
// client's jar; on success the token is additionally pinned via StoreToken.
func (c *Client) Login(ctx context.Context, username, password string, guest bool) (*models.AuthResponse, int, humane.Error) {
	form := url.Values{}
	if guest {
		form.Set("guest_login", "true")
	} else {
		form.Set("username", username)
		form.Set("password", password)
	}

	resp, status, herr := c.doAuthForm(ctx, "/login", form)
	if herr == nil && status == http.StatusOK {
		c.StoreToken(resp.Token())
	}
	return resp, status, herr
}

// Register creates a new user. Admin credentials ride along except during
// first-admin bootstrap.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, int, humane.Error) {
	form := url.Values{}
	form.Set("new_user_username", req.Username)
	form.Set("new_user_password", req.Password)
	if req.AdminUsername != "" || req.AdminPassword != "" {
		form.Set("username", req.AdminUsername)
		form.Set("password", req.AdminPassword)
	}

	return c.doAuthForm(ctx, "/register", form)
}

// GenerateToken requests a one-time bearer token valid for expireHours.
func (c *Client) GenerateToken(ctx context.Context, username, password, expireHours string) (*models.AuthResponse, int, humane.Error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("expire_hours", expireHours)

	return c.doAuthForm(ctx, "/generate_token", form)
}

func (c *Client) doAuthForm(ctx context.Context, uri string, form url.Values) (*models.AuthResponse, int, humane.Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.absolute(uri), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, humane.Wrap(err, "failed to create request", "this indicates a bug; please report it")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, humane.Wrap(err, "failed to perform request",
			"ensure the editor is running and reachable at "+c.baseURL.String(),
		)
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, humane.Wrap(err, "failed to read response body",
			"the server may have closed the connection unexpectedly",
		)
	}

	var result models.AuthResponse
	if err := json.Unmarshal(respBytes, &result); err != nil {
		// A received-but-unparseable body is treated like a transport
		// failure so it never feeds the lockout controller.
		return nil, 0, humane.Wrap(err, "failed to decode response body",
			"the server returned an unexpected response format",
		)
	}

	return &result, resp.StatusCode, nil
}

// Logout ends the session server-side and drops the local token. The server
// clears its cookie via the response; the jar is cleared regardless so a
// failed request cannot leave a live token behind.
func (c *Client) Logout(ctx context.Context) humane.Error {
	defer c.ClearToken()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.absolute("/logout"), nil)
	if err != nil {
		return humane.Wrap(err, "failed to create request", "this indicates a bug; please report it")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return humane.Wrap(err, "failed to perform request",
			"ensure the editor is running and reachable at "+c.baseURL.String(),
		)
	}
	_ = resp.Body.Close()
	return nil
}

// StoreToken pins a bearer token into the client's cookie jar under the
// editor's origin: path /, strict same-site, secure only when the editor is
// served over https.
func (c *Client) StoreToken(token string) {
	if token == "" || c.httpClient.Jar == nil {
		return
	}

	c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:     "jwt_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   c.baseURL.Scheme == "https",
	}})
}

// ClearToken expires the session cookie in the jar.
func (c *Client) ClearToken() {
	if c.httpClient.Jar == nil {
		return
	}
	c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:   "jwt_token",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}})
}

// Token returns the bearer token currently held in the cookie jar, if any.
func (c *Client) Token() string {
	if c.httpClient.Jar == nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(c.baseURL) {
		if cookie.Name == "jwt_token" {
			return cookie.Value
		}
	}
	return ""
}
