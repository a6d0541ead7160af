// Package guard wraps every credential-bearing action behind the same
// sequence: field validation, lockout pre-check, in-flight exclusion, a
// single request, and a lockout update driven by the response. Nothing else
// in the module talks to the credential endpoints directly.
package guard

import (
	"context"
	"sync/atomic"

	humane "github.com/sierrasoftworks/humane-errors-go"

	"github.com/easelgate/easelgate/pkg/lockout"
	"github.com/easelgate/easelgate/pkg/models"
	"github.com/easelgate/easelgate/pkg/notify"
)

// Action names one guarded submission. Each action carries its own in-flight
// flag so overlapping submissions of the same form are rejected while
// unrelated forms stay independent.
type Action string

const (
	ActionLogin    Action = "login"
	ActionGuest    Action = "guest_login"
	ActionRegister Action = "register"
	ActionToken    Action = "generate_token"
)

// API is the slice of the editor client the guard needs. A status of zero
// means no response was received at all (transport or decode failure).
type API interface {
	Login(ctx context.Context, username, password string, guest bool) (*models.AuthResponse, int, humane.Error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, int, humane.Error)
	GenerateToken(ctx context.Context, username, password, expireHours string) (*models.AuthResponse, int, humane.Error)
}

// LoginResult is returned on a successful login or guest login.
type LoginResult struct {
	Token   string
	Message string
}

// RegisterResult is returned on a successful registration. ResetForm tells
// the caller to clear the form it submitted from.
type RegisterResult struct {
	Message   string
	ResetForm bool
}

// TokenResult carries a one-time token. The server never returns it again,
// so the caller must surface it immediately.
type TokenResult struct {
	Token   string
	Message string
}

// Guard ties the credential API, lockout controller and notifier together.
type Guard struct {
	api      API
	lockout  *lockout.Controller
	notifier notify.Notifier

	inFlight map[Action]*atomic.Bool
}

// New creates a Guard. All three collaborators are required.
func New(api API, ctrl *lockout.Controller, notifier notify.Notifier) *Guard {
	flags := make(map[Action]*atomic.Bool, 4)
	for _, a := range []Action{ActionLogin, ActionGuest, ActionRegister, ActionToken} {
		flags[a] = &atomic.Bool{}
	}
	return &Guard{
		api:      api,
		lockout:  ctrl,
		notifier: notifier,
		inFlight: flags,
	}
}

// Login submits username/password credentials.
func (g *Guard) Login(ctx context.Context, username, password string) (*LoginResult, humane.Error) {
	if herr := collectFieldErrors(
		ValidateUsername(username),
		ValidatePassword(password),
	); herr != nil {
		g.notifier.Error(herr.Error())
		return nil, herr
	}

	return g.runLogin(ctx, ActionLogin, username, password, false)
}

// GuestLogin submits an anonymous guest session request. Guests carry no
// credentials, so there is nothing to validate.
func (g *Guard) GuestLogin(ctx context.Context) (*LoginResult, humane.Error) {
	return g.runLogin(ctx, ActionGuest, "", "", true)
}

func (g *Guard) runLogin(ctx context.Context, action Action, username, password string, guest bool) (*LoginResult, humane.Error) {
	release, herr := g.begin(action)
	if herr != nil {
		return nil, herr
	}
	defer release()

	resp, status, herr := g.api.Login(ctx, username, password, guest)
	if status == 0 {
		g.notifier.Error("Login request failed. Please try again.")
		return nil, humane.Wrap(herr, "login request did not reach the server",
			"Check your network connection and the server address",
		)
	}

	g.lockout.RecordOutcome(status, resp, string(action))

	if status != 200 || resp == nil || resp.Token() == "" {
		msg := resp.Text("Login failed")
		g.notifier.Error(g.withWait(msg))
		return nil, humane.New(msg, "Check your username and password")
	}

	g.notifier.Success(resp.Text("Login successful"))
	return &LoginResult{Token: resp.Token(), Message: resp.Text("Login successful")}, nil
}

// Register submits the registration form. On success the caller is told to
// reset the form so stale credentials do not linger in it.
func (g *Guard) Register(ctx context.Context, req models.RegisterRequest) (*RegisterResult, humane.Error) {
	checks := []error{
		ValidateUsername(req.Username),
		ValidatePassword(req.Password),
	}
	if req.AdminUsername != "" || req.AdminPassword != "" {
		checks = append(checks,
			ValidateUsername(req.AdminUsername),
			validatePasswordField("admin_password", req.AdminPassword),
		)
	}
	if herr := collectFieldErrors(checks...); herr != nil {
		g.notifier.Error(herr.Error())
		return nil, herr
	}

	release, herr := g.begin(ActionRegister)
	if herr != nil {
		return nil, herr
	}
	defer release()

	resp, status, herr := g.api.Register(ctx, req)
	if status == 0 {
		g.notifier.Error("Registration request failed. Please try again.")
		return nil, humane.Wrap(herr, "registration request did not reach the server",
			"Check your network connection and the server address",
		)
	}

	g.lockout.RecordOutcome(status, resp, string(ActionRegister))

	if status != 200 {
		msg := resp.Text("Registration failed")
		g.notifier.Error(g.withWait(msg))
		return nil, humane.New(msg, "Check the admin credentials and pick an unused username")
	}

	g.notifier.Success(resp.Text("User registered"))
	return &RegisterResult{Message: resp.Text("User registered"), ResetForm: true}, nil
}

// GenerateToken requests a one-time bearer token with the given expiry in
// hours. The token is shown exactly once and cannot be retrieved again.
func (g *Guard) GenerateToken(ctx context.Context, username, password, expireHours string) (*TokenResult, humane.Error) {
	if herr := collectFieldErrors(
		ValidateUsername(username),
		ValidatePassword(password),
		ValidateExpiry(expireHours),
	); herr != nil {
		g.notifier.Error(herr.Error())
		return nil, herr
	}

	release, herr := g.begin(ActionToken)
	if herr != nil {
		return nil, herr
	}
	defer release()

	resp, status, herr := g.api.GenerateToken(ctx, username, password, expireHours)
	if status == 0 {
		g.notifier.Error("Token request failed. Please try again.")
		return nil, humane.Wrap(herr, "token request did not reach the server",
			"Check your network connection and the server address",
		)
	}

	g.lockout.RecordOutcome(status, resp, string(ActionToken))

	if status != 200 || resp == nil || resp.Token() == "" {
		msg := resp.Text("Token generation failed")
		g.notifier.Error(g.withWait(msg))
		return nil, humane.New(msg, "Check your username and password")
	}

	g.notifier.Success(resp.Text("JWT Token successfully generated"))
	return &TokenResult{
		Token:   resp.Token(),
		Message: resp.Text("JWT Token successfully generated"),
	}, nil
}

// begin runs the lockout pre-check and claims the in-flight flag for the
// action. The returned release func must be called once the request settles.
func (g *Guard) begin(action Action) (func(), humane.Error) {
	if g.lockout.IsLockedOut() {
		msg := g.lockout.WaitMessage()
		g.notifier.Error(msg)
		return nil, humane.New("too many failed attempts",
			msg,
		)
	}

	flag := g.inFlight[action]
	if !flag.CompareAndSwap(false, true) {
		return nil, humane.New("a "+string(action)+" request is already in flight",
			"Wait for the current request to finish before submitting again",
		)
	}
	return func() { flag.Store(false) }, nil
}

// withWait appends the remaining-wait message when the response just put us
// into a lockout window, so the user sees the countdown start immediately.
func (g *Guard) withWait(msg string) string {
	if wait := g.lockout.WaitMessage(); wait != "" {
		return msg + ". " + wait
	}
	return msg
}
