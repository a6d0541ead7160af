package guard_test

import (
	"context"
	"sync"
	"testing"
	"time"

	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/stretchr/testify/require"

	"github.com/easelgate/easelgate/pkg/guard"
	"github.com/easelgate/easelgate/pkg/lockout"
	"github.com/easelgate/easelgate/pkg/models"
	"github.com/easelgate/easelgate/pkg/notify"
)

type fakeAPI struct {
	mu sync.Mutex

	loginCalls    int
	registerCalls int
	tokenCalls    int

	resp   *models.AuthResponse
	status int
	err    humane.Error

	// block holds every call until it is closed, to exercise the in-flight
	// exclusion.
	block chan struct{}
}

func (f *fakeAPI) Login(ctx context.Context, username, password string, guest bool) (*models.AuthResponse, int, humane.Error) {
	f.mu.Lock()
	f.loginCalls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.resp, f.status, f.err
}

func (f *fakeAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, int, humane.Error) {
	f.mu.Lock()
	f.registerCalls++
	f.mu.Unlock()
	return f.resp, f.status, f.err
}

func (f *fakeAPI) GenerateToken(ctx context.Context, username, password, expireHours string) (*models.AuthResponse, int, humane.Error) {
	f.mu.Lock()
	f.tokenCalls++
	f.mu.Unlock()
	return f.resp, f.status, f.err
}

func (f *fakeAPI) calls() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.registerCalls, f.tokenCalls
}

func newGuard(api *fakeAPI) (*guard.Guard, *lockout.Controller, *notify.Recorder) {
	ctrl := lockout.NewController(nil)
	rec := notify.NewRecorder()
	return guard.New(api, ctrl, rec), ctrl, rec
}

func TestLogin_ValidationFailureNeverReachesServer(t *testing.T) {
	api := &fakeAPI{}
	g, ctrl, rec := newGuard(api)

	_, herr := g.Login(context.Background(), "a b", "password1")
	require.NotNil(t, herr)

	logins, _, _ := api.calls()
	require.Equal(t, 0, logins)
	require.Equal(t, 0, ctrl.FailedCount())
	require.NotEmpty(t, rec.Messages())
}

func TestLogin_Success(t *testing.T) {
	api := &fakeAPI{
		resp:   &models.AuthResponse{Message: "Login successful", JwtToken: "jwt-abc"},
		status: 200,
	}
	g, ctrl, rec := newGuard(api)

	res, herr := g.Login(context.Background(), "ab_1", "passw0rd!")
	require.Nil(t, herr)
	require.Equal(t, "jwt-abc", res.Token)
	require.Equal(t, "Login successful", res.Message)
	require.Equal(t, 0, ctrl.FailedCount())

	notifications := rec.Notifications()
	require.Len(t, notifications, 1)
	require.Equal(t, notify.SeveritySuccess, notifications[0].Severity)
}

func TestLogin_FailureCountsAndSurfacesWait(t *testing.T) {
	api := &fakeAPI{
		resp:   &models.AuthResponse{Error: "Invalid credentials"},
		status: 403,
	}
	g, ctrl, rec := newGuard(api)

	for i := 0; i < 3; i++ {
		_, herr := g.Login(context.Background(), "ab_1", "passw0rd!")
		require.NotNil(t, herr)
	}

	require.Equal(t, 3, ctrl.FailedCount())
	require.True(t, ctrl.IsLockedOut())

	msgs := rec.Messages()
	require.Contains(t, msgs[len(msgs)-1], "Invalid credentials")
	require.Contains(t, msgs[len(msgs)-1], "Wait")
}

func TestLogin_LockoutPreCheckBlocksWithoutRequest(t *testing.T) {
	api := &fakeAPI{resp: &models.AuthResponse{Error: "nope"}, status: 403}
	g, ctrl, _ := newGuard(api)

	for i := 0; i < 3; i++ {
		_, _ = g.Login(context.Background(), "ab_1", "passw0rd!")
	}
	logins, _, _ := api.calls()
	require.Equal(t, 3, logins)

	_, herr := g.Login(context.Background(), "ab_1", "passw0rd!")
	require.NotNil(t, herr)

	logins, _, _ = api.calls()
	require.Equal(t, 3, logins, "locked-out submission must not reach the server")
	require.Equal(t, 3, ctrl.FailedCount())
}

func TestLogin_TransportFailureLeavesLockoutUntouched(t *testing.T) {
	api := &fakeAPI{
		status: 0,
		err:    humane.New("connection refused", "Check the server address"),
	}
	g, ctrl, rec := newGuard(api)

	_, herr := g.Login(context.Background(), "ab_1", "passw0rd!")
	require.NotNil(t, herr)
	require.Equal(t, 0, ctrl.FailedCount())
	require.False(t, ctrl.IsLockedOut())

	notifications := rec.Notifications()
	require.Len(t, notifications, 1)
	require.Equal(t, notify.SeverityError, notifications[0].Severity)
}

func TestLogin_InFlightExclusion(t *testing.T) {
	api := &fakeAPI{
		resp:   &models.AuthResponse{Message: "Login successful", JwtToken: "jwt"},
		status: 200,
		block:  make(chan struct{}),
	}
	g, _, _ := newGuard(api)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = g.Login(context.Background(), "ab_1", "passw0rd!")
	}()

	// Wait for the first request to be in flight.
	require.Eventually(t, func() bool {
		logins, _, _ := api.calls()
		return logins == 1
	}, time.Second, 5*time.Millisecond)

	_, herr := g.Login(context.Background(), "ab_1", "passw0rd!")
	require.NotNil(t, herr)
	require.Contains(t, herr.Error(), "already in flight")

	close(api.block)
	<-done

	// The flag is released once the first request settles.
	api.block = nil
	_, herr = g.Login(context.Background(), "ab_1", "passw0rd!")
	require.Nil(t, herr)
}

func TestGuestLogin_SkipsValidation(t *testing.T) {
	api := &fakeAPI{
		resp:   &models.AuthResponse{Message: "Guest login", JwtToken: "guest-jwt"},
		status: 200,
	}
	g, _, _ := newGuard(api)

	res, herr := g.GuestLogin(context.Background())
	require.Nil(t, herr)
	require.Equal(t, "guest-jwt", res.Token)
}

func TestGuestLogin_IndependentOfLoginInFlight(t *testing.T) {
	api := &fakeAPI{
		resp:   &models.AuthResponse{Message: "Guest login", JwtToken: "guest-jwt"},
		status: 200,
		block:  make(chan struct{}),
	}
	g, _, _ := newGuard(api)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = g.Login(context.Background(), "ab_1", "passw0rd!")
	}()
	require.Eventually(t, func() bool {
		logins, _, _ := api.calls()
		return logins == 1
	}, time.Second, 5*time.Millisecond)

	// Guest login uses its own flag, but shares the blocking fake transport,
	// so release the block and only then submit.
	close(api.block)
	<-done
	api.block = nil

	_, herr := g.GuestLogin(context.Background())
	require.Nil(t, herr)
}

func TestRegister_SuccessSignalsFormReset(t *testing.T) {
	api := &fakeAPI{
		resp:   &models.AuthResponse{Message: "User registered"},
		status: 200,
	}
	g, _, _ := newGuard(api)

	res, herr := g.Register(context.Background(), models.RegisterRequest{
		Username:      "new_user",
		Password:      "passw0rd!",
		AdminUsername: "root_admin",
		AdminPassword: "adm1n_s3cret!",
	})
	require.Nil(t, herr)
	require.True(t, res.ResetForm)
	require.Equal(t, "User registered", res.Message)
}

func TestRegister_AdminCredentialsValidatedOnlyWhenPresent(t *testing.T) {
	api := &fakeAPI{
		resp:   &models.AuthResponse{Message: "User registered"},
		status: 200,
	}
	g, _, _ := newGuard(api)

	// First-admin bootstrap: no admin credentials required.
	_, herr := g.Register(context.Background(), models.RegisterRequest{
		Username: "first_admin",
		Password: "passw0rd!",
	})
	require.Nil(t, herr)

	// Malformed admin credentials are rejected before any request.
	_, herr = g.Register(context.Background(), models.RegisterRequest{
		Username:      "new_user",
		Password:      "passw0rd!",
		AdminUsername: "a",
		AdminPassword: "short",
	})
	require.NotNil(t, herr)

	_, registers, _ := api.calls()
	require.Equal(t, 1, registers)
}

func TestGenerateToken_Success(t *testing.T) {
	api := &fakeAPI{
		resp: &models.AuthResponse{
			Message:  "JWT Token successfully generated",
			JwtToken: "one-time-jwt",
		},
		status: 200,
	}
	g, _, _ := newGuard(api)

	res, herr := g.GenerateToken(context.Background(), "ab_1", "passw0rd!", "24")
	require.Nil(t, herr)
	require.Equal(t, "one-time-jwt", res.Token)
}

func TestGenerateToken_ExpiryMustBeDigits(t *testing.T) {
	api := &fakeAPI{}
	g, ctrl, _ := newGuard(api)

	_, herr := g.GenerateToken(context.Background(), "ab_1", "passw0rd!", "24h")
	require.NotNil(t, herr)

	_, _, tokens := api.calls()
	require.Equal(t, 0, tokens)
	require.Equal(t, 0, ctrl.FailedCount())
}

func TestGenerateToken_ServerSyncDrivesLockout(t *testing.T) {
	attempts, remaining := 6, 90
	api := &fakeAPI{
		resp: &models.AuthResponse{
			Error:            "Too many failed attempts",
			FailedAttempts:   &attempts,
			RemainingSeconds: &remaining,
		},
		status: 403,
	}
	g, ctrl, _ := newGuard(api)

	_, herr := g.GenerateToken(context.Background(), "ab_1", "passw0rd!", "24")
	require.NotNil(t, herr)
	require.Equal(t, 6, ctrl.FailedCount())
	require.True(t, ctrl.IsLockedOut())
}
