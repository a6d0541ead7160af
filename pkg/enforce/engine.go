package enforce

import (
	"context"
	"math/rand"
	"time"

	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.uber.org/zap"

	"github.com/easelgate/easelgate/pkg/policy"
	"github.com/easelgate/easelgate/pkg/surface"
)

// Engine runs the enforcement steps against the host UI on a jittered
// ticker for the lifetime of its context.
type Engine struct {
	store    *policy.Store
	provider surface.Provider
	applier  surface.Applier

	interval time.Duration
	jitter   time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval overrides the default 1s tick period.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithJitter adds up to d of random delay to each tick so many agents
// pointed at one editor do not align their fetches.
func WithJitter(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.jitter = d
		}
	}
}

// NewEngine creates an Engine over the given policy store and UI bridge.
func NewEngine(store *policy.Store, provider surface.Provider, applier surface.Applier, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		provider: provider,
		applier:  applier,
		interval: time.Second,
		jitter:   100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run ticks immediately, then on the configured interval until ctx is
// cancelled. A failed tick never stops the loop.
func (e *Engine) Run(ctx context.Context) {
	e.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(e.nextDelay()):
			e.Tick(ctx)
		}
	}
}

func (e *Engine) nextDelay() time.Duration {
	if e.jitter <= 0 {
		return e.interval
	}
	return e.interval + time.Duration(rand.Int63n(int64(e.jitter)))
}

type stepFunc struct {
	name string
	run  func(policy.Map, policy.Role, *surface.Snapshot) surface.Diff
}

var steps = []stepFunc{
	{"ruleset", RuleSetStep},
	{"settings", SettingsStep},
	{"menus", MenuStep},
	{"dialogs", DialogStep},
}

// Tick runs one enforcement pass. Each step is isolated: a panic or error in
// one is logged and counted without aborting the others or the next tick.
func (e *Engine) Tick(ctx context.Context) {
	user := e.store.CurrentUser(ctx)
	pm := e.store.PolicyMap(ctx)
	if user == nil && pm == nil {
		// Nothing has ever been fetched; enforcement is deferred until the
		// store resolves for the first time.
		enforcementTicks.WithLabelValues(string(policy.RoleGuest), "deferred").Inc()
		return
	}

	role := e.store.EffectiveRole(ctx)

	snap, err := e.provider.Snapshot()
	if err != nil {
		otelzap.L().WithError(err).ErrorContext(ctx, "failed to snapshot host UI")
		enforcementTicks.WithLabelValues(string(role), "error").Inc()
		return
	}

	var diff surface.Diff
	if role == policy.RoleAdmin {
		diff = ClearStep(snap)
	} else {
		for _, step := range steps {
			diff.Merge(e.runStep(ctx, step, pm, role, snap))
		}
	}

	if diff.Empty() {
		enforcementTicks.WithLabelValues(string(role), "noop").Inc()
		return
	}

	if err := e.applier.Apply(diff); err != nil {
		otelzap.L().WithError(err).ErrorContext(ctx, "failed to apply enforcement diff")
		enforcementTicks.WithLabelValues(string(role), "error").Inc()
		return
	}

	if diff.ReplaceRuleSet != nil {
		suppressedRules.Set(float64(diff.ReplaceRuleSet.Len()))
	}
	enforcementTicks.WithLabelValues(string(role), "applied").Inc()
}

func (e *Engine) runStep(ctx context.Context, step stepFunc, pm policy.Map, role policy.Role, snap *surface.Snapshot) (diff surface.Diff) {
	defer func() {
		if r := recover(); r != nil {
			stepErrors.WithLabelValues(step.name).Inc()
			otelzap.L().ErrorContext(ctx, "enforcement step panicked",
				zap.String("step", step.name),
				zap.Any("panic", r),
			)
			diff = surface.Diff{}
		}
	}()

	return step.run(pm, role, snap)
}
