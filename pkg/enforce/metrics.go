package enforce

import (
	"github.com/prometheus/client_golang/prometheus"
)

// enforcementTicks tracks enforcement passes by effective role and outcome.
var enforcementTicks = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "easelgate_enforcement_ticks_total",
		Help: "Total number of enforcement passes by role and outcome",
	},
	[]string{
		"role",
		"outcome", // applied, noop, deferred, error
	},
)

// stepErrors tracks failures of individual enforcement steps.
var stepErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "easelgate_enforcement_step_errors_total",
		Help: "Total number of enforcement step failures by step",
	},
	[]string{
		"step",
	},
)

// suppressedRules reports the size of the currently installed rule-set.
var suppressedRules = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "easelgate_suppressed_rules",
		Help: "Number of suppression rules in the installed rule-set",
	},
)

func init() {
	prometheus.MustRegister(enforcementTicks, stepErrors, suppressedRules)
}
