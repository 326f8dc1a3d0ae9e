package auth

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gates reported by the decision counter.
const (
	GateAdmin           = "admin"
	GateMenu            = "menu"
	GateRolePermissions = "role_permissions"
)

var (
	decisions     *prometheus.CounterVec //nolint:gochecknoglobals
	decisionsOnce sync.Once              //nolint:gochecknoglobals
)

// record counts one authorization decision and returns allowed.
func record(gate string, allowed bool) bool {
	decisionsOnce.Do(func() {
		decisions = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "jesite_authorization_decisions_total",
			Help: "Authorization decisions by gate and outcome.",
		}, []string{"gate", "decision"})
	})

	decision := "deny"
	if allowed {
		decision = "allow"
	}

	decisions.WithLabelValues(gate, decision).Inc()

	return allowed
}
