package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registration outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeValidation    = "validation"
	OutcomeProviderError = "provider_error"
	OutcomeMissingSub    = "missing_sub"
	OutcomeGuardRejected = "guard_rejected"
	OutcomeAlreadyExists = "already_exists"
	OutcomeStoreError    = "store_error"
)

// Collision kinds.
const (
	CollisionActivationCode = "activation_code"
	CollisionID             = "id"
)

// Recorder is used by the usecases to report registration activity.
type Recorder interface {
	RecordRegistration(outcome string)
	RecordCollision(kind string)
	RecordReconciliation(scanned, orphans, deleted int)
}

// Collector records metrics in Prometheus.
type Collector struct {
	registrations  *prometheus.CounterVec
	collisions     *prometheus.CounterVec
	scanned        prometheus.Counter
	orphansFound   prometheus.Counter
	orphansDeleted prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_attempts_total",
			Help: "Registration attempts by outcome.",
		}, []string{"outcome"}),
		collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_collisions_total",
			Help: "Collisions detected before profile insert, by kind.",
		}, []string{"kind"}),
		scanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconcile_identities_scanned_total",
			Help: "Identities inspected by reconciliation runs.",
		}),
		orphansFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconcile_orphans_found_total",
			Help: "Identities found without a linked profile.",
		}),
		orphansDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconcile_orphans_deleted_total",
			Help: "Orphan identities deleted from the identity provider.",
		}),
	}

	reg.MustRegister(
		c.registrations,
		c.collisions,
		c.scanned,
		c.orphansFound,
		c.orphansDeleted,
	)

	return c
}

func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordCollision(kind string) {
	c.collisions.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordReconciliation(scanned, orphans, deleted int) {
	c.scanned.Add(float64(scanned))
	c.orphansFound.Add(float64(orphans))
	c.orphansDeleted.Add(float64(deleted))
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRegistration(string)          {}
func (Nop) RecordCollision(string)             {}
func (Nop) RecordReconciliation(int, int, int) {}
