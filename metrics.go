package checkout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Jaysins/ohship-tenant-sub001/models/enum"
)

const (
	outcomeEntered      = "entered"
	outcomeRedirected   = "redirected"
	outcomeInvalid      = "invalid"
	outcomeNoQuotes     = "no_quotes"
	outcomeReselected   = "reselected"
	outcomePriceChanged = "price_changed"
	outcomeStale        = "stale"
	outcomeFailed       = "failed"
)

var wizardTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ohship_checkout_transitions_total",
	Help: "Checkout wizard transitions by step and outcome",
}, []string{"step", "outcome"})

func observe(step enum.Step, outcome string) {
	wizardTransitions.WithLabelValues(string(step), outcome).Inc()
}
