// Package metrics exposes Prometheus collectors for the Zakat service.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mtlprog/zakat/internal/domain"
	"github.com/mtlprog/zakat/internal/pricefeed"
)

const namespace = "zakat"

var sources = []pricefeed.Source{
	pricefeed.SourceLive,
	pricefeed.SourceCache,
	pricefeed.SourceStale,
	pricefeed.SourceStored,
	pricefeed.SourceDefault,
}

// Collector groups the service metrics. It implements pricefeed.Observer.
type Collector struct {
	declarations *prometheus.CounterVec
	combined     *prometheus.CounterVec
	feedFetches  *prometheus.CounterVec
	priceSource  *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		declarations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "declarations_total",
			Help:      "Ledger declarations by asset kind and outcome.",
		}, []string{"kind", "outcome"}),
		combined: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "combined",
			Name:      "computations_total",
			Help:      "Combined-asset computations by aggregate eligibility.",
		}, []string{"eligible"}),
		feedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricefeed",
			Name:      "fetches_total",
			Help:      "Price feed fetch attempts by result.",
		}, []string{"result"}),
		priceSource: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pricefeed",
			Name:      "source",
			Help:      "1 for the source of the most recently served price table, 0 otherwise.",
		}, []string{"source"}),
	}
	reg.MustRegister(c.declarations, c.combined, c.feedFetches, c.priceSource)
	return c
}

// DeclarationProcessed counts a ledger declaration by its outcome.
func (c *Collector) DeclarationProcessed(kind domain.Kind, err error) {
	c.declarations.WithLabelValues(string(kind), outcome(err)).Inc()
}

// CombinedComputed counts a combined computation.
func (c *Collector) CombinedComputed(eligible bool) {
	label := "false"
	if eligible {
		label = "true"
	}
	c.combined.WithLabelValues(label).Inc()
}

// FeedFetched implements pricefeed.Observer.
func (c *Collector) FeedFetched(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.feedFetches.WithLabelValues(result).Inc()
}

// SourceServed implements pricefeed.Observer.
func (c *Collector) SourceServed(source pricefeed.Source) {
	for _, s := range sources {
		v := 0.0
		if s == source {
			v = 1
		}
		c.priceSource.WithLabelValues(string(s)).Set(v)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "admitted"
	case errors.Is(err, domain.ErrBelowNisab):
		return "below_nisab"
	case errors.Is(err, domain.ErrUnsupportedCrossCurrency):
		return "cross_currency"
	case errors.Is(err, domain.ErrCurrencyNotFound):
		return "currency_not_found"
	default:
		return "error"
	}
}
