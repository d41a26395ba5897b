package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics tracks distribution engine activity. Unallocated remainder is
// exported so split leakage is visible without querying the reconciliation
// endpoint.
type EngineMetrics struct {
	purchasesTotal    *prometheus.CounterVec
	purchaseVolume    *prometheus.CounterVec
	commissionsPaid   *prometheus.CounterVec
	unallocatedTotal  prometheus.Counter
	burnedTotal       prometheus.Counter
	territoryAccrued  prometheus.Counter
	territoryClaims   prometheus.Counter
	fulfillmentsTotal prometheus.Counter
}

var (
	engineOnce     sync.Once
	engineRegistry *EngineMetrics
)

func Engine() *EngineMetrics {
	engineOnce.Do(func() {
		engineRegistry = &EngineMetrics{
			purchasesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "engine_purchases_total",
				Help: "Count of settled purchases by payment asset.",
			}, []string{"asset"}),
			purchaseVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "engine_purchase_volume_total",
				Help: "Gross purchase volume in smallest units by payment asset.",
			}, []string{"asset"}),
			commissionsPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "engine_commissions_paid_total",
				Help: "Commission amounts paid out by bucket.",
			}, []string{"bucket"}),
			unallocatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "engine_unallocated_total",
				Help: "Cumulative revenue left unallocated after distribution.",
			}),
			burnedTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "engine_burned_total",
				Help: "Cumulative token amount burned across all purchases.",
			}),
			territoryAccrued: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "engine_territory_accrued_total",
				Help: "Cumulative amounts credited into territory pools.",
			}),
			territoryClaims: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "engine_territory_claims_total",
				Help: "Count of territory pool claims.",
			}),
			fulfillmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "engine_fulfillments_total",
				Help: "Count of purchase fulfillments.",
			}),
		}
		prometheus.MustRegister(
			engineRegistry.purchasesTotal,
			engineRegistry.purchaseVolume,
			engineRegistry.commissionsPaid,
			engineRegistry.unallocatedTotal,
			engineRegistry.burnedTotal,
			engineRegistry.territoryAccrued,
			engineRegistry.territoryClaims,
			engineRegistry.fulfillmentsTotal,
		)
	})
	return engineRegistry
}

func (m *EngineMetrics) ObservePurchase(asset string, amount int64) {
	if m == nil {
		return
	}
	if asset == "" {
		asset = "unknown"
	}
	m.purchasesTotal.WithLabelValues(asset).Inc()
	m.purchaseVolume.WithLabelValues(asset).Add(float64(amount))
}

func (m *EngineMetrics) ObserveCommission(bucket string, amount int64) {
	if m == nil {
		return
	}
	if bucket == "" {
		bucket = "unknown"
	}
	m.commissionsPaid.WithLabelValues(bucket).Add(float64(amount))
}

func (m *EngineMetrics) ObserveUnallocated(amount int64) {
	if m == nil {
		return
	}
	m.unallocatedTotal.Add(float64(amount))
}

func (m *EngineMetrics) ObserveBurned(amount int64) {
	if m == nil {
		return
	}
	m.burnedTotal.Add(float64(amount))
}

func (m *EngineMetrics) ObserveTerritoryAccrual(amount int64) {
	if m == nil {
		return
	}
	m.territoryAccrued.Add(float64(amount))
}

func (m *EngineMetrics) IncTerritoryClaim() {
	if m == nil {
		return
	}
	m.territoryClaims.Inc()
}

func (m *EngineMetrics) IncFulfillment() {
	if m == nil {
		return
	}
	m.fulfillmentsTotal.Inc()
}
