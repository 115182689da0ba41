package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты обновления категории (значение метки result).
const (
	resultOK            = "ok"
	resultProviderError = "provider_error"
	resultStorageError  = "storage_error"
)

// Metrics — метрики кэша рецептов.
// Nil-значение допустимо: все методы становятся no-op.
type Metrics struct {
	refreshes       *prometheus.CounterVec
	refreshDuration *prometheus.HistogramVec
	cycles          *prometheus.CounterVec
	cached          *prometheus.GaugeVec
	lastAttempt     prometheus.Gauge
	toggles         *prometheus.CounterVec
	favorites       prometheus.Gauge
}

// NewMetrics регистрирует метрики в reg (nil — prometheus.DefaultRegisterer).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipe_cache",
			Name:      "category_refresh_total",
			Help:      "Category refresh attempts by result.",
		}, []string{"category", "result"}),
		refreshDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "recipe_cache",
			Name:      "category_refresh_duration_seconds",
			Help:      "Duration of a single category refresh.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"category"}),
		cycles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipe_cache",
			Name:      "refresh_cycles_total",
			Help:      "Refresh cycles by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		cached: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "recipe_cache",
			Name:      "cached_items",
			Help:      "Items currently served per category.",
		}, []string{"category"}),
		lastAttempt: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "recipe_cache",
			Name:      "last_refresh_attempt_timestamp_seconds",
			Help:      "Unix time of the last recorded refresh attempt.",
		}),
		toggles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipe_cache",
			Name:      "favorite_toggles_total",
			Help:      "Favorite toggles by resulting state.",
		}, []string{"state"}),
		favorites: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "recipe_cache",
			Name:      "favorites",
			Help:      "Number of marked recipes.",
		}),
	}
}

func (m *Metrics) observeRefresh(category, result string, took time.Duration) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(category, result).Inc()
	m.refreshDuration.WithLabelValues(category).Observe(took.Seconds())
}

func (m *Metrics) observeCycle(trigger string, allFailed bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if allFailed {
		outcome = "unavailable"
	}
	m.cycles.WithLabelValues(trigger, outcome).Inc()
}

func (m *Metrics) setCached(category string, n int) {
	if m == nil {
		return
	}
	m.cached.WithLabelValues(category).Set(float64(n))
}

func (m *Metrics) setLastAttempt(t time.Time) {
	if m == nil {
		return
	}
	m.lastAttempt.Set(float64(t.Unix()))
}

func (m *Metrics) observeToggle(marked bool, total int) {
	if m == nil {
		return
	}
	state := "unmarked"
	if marked {
		state = "marked"
	}
	m.toggles.WithLabelValues(state).Inc()
	m.favorites.Set(float64(total))
}

func (m *Metrics) setFavorites(total int) {
	if m == nil {
		return
	}
	m.favorites.Set(float64(total))
}
