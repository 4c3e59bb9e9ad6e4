package monitoring

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partner_ticket_validations_total",
			Help: "Ticket scans by validation outcome",
		},
		[]string{"reason"},
	)

	redemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partner_ticket_redemptions_total",
			Help: "Redemption attempts by result",
		},
		[]string{"result"},
	)

	redemptionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "partner_ticket_redemption_duration_seconds",
			Help:    "Time spent recording a redemption",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)

	csvExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partner_csv_exports_total",
			Help: "CSV downloads by report",
		},
		[]string{"report"},
	)

	realtimePublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partner_realtime_publishes_total",
			Help: "Notification fan-out attempts by transport and result",
		},
		[]string{"transport", "result"},
	)

	rateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partner_rate_limited_total",
			Help: "Requests refused by the scan rate limiter or bot filter",
		},
		[]string{"reason"},
	)

	cachedSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "partner_cached_sessions",
			Help: "Partner sessions currently cached in Redis",
		},
	)
)

// SessionCounter reports how many partner sessions are currently cached.
type SessionCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

type Monitor struct {
	sessions SessionCounter
	interval time.Duration
}

func NewMonitor(sessions SessionCounter, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{sessions: sessions, interval: interval}
}

// Run collects gauges until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.collect(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collect(ctx)
		}
	}
}

func (m *Monitor) collect(ctx context.Context) {
	count, err := m.sessions.CountActive(ctx)
	if err != nil {
		slog.Warn("m.sessions.CountActive()", "error", err)
		return
	}
	cachedSessions.Set(float64(count))
}

func TrackValidation(reason string) {
	ticketValidations.WithLabelValues(reason).Inc()
}

func TrackRedemption(result string, duration time.Duration) {
	redemptions.WithLabelValues(result).Inc()
	redemptionDuration.Observe(duration.Seconds())
}

func TrackExport(report string) {
	csvExports.WithLabelValues(report).Inc()
}

func TrackPublish(transport, result string) {
	realtimePublishes.WithLabelValues(transport, result).Inc()
}

func TrackRateLimited(reason string) {
	rateLimited.WithLabelValues(reason).Inc()
}
