package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Farm metrics collector, shared by the chain and the API server

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all farm metrics
type Collector struct {
	// Operation metrics
	OperationsTotal *prometheus.CounterVec

	// Staking metrics
	DepositsTotal    *prometheus.CounterVec
	DepositVolume    *prometheus.CounterVec
	WithdrawalsTotal *prometheus.CounterVec
	WithdrawalVolume *prometheus.CounterVec
	RewardsPaid      *prometheus.CounterVec

	// Pool metrics
	PoolTotalStaked  *prometheus.GaugeVec
	PoolRewardWeight *prometheus.GaugeVec
	Paused           prometheus.Gauge

	// WebSocket metrics
	WSConnectionsActive *prometheus.GaugeVec
	WSMessagesTotal     *prometheus.CounterVec
	WSMessageLatency    *prometheus.HistogramVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	APIErrorsTotal    *prometheus.CounterVec
	RateLimitHits     *prometheus.CounterVec

	// System metrics
	BlockHeight prometheus.Gauge
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	c.OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmd",
			Subsystem: "farming",
			Name:      "operations_total",
			Help:      "Farming operations by type and result",
		},
		[]string{"operation", "result"},
	)

	c.DepositsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmd",
			Subsystem: "staking",
			Name:      "deposits_total",
			Help:      "Number of successful deposits",
		},
		[]string{"pool_id"},
	)

	c.DepositVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmd",
			Subsystem: "staking",
			Name:      "deposit_volume",
			Help:      "Stake token amount deposited",
		},
		[]string{"pool_id"},
	)

	c.WithdrawalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmd",
			Subsystem: "staking",
			Name:      "withdrawals_total",
			Help:      "Number of successful withdrawals",
		},
		[]string{"pool_id"},
	)

	c.WithdrawalVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmd",
			Subsystem: "staking",
			Name:      "withdrawal_volume",
			Help:      "Stake token amount withdrawn",
		},
		[]string{"pool_id"},
	)

	c.RewardsPaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmd",
			Subsystem: "rewards",
			Name:      "paid",
			Help:      "Reward token amount paid out",
		},
		[]string{"pool_id"},
	)

	c.PoolTotalStaked = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "farmd",
			Subsystem: "pool",
			Name:      "total_staked",
			Help:      "Principal currently staked in a pool",
		},
		[]string{"pool_id", "stake_token"},
	)

	c.PoolRewardWeight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "farmd",
			Subsystem: "pool",
			Name:      "reward_weight",
			Help:      "Configured reward weight of a pool",
		},
		[]string{"pool_id"},
	)

	c.Paused = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "farmd",
			Subsystem: "farming",
			Name:      "paused",
			Help:      "1 while economic operations are paused",
		},
	)

	// WebSocket metrics
	c.WSConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "farmd",
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
		[]string{},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmd",
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Total WebSocket messages sent",
		},
		[]string{"channel"},
	)

	c.WSMessageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "farmd",
			Subsystem: "websocket",
			Name:      "message_latency_ms",
			Help:      "WebSocket message delivery latency",
			Buckets:   []float64{1, 5, 10, 25, 50, 100},
		},
		[]string{"channel"},
	)

	// API metrics
	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmd",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "farmd",
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)

	c.APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmd",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total API errors",
		},
		[]string{"method", "path"},
	)

	c.RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmd",
			Subsystem: "api",
			Name:      "rate_limit_hits",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "farmd",
			Subsystem: "chain",
			Name:      "block_height",
			Help:      "Last processed block height",
		},
	)

	c.registerAll()
	return c
}

func (c *Collector) registerAll() {
	prometheus.MustRegister(c.OperationsTotal)

	prometheus.MustRegister(c.DepositsTotal)
	prometheus.MustRegister(c.DepositVolume)
	prometheus.MustRegister(c.WithdrawalsTotal)
	prometheus.MustRegister(c.WithdrawalVolume)
	prometheus.MustRegister(c.RewardsPaid)

	prometheus.MustRegister(c.PoolTotalStaked)
	prometheus.MustRegister(c.PoolRewardWeight)
	prometheus.MustRegister(c.Paused)

	prometheus.MustRegister(c.WSConnectionsActive)
	prometheus.MustRegister(c.WSMessagesTotal)
	prometheus.MustRegister(c.WSMessageLatency)

	prometheus.MustRegister(c.APIRequestsTotal)
	prometheus.MustRegister(c.APIRequestLatency)
	prometheus.MustRegister(c.APIErrorsTotal)
	prometheus.MustRegister(c.RateLimitHits)

	prometheus.MustRegister(c.BlockHeight)
}

func amountFloat(amount math.Int) float64 {
	if amount.IsNil() {
		return 0
	}
	return amount.ToLegacyDec().MustFloat64()
}

func poolLabel(poolID uint64) string {
	return strconv.FormatUint(poolID, 10)
}

// RecordOperation records the outcome of a farming operation
func (c *Collector) RecordOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.OperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordDeposit records a successful deposit
func (c *Collector) RecordDeposit(poolID uint64, amount math.Int) {
	c.DepositsTotal.WithLabelValues(poolLabel(poolID)).Inc()
	c.DepositVolume.WithLabelValues(poolLabel(poolID)).Add(amountFloat(amount))
}

// RecordWithdrawal records a successful withdrawal
func (c *Collector) RecordWithdrawal(poolID uint64, amount math.Int) {
	c.WithdrawalsTotal.WithLabelValues(poolLabel(poolID)).Inc()
	c.WithdrawalVolume.WithLabelValues(poolLabel(poolID)).Add(amountFloat(amount))
}

// RecordRewardPaid records reward paid out of a pool
func (c *Collector) RecordRewardPaid(poolID uint64, amount math.Int) {
	if amount.IsNil() || !amount.IsPositive() {
		return
	}
	c.RewardsPaid.WithLabelValues(poolLabel(poolID)).Add(amountFloat(amount))
}

// RecordPoolState records the current state of a pool
func (c *Collector) RecordPoolState(poolID uint64, stakeToken string, totalStaked math.Int, weight uint64) {
	c.PoolTotalStaked.WithLabelValues(poolLabel(poolID), stakeToken).Set(amountFloat(totalStaked))
	c.PoolRewardWeight.WithLabelValues(poolLabel(poolID)).Set(float64(weight))
}

// RecordPaused records the pause flag
func (c *Collector) RecordPaused(paused bool) {
	if paused {
		c.Paused.Set(1)
		return
	}
	c.Paused.Set(0)
}

// RecordAPIRequest records API request metrics
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		c.APIErrorsTotal.WithLabelValues(method, path).Inc()
	}
}

// RecordRateLimitHit records a rejected request
func (c *Collector) RecordRateLimitHit(path string) {
	c.RateLimitHits.WithLabelValues(path).Inc()
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.WithLabelValues().Add(float64(delta))
}

// RecordWSMessage records WebSocket message metrics
func (c *Collector) RecordWSMessage(channel string, latencyMs float64) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
	c.WSMessageLatency.WithLabelValues(channel).Observe(latencyMs)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
