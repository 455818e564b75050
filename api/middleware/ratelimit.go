package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/openalpha/farmd/metrics"
)

// RateLimiter is a token bucket limiter with a general per-IP bucket and a
// stricter per-IP bucket plus daily cap for state-changing requests
type RateLimiter struct {
	config *RateLimitConfig

	buckets   map[string]*Bucket
	bucketsMu sync.RWMutex

	txBuckets   map[string]*Bucket
	txBucketsMu sync.RWMutex

	dailyCounters   map[string]*DailyCounter
	dailyCountersMu sync.RWMutex

	cleanupTicker *time.Ticker
	stopCh        chan struct{}
	stopOnce      sync.Once
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	IPRequestsPerSecond int
	IPBurst             int
	// How long a bucket stays blocked after running dry
	IPBlockDuration time.Duration

	// Deposits, claims, withdrawals and admin calls
	TxPerSecond int
	TxBurst     int
	TxPerDay    int

	CleanupInterval time.Duration
	BucketTTL       time.Duration
}

// DefaultRateLimitConfig returns default configuration
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		IPRequestsPerSecond: 100,
		IPBurst:             200,
		IPBlockDuration:     time.Minute,

		TxPerSecond: 10,
		TxBurst:     20,
		TxPerDay:    10000,

		CleanupInterval: 5 * time.Minute,
		BucketTTL:       time.Hour,
	}
}

// Bucket is a token bucket
type Bucket struct {
	tokens       float64
	maxTokens    float64
	refillRate   float64 // tokens per second
	lastUpdate   time.Time
	blocked      bool
	blockedUntil time.Time
	mu           sync.Mutex
}

// DailyCounter tracks a per-day request count
type DailyCounter struct {
	count int
	limit int
	date  string
	mu    sync.Mutex
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	rl := &RateLimiter{
		config:        config,
		buckets:       make(map[string]*Bucket),
		txBuckets:     make(map[string]*Bucket),
		dailyCounters: make(map[string]*DailyCounter),
		cleanupTicker: time.NewTicker(config.CleanupInterval),
		stopCh:        make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
		rl.cleanupTicker.Stop()
	})
}

func (rl *RateLimiter) cleanupLoop() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	now := time.Now()
	threshold := now.Add(-rl.config.BucketTTL)

	prune := func(mu *sync.RWMutex, buckets map[string]*Bucket) {
		mu.Lock()
		defer mu.Unlock()
		for key, bucket := range buckets {
			bucket.mu.Lock()
			stale := bucket.lastUpdate.Before(threshold)
			bucket.mu.Unlock()
			if stale {
				delete(buckets, key)
			}
		}
	}
	prune(&rl.bucketsMu, rl.buckets)
	prune(&rl.txBucketsMu, rl.txBuckets)

	today := now.Format("2006-01-02")
	rl.dailyCountersMu.Lock()
	for key, counter := range rl.dailyCounters {
		if counter.date != today {
			delete(rl.dailyCounters, key)
		}
	}
	rl.dailyCountersMu.Unlock()
}

func getOrCreate(mu *sync.RWMutex, buckets map[string]*Bucket, key string, maxTokens, refillRate float64) *Bucket {
	mu.RLock()
	bucket, ok := buckets[key]
	mu.RUnlock()
	if ok {
		return bucket
	}

	mu.Lock()
	defer mu.Unlock()

	if bucket, ok := buckets[key]; ok {
		return bucket
	}
	bucket = &Bucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastUpdate: time.Now(),
	}
	buckets[key] = bucket
	return bucket
}

func (rl *RateLimiter) getDailyCounter(key string, limit int) *DailyCounter {
	today := time.Now().Format("2006-01-02")
	counterKey := key + ":" + today

	rl.dailyCountersMu.RLock()
	counter, ok := rl.dailyCounters[counterKey]
	rl.dailyCountersMu.RUnlock()
	if ok {
		return counter
	}

	rl.dailyCountersMu.Lock()
	defer rl.dailyCountersMu.Unlock()

	if counter, ok := rl.dailyCounters[counterKey]; ok {
		return counter
	}
	counter = &DailyCounter{limit: limit, date: today}
	rl.dailyCounters[counterKey] = counter
	return counter
}

// AllowIP checks the general per-IP bucket
func (rl *RateLimiter) AllowIP(ip string) (bool, *RateLimitInfo) {
	bucket := getOrCreate(&rl.bucketsMu, rl.buckets, "ip:"+ip,
		float64(rl.config.IPBurst), float64(rl.config.IPRequestsPerSecond))
	return rl.tryConsume(bucket, 1)
}

// AllowTx checks the transaction bucket and the daily cap for an IP
func (rl *RateLimiter) AllowTx(ip string) (bool, *RateLimitInfo) {
	bucket := getOrCreate(&rl.txBucketsMu, rl.txBuckets, "tx:"+ip,
		float64(rl.config.TxBurst), float64(rl.config.TxPerSecond))
	allowed, info := rl.tryConsume(bucket, 1)
	if !allowed {
		return false, info
	}

	counter := rl.getDailyCounter("tx:"+ip, rl.config.TxPerDay)
	counter.mu.Lock()
	defer counter.mu.Unlock()

	if counter.count >= counter.limit {
		return false, &RateLimitInfo{
			Allowed:    false,
			Remaining:  0,
			Limit:      counter.limit,
			RetryAfter: secondsUntilMidnight(),
			LimitType:  "daily",
		}
	}

	counter.count++
	return true, &RateLimitInfo{
		Allowed:   true,
		Remaining: counter.limit - counter.count,
		Limit:     counter.limit,
		LimitType: "daily",
	}
}

func (rl *RateLimiter) tryConsume(bucket *Bucket, tokens float64) (bool, *RateLimitInfo) {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	now := time.Now()

	if bucket.blocked && now.Before(bucket.blockedUntil) {
		return false, &RateLimitInfo{
			Allowed:    false,
			Remaining:  0,
			Limit:      int(bucket.maxTokens),
			RetryAfter: int(bucket.blockedUntil.Sub(now).Seconds()) + 1,
			LimitType:  "blocked",
		}
	}
	bucket.blocked = false

	elapsed := now.Sub(bucket.lastUpdate).Seconds()
	bucket.tokens += elapsed * bucket.refillRate
	if bucket.tokens > bucket.maxTokens {
		bucket.tokens = bucket.maxTokens
	}
	bucket.lastUpdate = now

	if bucket.tokens >= tokens {
		bucket.tokens -= tokens
		return true, &RateLimitInfo{
			Allowed:   true,
			Remaining: int(bucket.tokens),
			Limit:     int(bucket.maxTokens),
			LimitType: "rate",
		}
	}

	bucket.blocked = true
	bucket.blockedUntil = now.Add(rl.config.IPBlockDuration)

	retryAfter := 1
	if bucket.refillRate > 0 {
		retryAfter = int((tokens-bucket.tokens)/bucket.refillRate) + 1
	}
	return false, &RateLimitInfo{
		Allowed:    false,
		Remaining:  0,
		Limit:      int(bucket.maxTokens),
		RetryAfter: retryAfter,
		LimitType:  "rate",
	}
}

func secondsUntilMidnight() int {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return int(midnight.Sub(now).Seconds())
}

// RateLimitInfo contains rate limit information
type RateLimitInfo struct {
	Allowed    bool   `json:"allowed"`
	Remaining  int    `json:"remaining"`
	Limit      int    `json:"limit"`
	RetryAfter int    `json:"retry_after,omitempty"`
	LimitType  string `json:"limit_type"`
}

// ============ HTTP Middleware ============

func reject(w http.ResponseWriter, r *http.Request, info *RateLimitInfo, code, message string) {
	metrics.GetCollector().RecordRateLimitHit(RouteLabel(r))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(info.RetryAfter))
	}
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":       code,
		"message":     message,
		"retry_after": info.RetryAfter,
		"limit_type":  info.LimitType,
	})
}

// RateLimitMiddleware applies the per-IP limit to every request and the
// transaction limit to POSTs
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetClientIP(r)

			allowed, info := rl.AllowIP(ip)
			if !allowed {
				reject(w, r, info, "rate_limit_exceeded", "Too many requests, please slow down")
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))

			if r.Method == http.MethodPost {
				allowed, txInfo := rl.AllowTx(ip)
				if !allowed {
					reject(w, r, txInfo, "tx_limit_exceeded", "Transaction "+txInfo.LimitType+" limit exceeded")
					return
				}
				w.Header().Set("X-RateLimit-Tx-Remaining", strconv.Itoa(txInfo.Remaining))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetClientIP extracts the client IP, honouring proxy headers
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ============ Statistics ============

// Stats returns rate limiter statistics
type Stats struct {
	TotalBuckets   int `json:"total_buckets"`
	TxBuckets      int `json:"tx_buckets"`
	DailyCounters  int `json:"daily_counters"`
	BlockedBuckets int `json:"blocked_buckets"`
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() *Stats {
	now := time.Now()

	rl.bucketsMu.RLock()
	totalBuckets := len(rl.buckets)
	blockedCount := 0
	for _, b := range rl.buckets {
		b.mu.Lock()
		if b.blocked && now.Before(b.blockedUntil) {
			blockedCount++
		}
		b.mu.Unlock()
	}
	rl.bucketsMu.RUnlock()

	rl.txBucketsMu.RLock()
	txBuckets := len(rl.txBuckets)
	rl.txBucketsMu.RUnlock()

	rl.dailyCountersMu.RLock()
	dailyCounters := len(rl.dailyCounters)
	rl.dailyCountersMu.RUnlock()

	return &Stats{
		TotalBuckets:   totalBuckets,
		TxBuckets:      txBuckets,
		DailyCounters:  dailyCounters,
		BlockedBuckets: blockedCount,
	}
}
