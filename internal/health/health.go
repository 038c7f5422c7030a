package health

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

type Checker interface {
	Check(ctx context.Context) CheckResult
}

// ProbeRunner runs the registered checkers on demand, caching results for
// the configured interval so a scrape storm cannot hammer dependencies.
type ProbeRunner struct {
	interval time.Duration
	timeout  time.Duration
	checkers []Checker

	mu      sync.Mutex
	lastRun time.Time
	ready   bool
	results []CheckResult
}

func NewProbeRunner(interval, timeout time.Duration, checkers ...Checker) *ProbeRunner {
	return &ProbeRunner{interval: interval, timeout: timeout, checkers: checkers}
}

func (p *ProbeRunner) Ready(ctx context.Context) (bool, []CheckResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.interval > 0 && !p.lastRun.IsZero() && time.Since(p.lastRun) < p.interval {
		return p.ready, p.results
	}

	checkCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	ready := true
	results := make([]CheckResult, 0, len(p.checkers))
	for _, c := range p.checkers {
		res := c.Check(checkCtx)
		if !res.Healthy {
			ready = false
		}
		results = append(results, res)
	}

	p.lastRun = time.Now()
	p.ready = ready
	p.results = results
	return ready, results
}

type DatabaseChecker struct {
	DB *gorm.DB
}

func (c DatabaseChecker) Check(ctx context.Context) CheckResult {
	result := CheckResult{Name: "database"}
	if c.DB == nil {
		result.Error = "database not configured"
		return result
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Healthy = true
	return result
}

type RedisChecker struct {
	Client redis.UniversalClient
}

func (c RedisChecker) Check(ctx context.Context) CheckResult {
	result := CheckResult{Name: "redis"}
	if c.Client == nil {
		result.Error = "redis not configured"
		return result
	}
	if err := c.Client.Ping(ctx).Err(); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Healthy = true
	return result
}
