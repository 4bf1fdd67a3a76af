package cache

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/resilience"
)

// GuardedStore routes Store calls through a circuit breaker so that a
// failing Redis costs searches nothing but a miss. Cache misses are not
// failures.
type GuardedStore struct {
	store   Store
	breaker *resilience.CircuitBreaker
}

// NewGuardedStore wraps st. m may be nil.
func NewGuardedStore(st Store, cfg config.BreakerConfig, m *metrics.Metrics) *GuardedStore {
	const name = "redis-cache"
	cbCfg := resilience.CircuitBreakerConfig{
		FailureThreshold: cfg.FailureThreshold,
		ResetTimeout:     cfg.ResetTimeout,
		IsFailure: func(err error) bool {
			return !pkgredis.IsNilError(err)
		},
	}
	if m != nil {
		m.CircuitBreakerState.WithLabelValues(name).Set(float64(resilience.StateClosed))
		cbCfg.OnStateChange = func(name string, _, to resilience.State) {
			m.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		}
	}
	return &GuardedStore{
		store:   st,
		breaker: resilience.NewCircuitBreaker(name, cbCfg),
	}
}

func (g *GuardedStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := g.breaker.Execute(func() error {
		var err error
		data, err = g.store.Get(ctx, key)
		return err
	})
	return data, err
}

func (g *GuardedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return g.breaker.Execute(func() error {
		return g.store.Set(ctx, key, value, ttl)
	})
}

func (g *GuardedStore) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	var n int64
	err := g.breaker.Execute(func() error {
		var err error
		n, err = g.store.FlushByPattern(ctx, pattern)
		return err
	})
	return n, err
}

// State reports the breaker state, for health checks.
func (g *GuardedStore) State() resilience.State {
	return g.breaker.State()
}
