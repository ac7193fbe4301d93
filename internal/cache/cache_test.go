package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrComputeCachesWithinTTL(t *testing.T) {
	c := NewWithClock(clock.NewFake())

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return "payload", nil
	}

	v1, err := c.GetOrCompute("key", time.Hour, compute)
	require.NoError(t, err)
	v2, err := c.GetOrCompute("key", time.Hour, compute)
	require.NoError(t, err)

	assert.Equal(t, "payload", v1)
	assert.Equal(t, "payload", v2)
	assert.Equal(t, 1, calls, "second call within TTL must not recompute")
}

func TestGetOrComputeExpiry(t *testing.T) {
	clk := clock.NewFake()
	c := NewWithClock(clk)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	v, err := c.GetOrCompute("key", time.Hour, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Just before expiry the entry is still served.
	clk.Add(59 * time.Minute)
	v, err = c.GetOrCompute("key", time.Hour, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// At expiry the entry is treated as absent and regenerated.
	clk.Add(time.Minute)
	v, err = c.GetOrCompute("key", time.Hour, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}

func TestGetOrComputeNeverCachesFailures(t *testing.T) {
	c := NewWithClock(clock.NewFake())

	calls := 0
	boom := errors.New("boom")
	failing := func() (interface{}, error) {
		calls++
		return nil, boom
	}

	_, err := c.GetOrCompute("key", time.Hour, failing)
	assert.ErrorIs(t, err, boom)

	// The next call retries from scratch and can succeed.
	v, err := c.GetOrCompute("key", time.Hour, func() (interface{}, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeSingleFlight(t *testing.T) {
	c := NewWithClock(clock.NewFake())

	var calls int32
	gate := make(chan struct{})
	slow := func() (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return "shared", nil
	}

	const waiters = 8
	var wg sync.WaitGroup
	results := make([]interface{}, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCompute("key", time.Hour, slow)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Let the goroutines pile up behind the one in-flight computation.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent callers of one key must share a single computation")
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestDifferentKeysAreIndependent(t *testing.T) {
	c := NewWithClock(clock.NewFake())

	a, err := c.GetOrCompute("a", time.Hour, func() (interface{}, error) { return 1, nil })
	require.NoError(t, err)
	b, err := c.GetOrCompute("b", time.Hour, func() (interface{}, error) { return 2, nil })
	require.NoError(t, err)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 2, c.Len())
}

func TestInvalidate(t *testing.T) {
	c := NewWithClock(clock.NewFake())

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := c.GetOrCompute("key", time.Hour, compute)
	require.NoError(t, err)
	c.Invalidate("key")
	v, err := c.GetOrCompute("key", time.Hour, compute)
	require.NoError(t, err)

	assert.Equal(t, 2, v)
}
