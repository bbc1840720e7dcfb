package recycler

import "sync"
import "testing"
import "time"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func testConfig() Config {
	return Config{MaxCapacity: 256, LinkCapacity: 4}
}

func TestGetFreshWhenEmpty(t *testing.T) {
	r := NewRecycler(testConfig(), func() int { return 7 })
	l := r.Bind()
	defer l.Close()

	v, h, err := l.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	require.NotNil(t, h)
}

func TestRecycleThenGetReturnsSameValue(t *testing.T) {
	calls := 0
	r := NewRecycler(testConfig(), func() int { calls++; return calls })
	l := r.Bind()
	defer l.Close()

	v, h, err := l.Get()
	require.NoError(t, err)
	require.NoError(t, l.Recycle(v, h))

	v2, h2, err := l.Get()
	require.NoError(t, err)
	assert.Equal(t, v, v2)
	assert.Same(t, h, h2)
	assert.Equal(t, 1, calls)
}

func TestDoubleRecycleRejected(t *testing.T) {
	r := NewRecycler(testConfig(), func() int { return 0 })
	l := r.Bind()
	defer l.Close()

	v, h, err := l.Get()
	require.NoError(t, err)
	require.NoError(t, l.Recycle(v, h))
	assert.Equal(t, ErrDoubleRecycle, l.Recycle(v, h))
}

func TestAlienObjectRejected(t *testing.T) {
	r := NewRecycler(testConfig(), func() int { return 0 })
	l := r.Bind()
	defer l.Close()

	_, h, err := l.Get()
	require.NoError(t, err)
	assert.Equal(t, ErrAlienObject, l.Recycle(99, h))
}

func TestBelongsToOtherRejected(t *testing.T) {
	r := NewRecycler(testConfig(), func() int { return 0 })
	a := r.Bind()
	b := r.Bind()
	defer a.Close()
	defer b.Close()

	v, h, err := a.Get()
	require.NoError(t, err)
	assert.Equal(t, ErrBelongsToOther, b.recycle(v, h))
}

func TestMaxCapacityZeroDisablesPooling(t *testing.T) {
	calls := 0
	cfg := Config{MaxCapacity: 0, LinkCapacity: 4}
	r := NewRecycler(cfg, func() int { calls++; return calls })
	l := r.Bind()
	defer l.Close()

	v, h, err := l.Get()
	require.NoError(t, err)
	require.NoError(t, l.Recycle(v, h))

	_, _, err = l.Get()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCrossGoroutineRecycleSurfacesOnLaterGet(t *testing.T) {
	r := NewRecycler(testConfig(), func() int { return -1 })
	a := r.Bind()
	defer a.Close()

	v, h, err := a.Get()
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		b := r.Bind()
		defer b.Close()
		require.NoError(t, b.Recycle(v, h))
	}()
	wg.Wait()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		v2, h2, err := a.Get()
		require.NoError(t, err)
		if h2 == h {
			assert.Equal(t, v, v2)
			return
		}
		a.Recycle(v2, h2)
	}
	t.Fatal("recycled handle never surfaced on a later Get")
}

func TestForeignRecycleSurfacesOnNextGet(t *testing.T) {
	r := NewRecycler(testConfig(), func() int { return -1 })
	a := r.Bind()
	b := r.Bind()
	defer a.Close()
	defer b.Close()

	v, h, err := a.Get()
	require.NoError(t, err)
	require.NoError(t, a.recycleForeign(v, h, b))
	require.NotNil(t, a.queues)

	v2, h2, err := a.Get()
	require.NoError(t, err)
	assert.Same(t, h, h2)
	assert.Equal(t, v, v2)
}

func TestClosedProducerQueueDrained(t *testing.T) {
	r := NewRecycler(testConfig(), func() int { return -1 })
	a := r.Bind()
	b := r.Bind()
	defer a.Close()

	v, h, err := a.Get()
	require.NoError(t, err)
	require.NoError(t, a.recycleForeign(v, h, b))
	b.Close()

	a.scavenge()

	v2, h2, err := a.Get()
	require.NoError(t, err)
	assert.Equal(t, v, v2)
	assert.Same(t, h, h2)
}

func TestClosedLocalRejectsGetAndRecycle(t *testing.T) {
	r := NewRecycler(testConfig(), func() int { return 0 })
	l := r.Bind()

	v, h, err := l.Get()
	require.NoError(t, err)

	l.Close()

	_, _, err = l.Get()
	assert.Equal(t, ErrClosedLocal, err)
	assert.Equal(t, ErrClosedLocal, l.Recycle(v, h))
}
