package pool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type counter struct {
	n     int
	reset int
}

func (c *counter) Reset() {
	c.n = 0
	c.reset++
}

func newCounterPool(size int) *Pool[*counter] {
	return New(size, func() (*counter, error) { return &counter{}, nil })
}

func TestPool_BorrowReturn(t *testing.T) {
	p := newCounterPool(2)
	ctx := context.Background()

	a, err := p.Borrow(ctx)
	require.NoError(t, err)
	a.n = 5

	p.Return(a)
	assert.Equal(t, 0, a.n)
	assert.Equal(t, 1, a.reset)

	b, err := p.Borrow(ctx)
	require.NoError(t, err)
	assert.Same(t, a, b)
	p.Return(b)

	st := p.Stats()
	assert.Equal(t, 2, st.Size)
	assert.Equal(t, int64(1), st.Created)
	assert.Equal(t, int64(2), st.Borrows)
	assert.Zero(t, st.InUse)
}

func TestPool_Blocks(t *testing.T) {
	p := newCounterPool(1)
	ctx := context.Background()

	a, err := p.Borrow(ctx)
	require.NoError(t, err)

	tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = p.Borrow(tctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	done := make(chan *counter)
	go func() {
		b, err := p.Borrow(ctx)
		assert.NoError(t, err)
		done <- b
	}()

	p.Return(a)
	b := <-done
	assert.Same(t, a, b)
	p.Return(b)
	assert.GreaterOrEqual(t, p.Stats().Waits, int64(1))
}

func TestPool_Concurrent(t *testing.T) {
	p := newCounterPool(4)
	ctx := context.Background()

	var maxInUse sync.Mutex
	peak := int64(0)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c, err := p.Borrow(ctx)
				if !assert.NoError(t, err) {
					return
				}
				maxInUse.Lock()
				if n := p.Stats().InUse; n > peak {
					peak = n
				}
				maxInUse.Unlock()
				c.n++
				p.Return(c)
			}
		}()
	}
	wg.Wait()

	st := p.Stats()
	assert.LessOrEqual(t, st.Created, int64(4))
	assert.LessOrEqual(t, peak, int64(4))
	assert.Equal(t, int64(3200), st.Borrows)
	assert.Zero(t, st.InUse)
}

func TestPool_NewError(t *testing.T) {
	boom := errors.New("boom")
	p := New(1, func() (*counter, error) { return nil, boom })

	_, err := p.Borrow(context.Background())
	assert.ErrorIs(t, err, boom)

	// The slot was released.
	_, err = p.Borrow(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, p.Stats().InUse)
}

func TestPool_Close(t *testing.T) {
	p := newCounterPool(2)
	ctx := context.Background()

	a, err := p.Borrow(ctx)
	require.NoError(t, err)
	p.Close()
	p.Return(a)

	_, err = p.Borrow(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}
