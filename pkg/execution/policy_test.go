package execution

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialRunsInOrder(t *testing.T) {
	var order []int
	Sequential.ForEach(5, func(i int) {
		order = append(order, i)
	})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.False(t, Sequential.IsParallel())
	assert.Equal(t, "sequential", Sequential.String())
	assert.Equal(t, 1, Sequential.Workers())
}

func TestParallelRunsEveryUnit(t *testing.T) {
	p := WithWorkers(4)
	assert.True(t, p.IsParallel())
	assert.Equal(t, "parallel", p.String())

	seen := make([]atomic.Int32, 1000)
	p.ForEach(len(seen), func(i int) {
		seen[i].Add(1)
	})
	for i := range seen {
		assert.Equal(t, int32(1), seen[i].Load(), "unit %d", i)
	}
}

func TestWithWorkersDegradesToSequential(t *testing.T) {
	assert.Equal(t, Sequential, WithWorkers(1))
	assert.Equal(t, Sequential, WithWorkers(0))
	assert.Equal(t, Sequential, WithWorkers(-3))
}

func TestForEachErrReturnsError(t *testing.T) {
	boom := errors.New("boom")
	for _, p := range []Policy{Sequential, WithWorkers(3)} {
		var ran atomic.Int32
		err := p.ForEachErr(10, func(i int) error {
			ran.Add(1)
			if i == 4 {
				return boom
			}
			return nil
		})
		assert.ErrorIs(t, err, boom, p.String())
	}
}

func TestForEachEmpty(t *testing.T) {
	called := false
	Parallel().ForEach(0, func(int) { called = true })
	assert.False(t, called)
}
