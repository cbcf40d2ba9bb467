package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledBarIsNoop(t *testing.T) {
	b := Maybe(10, 1000, "table ")
	assert.False(t, b.Enabled())
	b.Start()
	b.Increment()
	b.SetCurrent(5)
	b.Finish()
}

func TestSetCurrentIsMonotonic(t *testing.T) {
	b := Maybe(5000, 1000, "table ")
	assert.True(t, b.Enabled())
	b.SetCurrent(10)
	b.SetCurrent(4)
	assert.Equal(t, int64(10), b.bar.Current())
}
