package monitoring

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTickMonitorMetrics(t *testing.T) {
	tm := NewTickMonitor(10*time.Millisecond, zerolog.Nop())

	assert.Equal(t, TickMetrics{Budget: 10 * time.Millisecond}, tm.GetMetrics())

	tm.Observe(2 * time.Millisecond)
	tm.Observe(4 * time.Millisecond)
	tm.Observe(12 * time.Millisecond)

	m := tm.GetMetrics()
	assert.Equal(t, int64(3), m.Count)
	assert.Equal(t, int64(1), m.Overruns)
	assert.Equal(t, 6*time.Millisecond, m.Mean)
	assert.Equal(t, 12*time.Millisecond, m.Last)
	assert.Equal(t, 12*time.Millisecond, m.Peak)
}

func TestTickMonitorWarnsWithCooldown(t *testing.T) {
	var buf bytes.Buffer
	tm := NewTickMonitor(time.Millisecond, zerolog.New(&buf))
	tm.SetAlertCooldown(time.Hour)

	tm.Observe(5 * time.Millisecond)
	tm.Observe(5 * time.Millisecond)

	assert.Equal(t, 1, strings.Count(buf.String(), "Tick overran loop interval"))
	assert.Equal(t, int64(2), tm.GetMetrics().Overruns)
}

func TestTickMonitorZeroBudgetNeverOverruns(t *testing.T) {
	tm := NewTickMonitor(0, zerolog.Nop())
	tm.Observe(time.Second)
	assert.Zero(t, tm.GetMetrics().Overruns)

	tm.SetBudget(time.Millisecond)
	tm.Track(func() { time.Sleep(3 * time.Millisecond) })
	m := tm.GetMetrics()
	assert.Equal(t, int64(1), m.Overruns)
	assert.Equal(t, int64(2), m.Count)
}
