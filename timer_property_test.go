package codetiming

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genAdvance generates a duration to advance the fake clock by.
func genAdvance() gopter.Gen {
	return gen.Int64Range(0, int64(10*time.Second)).Map(func(ns int64) time.Duration {
		return time.Duration(ns)
	})
}

// TestTimer_StopReturnsAdvancedDuration verifies the measured time is
// exactly the time the clock advanced between Start and Stop.
func TestTimer_StopReturnsAdvancedDuration(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("Stop returns the advanced duration", prop.ForAll(
		func(d time.Duration) bool {
			clock := clockwork.NewFakeClock()
			timer := NewTimer().WithClock(clock).WithLogger(nil)

			if err := timer.Start(); err != nil {
				return false
			}
			clock.Advance(d)
			elapsed, err := timer.Stop()
			return err == nil && elapsed == d && timer.Last() == d && elapsed >= 0
		},
		genAdvance(),
	))

	properties.TestingRun(t)
}

// TestTimer_PairsIndependent verifies a measurement does not depend on
// earlier start/stop pairs on the same timer.
func TestTimer_PairsIndependent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("Last reflects only the most recent pair", prop.ForAll(
		func(first, second time.Duration) bool {
			clock := clockwork.NewFakeClock()
			timer := NewTimer().WithClock(clock).WithLogger(nil)

			if err := timer.Start(); err != nil {
				return false
			}
			clock.Advance(first)
			if _, err := timer.Stop(); err != nil {
				return false
			}

			if err := timer.Start(); err != nil {
				return false
			}
			clock.Advance(second)
			elapsed, err := timer.Stop()
			return err == nil && elapsed == second && timer.Last() == second
		},
		genAdvance(),
		genAdvance(),
	))

	properties.TestingRun(t)
}

// TestTimer_NamedRunsAccumulate verifies N completed measurements yield
// count N and a total equal to the sum of the observed durations.
func TestTimer_NamedRunsAccumulate(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("count and total follow the recorded history", prop.ForAll(
		func(durations []time.Duration) bool {
			if len(durations) == 0 {
				return true
			}
			clock := clockwork.NewFakeClock()
			registry := NewRegistry()
			timer := NewNamedTimer("accumulator").
				WithClock(clock).
				WithLogger(nil).
				WithRegistry(registry)

			var sum time.Duration
			for _, d := range durations {
				if err := timer.Start(); err != nil {
					return false
				}
				clock.Advance(d)
				elapsed, err := timer.Stop()
				if err != nil {
					return false
				}
				sum += elapsed
			}

			count, err := registry.Count("accumulator")
			if err != nil || count != len(durations) {
				return false
			}
			total, err := registry.Total("accumulator")
			return err == nil && total == sum
		},
		gen.SliceOf(genAdvance()),
	))

	properties.TestingRun(t)
}
