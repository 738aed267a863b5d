package codetiming

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// Registry lookup and statistics errors.
var (
	// ErrUnknownTimer is returned when statistics are requested for a
	// name that has never been recorded.
	ErrUnknownTimer = errors.New("codetiming: unknown timer")

	// ErrTooFewSamples is returned by Stdev when fewer than two
	// durations have been recorded under the name.
	ErrTooFewSamples = errors.New("codetiming: standard deviation needs at least two recordings")
)

// DefaultRegistry is the process-wide registry used by timers unless
// overridden with WithRegistry.
var DefaultRegistry = NewRegistry()

// Registry accumulates the durations recorded under each timer name, in
// recording order. A name exists once at least one duration has been
// recorded under it; history is append-only and is only discarded by an
// explicit Clear or Delete.
//
// A Registry is safe for concurrent use: Add takes a write lock and the
// aggregate queries share a read lock, so readers never observe a
// partially-appended history.
type Registry struct {
	mu      sync.RWMutex
	timings map[string][]time.Duration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{timings: make(map[string][]time.Duration)}
}

// Add appends a duration to the history recorded under name.
func (r *Registry) Add(name string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings[name] = append(r.timings[name], d)
}

// Count returns the number of durations recorded under name.
func (r *Registry) Count(name string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	durations, ok := r.timings[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTimer, name)
	}
	return len(durations), nil
}

// Total returns the sum of the durations recorded under name.
func (r *Registry) Total(name string) (time.Duration, error) {
	return r.apply(name, func(durations []time.Duration) (time.Duration, error) {
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		return total, nil
	})
}

// Min returns the smallest duration recorded under name.
func (r *Registry) Min(name string) (time.Duration, error) {
	return r.apply(name, func(durations []time.Duration) (time.Duration, error) {
		smallest := durations[0]
		for _, d := range durations[1:] {
			if d < smallest {
				smallest = d
			}
		}
		return smallest, nil
	})
}

// Max returns the largest duration recorded under name.
func (r *Registry) Max(name string) (time.Duration, error) {
	return r.apply(name, func(durations []time.Duration) (time.Duration, error) {
		largest := durations[0]
		for _, d := range durations[1:] {
			if d > largest {
				largest = d
			}
		}
		return largest, nil
	})
}

// Mean returns the arithmetic mean of the durations recorded under
// name, truncated to nanosecond resolution.
func (r *Registry) Mean(name string) (time.Duration, error) {
	return r.apply(name, func(durations []time.Duration) (time.Duration, error) {
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		return total / time.Duration(len(durations)), nil
	})
}

// Median returns the median of the durations recorded under name. For
// an even count it is the average of the two middle values after
// sorting.
func (r *Registry) Median(name string) (time.Duration, error) {
	return r.apply(name, func(durations []time.Duration) (time.Duration, error) {
		sorted := append([]time.Duration(nil), durations...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2, nil
		}
		return sorted[mid], nil
	})
}

// Stdev returns the sample standard deviation (Bessel-corrected,
// divisor n-1) of the durations recorded under name. It fails with
// ErrTooFewSamples when fewer than two durations have been recorded.
func (r *Registry) Stdev(name string) (time.Duration, error) {
	return r.apply(name, func(durations []time.Duration) (time.Duration, error) {
		if len(durations) < 2 {
			return 0, fmt.Errorf("%w: %q", ErrTooFewSamples, name)
		}
		var sum float64
		for _, d := range durations {
			sum += float64(d)
		}
		mean := sum / float64(len(durations))
		var squares float64
		for _, d := range durations {
			diff := float64(d) - mean
			squares += diff * diff
		}
		return time.Duration(math.Sqrt(squares / float64(len(durations)-1))), nil
	})
}

// Names returns the sorted set of names with recorded durations.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.timings))
	for name := range r.timings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Timings returns a copy of the durations recorded under name, in
// recording order.
func (r *Registry) Timings(name string) ([]time.Duration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	durations, ok := r.timings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimer, name)
	}
	return append([]time.Duration(nil), durations...), nil
}

// Snapshot returns a deep copy of every recorded history, taken under a
// single read lock so no history is observed mid-append. Exporters
// iterate the snapshot instead of holding the registry locked.
func (r *Registry) Snapshot() map[string][]time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[string][]time.Duration, len(r.timings))
	for name, durations := range r.timings {
		snapshot[name] = append([]time.Duration(nil), durations...)
	}
	return snapshot
}

// Clear removes every recorded history. Timers keep working afterwards;
// names recorded again start from an empty history.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings = make(map[string][]time.Duration)
}

// Delete removes the history recorded under name.
func (r *Registry) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.timings, name)
}

// apply runs fn on the history of name under the read lock.
func (r *Registry) apply(name string, fn func(durations []time.Duration) (time.Duration, error)) (time.Duration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	durations, ok := r.timings[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTimer, name)
	}
	return fn(durations)
}
