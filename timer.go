package codetiming

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/realpython/codetiming/internal/format"
)

// Timer misuse errors. Start and Stop must alternate: a timer can only
// be started while idle and stopped while running.
var (
	ErrRunning    = errors.New("codetiming: timer is running; use Stop to stop it")
	ErrNotRunning = errors.New("codetiming: timer is not running; use Start to start it")
)

// initialMode selects how the start announcement is produced.
type initialMode int

const (
	initialOff initialMode = iota
	initialDefault
	initialCustom
)

// Timer measures the elapsed time between Start and Stop and optionally
// reports and records the result. Named timers append every completed
// measurement to their registry, so independent instances sharing a
// name accumulate into one history.
//
// Configure a timer with the With* methods before the first Start. A
// Timer is not safe for concurrent use by multiple goroutines; distinct
// timers sharing a name and registry are.
type Timer struct {
	name        string
	text        string
	textFunc    TextFunc
	initialMode initialMode
	initialText string
	logger      Logger
	registry    *Registry
	clock       clockwork.Clock

	running   bool
	startedAt time.Time
	last      time.Duration
}

// NewTimer creates a new idle timer with the default report template, a
// stdout logger and the default registry.
func NewTimer() *Timer {
	return &Timer{
		text:     DefaultText,
		logger:   defaultLogger,
		registry: DefaultRegistry,
		clock:    clockwork.NewRealClock(),
	}
}

// NewNamedTimer creates a new idle timer whose measurements accumulate
// in the registry under the given name.
func NewNamedTimer(name string) *Timer {
	return NewTimer().WithName(name)
}

// WithName sets the name under which completed measurements are
// recorded. An empty name disables recording.
func (t *Timer) WithName(name string) *Timer {
	t.name = name
	return t
}

// WithText sets the report template. The template supports a single
// positional placeholder filled with the elapsed seconds plus the named
// fields name, seconds, milliseconds and minutes, each with an optional
// numeric format spec, e.g. "{name}: {seconds:.2f}".
func (t *Timer) WithText(text string) *Timer {
	t.text = text
	t.textFunc = nil
	return t
}

// WithTextFunc sets a formatting function used instead of the report
// template. The function receives the elapsed duration and its result
// is emitted verbatim, bypassing template substitution. A nil fn
// restores template formatting.
func (t *Timer) WithTextFunc(fn TextFunc) *Timer {
	t.textFunc = fn
	return t
}

// WithInitialText sets a custom announcement emitted when the timer
// starts. The announcement may reference {name}.
func (t *Timer) WithInitialText(text string) *Timer {
	t.initialMode = initialCustom
	t.initialText = text
	return t
}

// WithDefaultInitialText enables the standard start announcement:
// "Timer <name> started" for named timers, "Timer started" otherwise.
func (t *Timer) WithDefaultInitialText() *Timer {
	t.initialMode = initialDefault
	return t
}

// WithLogger sets the sink receiving announcement and report text. A
// nil logger disables reporting; measurements are still recorded.
func (t *Timer) WithLogger(logger Logger) *Timer {
	t.logger = logger
	return t
}

// WithRegistry sets the registry that accumulates named measurements.
func (t *Timer) WithRegistry(registry *Registry) *Timer {
	t.registry = registry
	return t
}

// WithClock sets the time source, usually a fake clock in tests.
func (t *Timer) WithClock(clock clockwork.Clock) *Timer {
	t.clock = clock
	return t
}

// Start starts the timer. It fails with ErrRunning if the timer is
// already running. A configured announcement is rendered and emitted
// before the clock is read, so reporting cost is not measured; if the
// announcement template is malformed the error is returned and the
// timer stays idle with nothing emitted.
func (t *Timer) Start() error {
	if t.running {
		return ErrRunning
	}
	if t.logger != nil && t.initialMode != initialOff {
		announcement, err := t.announcementText()
		if err != nil {
			return err
		}
		t.logger(announcement)
	}
	t.startedAt = t.clock.Now()
	t.running = true
	return nil
}

// Stop stops the timer and returns the elapsed duration. It fails with
// ErrNotRunning if the timer is idle.
//
// The report is rendered before any state changes: when the template is
// malformed the error is returned and the timer keeps running with
// nothing recorded or emitted. On success the elapsed duration is
// stored in Last, appended to the registry under the timer's name (if
// named) and reported through the logger (if any).
func (t *Timer) Stop() (time.Duration, error) {
	if !t.running {
		return 0, ErrNotRunning
	}
	elapsed := t.clock.Since(t.startedAt)

	var report string
	if t.logger != nil {
		var err error
		report, err = t.reportText(elapsed)
		if err != nil {
			return 0, err
		}
	}

	t.running = false
	t.startedAt = time.Time{}
	t.last = elapsed
	if t.name != "" && t.registry != nil {
		t.registry.Add(t.name, elapsed)
	}
	if t.logger != nil {
		t.logger(report)
	}
	return elapsed, nil
}

// Time runs fn under the timer: Start, fn, Stop. Stop runs even if fn
// panics, so the elapsed time is recorded and Last is set before the
// panic continues unwinding. The returned error is the Start or Stop
// failure, if any.
func (t *Timer) Time(fn func()) (err error) {
	if err = t.Start(); err != nil {
		return err
	}
	defer func() {
		if _, stopErr := t.Stop(); err == nil {
			err = stopErr
		}
	}()
	fn()
	return nil
}

// Wrap returns a unit of work that runs fn bracketed by exactly one
// Start/Stop pair per invocation. The error returned by fn propagates
// unchanged and takes precedence over a Stop failure; a panic in fn
// still stops the timer before unwinding continues.
func (t *Timer) Wrap(fn func() error) func() error {
	return func() (err error) {
		if err = t.Start(); err != nil {
			return err
		}
		defer func() {
			if _, stopErr := t.Stop(); err == nil {
				err = stopErr
			}
		}()
		return fn()
	}
}

// Last returns the elapsed duration of the most recently completed
// measurement, or zero before the first successful Stop.
func (t *Timer) Last() time.Duration {
	return t.last
}

// Name returns the timer name (empty string if unnamed).
func (t *Timer) Name() string {
	return t.name
}

// Running reports whether the timer is currently measuring.
func (t *Timer) Running() bool {
	return t.running
}

// String returns a formatted string representation of the timer.
func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.last)
	}
	return fmt.Sprintf("%v", t.last)
}

// announcementText renders the start announcement.
func (t *Timer) announcementText() (string, error) {
	if t.initialMode == initialCustom {
		return format.RenderInitial(t.initialText, t.name)
	}
	if t.name != "" {
		return "Timer " + t.name + " started", nil
	}
	return "Timer started", nil
}

// reportText builds the report emitted after a successful Stop.
func (t *Timer) reportText(elapsed time.Duration) (string, error) {
	if t.textFunc != nil {
		return t.textFunc(elapsed), nil
	}
	seconds := elapsed.Seconds()
	return format.Render(t.text, format.Values{
		Name:         t.name,
		Seconds:      seconds,
		Milliseconds: seconds * 1000,
		Minutes:      seconds / 60,
	})
}
