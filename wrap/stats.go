package wrap

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// StatsFileName is the JSON timing-stats file written into the output
// directory when --stats is given.
const StatsFileName = "wrap_stats.json"

// Timings accumulates the wall-clock duration, in seconds, of each wrap step.
type Timings struct {
	now     func() time.Time // replaceable in tests
	started map[string]time.Time
	seconds map[string]float64
}

// NewTimings returns an empty Timings using the wall clock.
func NewTimings() *Timings {
	return &Timings{
		now:     time.Now,
		started: make(map[string]time.Time),
		seconds: make(map[string]float64),
	}
}

// Start marks the beginning of the named step.
func (t *Timings) Start(name string) {
	t.started[name] = t.now()
}

// Stop records the elapsed time of the named step since its Start.
// Stopping a step that was never started does nothing.
func (t *Timings) Stop(name string) {
	start, ok := t.started[name]
	if !ok {
		return
	}
	delete(t.started, name)
	t.seconds[name] = t.now().Sub(start).Seconds()
}

// Seconds returns the recorded duration of the named step, or 0 if it was
// never recorded.
func (t *Timings) Seconds(name string) float64 {
	return t.seconds[name]
}

// WriteFile writes the recorded step durations as indented JSON.
func (t *Timings) WriteFile(path string) error {
	data, err := json.MarshalIndent(t.seconds, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal timing stats")
	}
	if err = os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrapf(err, "failed to write timing stats to %q", path)
	}
	return nil
}
