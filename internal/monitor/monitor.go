// Package monitor waits for a remote build to finish while streaming its log.
//
// Waiting is a loop of sleep, fetch, report. The build log is read from the
// start on every poll and only lines not shown before are written out.
// Failed polls are retried until a number of consecutive failures is reached.
package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/logfields"
	"git.home.luguber.info/inful/appflowbuild/internal/metrics"
	"git.home.luguber.info/inful/appflowbuild/internal/notify"
	"git.home.luguber.info/inful/appflowbuild/internal/retry"
)

const concurrencyMessage = "Concurrency limit reached: build will start as soon as other builds finish."

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Monitor polls one app's builds.
type Monitor struct {
	r        appflow.Requester
	appID    string
	runID    string
	platform string
	out      io.Writer
	policy   retry.Policy
	sleep    Sleeper
	recorder metrics.Recorder
	notifier notify.Notifier
	logger   *slog.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithOutput sets where build log lines and status messages are written.
func WithOutput(w io.Writer) Option { return func(m *Monitor) { m.out = w } }

// WithPolicy sets the poll interval and error budget.
func WithPolicy(p retry.Policy) Option { return func(m *Monitor) { m.policy = p } }

// WithSleeper replaces the wait between polls.
func WithSleeper(s Sleeper) Option { return func(m *Monitor) { m.sleep = s } }

func WithRecorder(r metrics.Recorder) Option { return func(m *Monitor) { m.recorder = r } }

// WithNotifier publishes state changes; runID and platform are attached to every event.
func WithNotifier(n notify.Notifier, runID, platform string) Option {
	return func(m *Monitor) {
		m.notifier = n
		m.runID = runID
		m.platform = platform
	}
}

func WithLogger(l *slog.Logger) Option { return func(m *Monitor) { m.logger = l } }

// New returns a monitor for builds of appID.
func New(r appflow.Requester, appID string, opts ...Option) *Monitor {
	m := &Monitor{
		r:        r,
		appID:    appID,
		out:      os.Stdout,
		policy:   retry.DefaultPolicy(),
		sleep:    SleepContext,
		recorder: metrics.NoopRecorder{},
		notifier: notify.NoopNotifier{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// tail is the per-wait state: lines already written, whether the queueing
// message was shown, and the last state seen.
type tail struct {
	seen         int
	queuedShown  bool
	lastState    appflow.BuildState
	stateChanged bool
}

// observe folds a snapshot into the state and returns the lines to write.
func (t *tail) observe(b *appflow.Build) []string {
	var out []string
	if b.State == appflow.StateCreated && !t.queuedShown {
		out = append(out, concurrencyMessage)
		t.queuedShown = true
	}
	lines, total := NewLines(b.Trace(), t.seen)
	t.seen = total
	out = append(out, lines...)

	t.stateChanged = b.State != t.lastState
	t.lastState = b.State
	return out
}

// Wait polls jobID until the build reaches a terminal state and returns that
// snapshot. Every poll is preceded by the policy interval. A poll error is
// reported and retried; the loop gives up with that error once the policy's
// consecutive error budget is spent, or at once for authentication errors
// and cancellation of ctx.
func (m *Monitor) Wait(ctx context.Context, jobID int64) (*appflow.Build, error) {
	var (
		st      tail
		errs    = m.policy.NewCounter()
		started = time.Now()
		log     = m.logger.With(logfields.AppID(m.appID), logfields.JobID(jobID))
	)

	for {
		if err := m.sleep(ctx, m.policy.Interval); err != nil {
			return nil, err
		}

		m.recorder.IncPoll()
		build, err := appflow.GetBuild(ctx, m.r, m.appID, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.recorder.IncPollError(string(errors.GetCategory(err)))
			log.Warn("Build poll failed", logfields.Attempt(errs.Count()+1), logfields.Error(err))

			if !retry.Retryable(err) {
				return nil, err
			}
			fmt.Fprintf(m.out, "Encountered error: %v while fetching build data retrying.\n", err)
			if errs.Fail() {
				fmt.Fprintf(m.out, "Encountered %d errors in a row. Job will now fail.\n", errs.Count())
				m.recorder.IncPollRetryExhausted()
				return nil, err
			}
			continue
		}
		errs.Reset()

		for _, line := range st.observe(&build) {
			fmt.Fprintln(m.out, line)
		}
		if st.stateChanged {
			log.Debug("Build state changed", logfields.State(string(build.State)))
			m.publish(ctx, notify.EventStateChanged, jobID, build.State)
		}

		if build.State.IsTerminal() {
			m.recorder.ObserveBuildDuration(time.Since(started))
			m.recorder.IncBuildOutcome(string(build.State))
			m.publish(ctx, notify.EventFinished, jobID, build.State)
			return &build, nil
		}
	}
}

func (m *Monitor) publish(ctx context.Context, typ notify.EventType, jobID int64, state appflow.BuildState) {
	ev := notify.Event{
		Type:     typ,
		RunID:    m.runID,
		AppID:    m.appID,
		JobID:    jobID,
		Platform: m.platform,
		State:    string(state),
	}
	if err := m.notifier.Notify(ctx, ev); err != nil {
		m.logger.Warn("Failed to publish build event", logfields.JobID(jobID), logfields.Error(err))
	}
}
