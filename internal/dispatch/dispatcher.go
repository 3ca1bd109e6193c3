package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/artifact"
	"git.home.luguber.info/inful/appflowbuild/internal/config"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/logfields"
	"git.home.luguber.info/inful/appflowbuild/internal/metrics"
	"git.home.luguber.info/inful/appflowbuild/internal/notify"
)

// Waiter blocks until a build job is terminal.
type Waiter interface {
	Wait(ctx context.Context, jobID int64) (*appflow.Build, error)
}

// Downloader stores the binary of a finished package build at path.
type Downloader interface {
	Download(ctx context.Context, jobID int64, path string) (int64, error)
}

// Result is the outcome of a successful dispatch. ArtifactPath is empty for
// web deploys.
type Result struct {
	Build        *appflow.Build
	ArtifactPath string
}

// Dispatcher runs plans against the build service.
type Dispatcher struct {
	r          appflow.Requester
	waiter     Waiter
	downloader Downloader
	workflow   config.Workflow
	filename   string
	out        io.Writer
	recorder   metrics.Recorder
	notifier   notify.Notifier
	runID      string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithOutput(w io.Writer) Option { return func(d *Dispatcher) { d.out = w } }

func WithRecorder(r metrics.Recorder) Option { return func(d *Dispatcher) { d.recorder = r } }

// WithNotifier publishes dispatch and artifact events tagged with runID.
func WithNotifier(n notify.Notifier, runID string) Option {
	return func(d *Dispatcher) {
		d.notifier = n
		d.runID = runID
	}
}

// WithFilename overrides the default artifact file name.
func WithFilename(name string) Option { return func(d *Dispatcher) { d.filename = name } }

// New returns a dispatcher that submits through r, waits with w and
// downloads native binaries with dl into locations derived from wf.
func New(r appflow.Requester, w Waiter, dl Downloader, wf config.Workflow, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		r:          r,
		waiter:     w,
		downloader: dl,
		workflow:   wf,
		out:        os.Stdout,
		recorder:   metrics.NoopRecorder{},
		notifier:   notify.NoopNotifier{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run validates and prints the plan, submits it, waits for the build and
// handles the platform specific outcome. Any terminal state other than
// success is an error naming the state.
func (d *Dispatcher) Run(ctx context.Context, plan *Plan) (*Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	var path string
	if _, native := plan.Target.(NativeBuild); native {
		var err error
		if path, err = artifact.FileLocation(d.filename, d.workflow, plan.Platform); err != nil {
			return nil, err
		}
	}
	fmt.Fprintln(d.out, plan.Summary())

	var created appflow.Build
	err := metrics.Timed(d.recorder, metrics.StageDispatch, func() error {
		endpoint, body := plan.Request()
		var err error
		created, err = appflow.PostData[appflow.Build](ctx, d.r, endpoint, body)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Build submitted", logfields.AppID(plan.App.ID), logfields.JobID(created.JobID), logfields.Platform(string(plan.Platform)))
	d.publish(ctx, notify.Event{Type: notify.EventDispatched, JobID: created.JobID, State: string(created.State)}, plan)

	var finished *appflow.Build
	err = metrics.Timed(d.recorder, metrics.StageMonitor, func() error {
		var err error
		finished, err = d.waiter.Wait(ctx, created.JobID)
		return err
	})
	if err != nil {
		return nil, err
	}

	switch plan.Target.(type) {
	case WebDeploy:
		if finished.State != appflow.StateSuccess {
			return nil, buildFailed(finished, fmt.Sprintf("Build finished with %s state.", finished.State))
		}
		fmt.Fprintln(d.out, "Successfully finished build.")
		return &Result{Build: finished}, nil
	default:
		if finished.State != appflow.StateSuccess {
			return nil, buildFailed(finished, fmt.Sprintf("Build finished with %s state. Unable to download artifact.", finished.State))
		}
		err := metrics.Timed(d.recorder, metrics.StageDownload, func() error {
			_, err := d.downloader.Download(ctx, finished.JobID, path)
			return err
		})
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(d.out, "Artifact downloaded to %s\n", path)
		d.publish(ctx, notify.Event{Type: notify.EventArtifact, JobID: finished.JobID, State: string(finished.State), Artifact: path}, plan)
		return &Result{Build: finished, ArtifactPath: path}, nil
	}
}

func buildFailed(b *appflow.Build, msg string) error {
	return errors.BuildError(msg).
		WithContext("job_id", b.JobID).
		WithContext("state", string(b.State)).
		Build()
}

func (d *Dispatcher) publish(ctx context.Context, ev notify.Event, plan *Plan) {
	ev.RunID = d.runID
	ev.AppID = plan.App.ID
	ev.Platform = string(plan.Platform)
	if err := d.notifier.Notify(ctx, ev); err != nil {
		slog.Warn("Failed to publish build event", logfields.JobID(ev.JobID), logfields.Error(err))
	}
}
