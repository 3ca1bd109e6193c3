package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/artifact"
	"git.home.luguber.info/inful/appflowbuild/internal/config"
	"git.home.luguber.info/inful/appflowbuild/internal/dispatch"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/git"
	"git.home.luguber.info/inful/appflowbuild/internal/logfields"
	"git.home.luguber.info/inful/appflowbuild/internal/metrics"
	"git.home.luguber.info/inful/appflowbuild/internal/monitor"
	"git.home.luguber.info/inful/appflowbuild/internal/notify"
	"git.home.luguber.info/inful/appflowbuild/internal/resolve"
	"git.home.luguber.info/inful/appflowbuild/internal/retry"
)

// Runner executes a single build run.
type Runner struct {
	rc       *config.RunContext
	wf       config.Workflow
	client   appflow.Requester
	runID    string
	out      io.Writer
	recorder metrics.Recorder
	notifier notify.Notifier
	sleeper  monitor.Sleeper
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where the build summary and build log are written.
func WithOutput(w io.Writer) Option { return func(r *Runner) { r.out = w } }

func WithRecorder(rec metrics.Recorder) Option { return func(r *Runner) { r.recorder = rec } }

func WithNotifier(n notify.Notifier) Option { return func(r *Runner) { r.notifier = n } }

// WithSleeper replaces the wait between build polls.
func WithSleeper(s monitor.Sleeper) Option { return func(r *Runner) { r.sleeper = s } }

// WithRunID sets the identifier attached to logs and events.
func WithRunID(id string) Option { return func(r *Runner) { r.runID = id } }

// New returns a runner for rc that talks to the build service through client.
func New(rc *config.RunContext, wf config.Workflow, client appflow.Requester, opts ...Option) *Runner {
	r := &Runner{
		rc:       rc,
		wf:       wf,
		client:   client,
		out:      os.Stdout,
		recorder: metrics.NoopRecorder{},
		notifier: notify.NoopNotifier{},
		sleeper:  monitor.SleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = slog.Default().With(logfields.RunID(r.runID), logfields.AppID(rc.AppID))
	return r
}

// Run resolves and dispatches the build. For native platforms the returned
// result carries the path of the downloaded binary.
func (r *Runner) Run(ctx context.Context) (*dispatch.Result, error) {
	var plan *dispatch.Plan
	err := metrics.Timed(r.recorder, metrics.StageResolve, func() error {
		var err error
		plan, err = r.Resolve(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	mon := monitor.New(r.client, plan.App.ID,
		monitor.WithOutput(r.out),
		monitor.WithPolicy(retry.NewPolicy(r.rc.PollInterval, r.rc.MaxPollErrors)),
		monitor.WithSleeper(r.sleeper),
		monitor.WithRecorder(r.recorder),
		monitor.WithNotifier(r.notifier, r.runID, string(plan.Platform)),
		monitor.WithLogger(r.logger),
	)
	dl := artifact.NewRetriever(r.client, plan.App.ID, r.recorder)
	d := dispatch.New(r.client, mon, dl, r.wf,
		dispatch.WithOutput(r.out),
		dispatch.WithRecorder(r.recorder),
		dispatch.WithNotifier(r.notifier, r.runID),
		dispatch.WithFilename(r.rc.Filename),
	)
	return d.Run(ctx, plan)
}

// Resolve performs every lookup a build needs and returns the plan.
func (r *Runner) Resolve(ctx context.Context) (*dispatch.Plan, error) {
	if err := r.validateToken(ctx); err != nil {
		return nil, err
	}

	app, err := r.app(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Debug(fmt.Sprintf("got app %s.", app.Name))

	rev, err := git.ResolveRevision(r.wf)
	if err != nil {
		return nil, err
	}
	commit, err := resolve.Commit(ctx, r.client, app, rev.SHA)
	if err != nil {
		return nil, err
	}
	r.logger.Debug(fmt.Sprintf("got commit with note %s and sha: %s.", commit.Note, commit.ShortSHA), slog.String("source", string(rev.Source)))

	platform, err := resolve.Platform(r.rc.Platform)
	if err != nil {
		return nil, err
	}
	r.logger.Debug(fmt.Sprintf("got platform: %s", platform))

	stack, err := resolve.Stack(ctx, r.client, platform, r.rc.Platform, r.rc.BuildStack)
	if err != nil {
		return nil, err
	}
	r.logger.Debug(fmt.Sprintf("got stack: %s", stack.FriendlyName), logfields.Stack(stack.FriendlyName))

	buildType, err := resolve.BuildType(r.rc.BuildType, r.rc.Platform, stack)
	if err != nil {
		return nil, err
	}
	if buildType != nil {
		r.logger.Debug(fmt.Sprintf("got build-type: %s", buildType.FriendlyName))
	}

	res := resolve.NewResources(r.client, app)
	cert, err := res.Certificate(ctx, r.rc.Certificate)
	if err != nil {
		return nil, err
	}
	if cert != nil {
		r.logger.Debug(fmt.Sprintf("got certificate with tag: %s", cert.Tag))
	}

	env, err := res.Environment(ctx, r.rc.Environment)
	if err != nil {
		return nil, err
	}
	if env != nil {
		r.logger.Debug(fmt.Sprintf("got environment with id: %d", env.ID))
	}

	nativeConfig, err := res.NativeConfig(ctx, r.rc.NativeConfig)
	if err != nil {
		return nil, err
	}
	if nativeConfig != nil {
		r.logger.Debug(fmt.Sprintf("got native config with id: %d", nativeConfig.ID))
	}

	plan := &dispatch.Plan{
		App:             app,
		Commit:          *commit,
		Platform:        platform,
		DisplayPlatform: r.rc.Platform,
		Stack:           *stack,
		Environment:     env,
	}

	if platform.IsNative() {
		dests, err := res.DistributionCredentials(ctx, r.rc.Destinations)
		if err != nil {
			return nil, err
		}
		if dests != nil {
			ids := make([]string, 0, len(dests))
			for _, d := range dests {
				ids = append(ids, fmt.Sprint(d.ID))
			}
			r.logger.Debug(fmt.Sprintf("got destinations (%s)", strings.Join(ids, ", ")))
		}
		plan.Target = dispatch.NativeBuild{
			BuildType:    buildType,
			Certificate:  cert,
			NativeConfig: nativeConfig,
			Destinations: dests,
		}
		return plan, nil
	}

	channels, err := res.Channels(ctx, r.rc.Destinations)
	if err != nil {
		return nil, err
	}
	if channels != nil {
		ids := make([]string, 0, len(channels))
		for _, c := range channels {
			ids = append(ids, c.ID)
		}
		r.logger.Debug(fmt.Sprintf("got channels (%s)", strings.Join(ids, ", ")))
	}
	plan.Target = dispatch.WebDeploy{Channels: channels, WebPreview: r.rc.WebPreview}
	return plan, nil
}

// validateToken confirms the token before anything else. Only a 401 is
// fatal; other failures are left for the following requests to surface.
func (r *Runner) validateToken(ctx context.Context) error {
	user, err := appflow.CurrentUser(ctx, r.client)
	if err != nil {
		var apiErr *appflow.APIError
		if stderrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return errors.AuthError("Invalid Token. Failed to Authenticate.").WithCause(err).Build()
		}
		r.logger.Warn("Token validation failed", logfields.Error(err))
		return nil
	}
	fmt.Fprintf(r.out, "Logged in as %s.\n", user.Username)
	return nil
}

func (r *Runner) app(ctx context.Context) (appflow.App, error) {
	app, err := appflow.GetApp(ctx, r.client, r.rc.AppID)
	if err != nil {
		return appflow.App{}, errors.NotFoundError(fmt.Sprintf("Failed to find app with id: %s", r.rc.AppID)).
			WithCause(err).
			WithContext("app", r.rc.AppID).
			Build()
	}
	return app, nil
}
