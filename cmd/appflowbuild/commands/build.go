package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/config"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/logfields"
	"git.home.luguber.info/inful/appflowbuild/internal/metrics"
	"git.home.luguber.info/inful/appflowbuild/internal/notify"
	"git.home.luguber.info/inful/appflowbuild/internal/pipeline"
	"git.home.luguber.info/inful/appflowbuild/internal/version"
)

// ArtifactOutput is the workflow output key set to the downloaded binary path.
const ArtifactOutput = "artifact-path"

// BuildCmd implements the default 'build' command.
type BuildCmd struct {
	Token        string `help:"Personal access token for the build service" env:"APPFLOW_TOKEN"`
	AppID        string `name:"app-id" help:"ID of the app to build" env:"APPFLOW_APP_ID"`
	Platform     string `help:"Platform to build for (Web, iOS, Android)" env:"APPFLOW_PLATFORM"`
	BuildStack   string `name:"build-stack" help:"Build stack name (defaults to the latest stack)" env:"APPFLOW_BUILD_STACK"`
	BuildType    string `name:"build-type" help:"Build type, required for native platforms" env:"APPFLOW_BUILD_TYPE"`
	Certificate  string `help:"Name of the signing certificate" env:"APPFLOW_CERTIFICATE"`
	Environment  string `help:"Name of the build environment" env:"APPFLOW_ENVIRONMENT"`
	NativeConfig string `name:"native-config" help:"Name of the native config" env:"APPFLOW_NATIVE_CONFIG"`
	Destinations string `help:"Comma separated channel or store destination names" env:"APPFLOW_DESTINATIONS"`
	WebPreview   bool   `name:"web-preview" help:"Create a web preview for web builds" env:"APPFLOW_WEB_PREVIEW"`
	Filename     string `help:"Artifact file name, without extension" env:"APPFLOW_FILENAME"`
	APIURL       string `name:"api-url" help:"Build service API base URL" env:"APPFLOW_API_URL"`
	MetricsFile  string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file" env:"APPFLOW_METRICS_FILE"`
	NATSURL      string `name:"nats-url" help:"Publish build events to this NATS server" env:"APPFLOW_NATS_URL"`
	NATSSubject  string `name:"nats-subject" help:"Subject prefix for build events" env:"APPFLOW_NATS_SUBJECT"`
}

func (b *BuildCmd) inputs() config.Inputs {
	return config.Inputs{
		Token:        b.Token,
		AppID:        b.AppID,
		Platform:     b.Platform,
		BuildStack:   b.BuildStack,
		BuildType:    b.BuildType,
		Certificate:  b.Certificate,
		Environment:  b.Environment,
		NativeConfig: b.NativeConfig,
		Destinations: b.Destinations,
		Filename:     b.Filename,
		WebPreview:   b.WebPreview,
		APIURL:       b.APIURL,
		MetricsFile:  b.MetricsFile,
		NATSURL:      b.NATSURL,
		NATSSubject:  b.NATSSubject,
	}
}

// Run executes the build command.
func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	file, err := root.loadFile()
	if err != nil {
		return err
	}
	rc := config.Merge(b.inputs(), file)
	if err := rc.Validate(); err != nil {
		return err
	}
	wf := config.WorkflowFromEnv(g.getenv())
	runID := uuid.NewString()
	logger := g.logger().With(logfields.RunID(runID))

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if rc.MetricsFile != "" {
		prom := metrics.NewPrometheusRecorder(nil)
		recorder = prom
		defer func() {
			if werr := prom.WriteTextfile(rc.MetricsFile); werr != nil {
				logger.Warn("Failed to write metrics file", logfields.Path(rc.MetricsFile), logfields.Error(werr))
			}
		}()
	}

	notifier := newNotifier(rc, logger)
	defer func() {
		if cerr := notifier.Close(); cerr != nil {
			logger.Warn("Failed to close notifier", logfields.Error(cerr))
		}
	}()

	client := appflow.NewClient(rc.APIURL, rc.Token, rc.RequestTimeout,
		appflow.WithUserAgent(version.UserAgent()))

	runner := pipeline.New(rc, wf, client,
		pipeline.WithOutput(g.out()),
		pipeline.WithRecorder(recorder),
		pipeline.WithNotifier(notifier),
		pipeline.WithRunID(runID),
	)
	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if result == nil || result.ArtifactPath == "" {
		return nil
	}
	return SetOutput(wf.OutputFile, ArtifactOutput, result.ArtifactPath)
}

func newNotifier(rc *config.RunContext, logger *slog.Logger) notify.Notifier {
	if rc.NATSURL == "" {
		return notify.NoopNotifier{}
	}
	n, err := notify.NewNATSNotifier(rc.NATSURL, rc.NATSSubject)
	if err != nil {
		logger.Warn("NATS unavailable, build events will not be published", "url", rc.NATSURL, logfields.Error(err))
		return notify.NoopNotifier{}
	}
	return n
}

// SetOutput appends name=value to the workflow output file. An empty path
// means no workflow is collecting outputs and is not an error.
func SetOutput(path, name, value string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.FileSystemError("failed to open workflow output file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if _, err := fmt.Fprintf(f, "%s=%s\n", name, value); err != nil {
		_ = f.Close()
		return errors.FileSystemError("failed to write workflow output").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return f.Close()
}
