// Package config assembles the immutable configuration of a build run from
// CLI flags, environment variables, an optional YAML file and defaults.
package config

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

const (
	DefaultAPIURL         = "https://api.ionicjs.com"
	DefaultRequestTimeout = 5 * time.Second
	DefaultPollInterval   = 5 * time.Second
	DefaultMaxPollErrors  = 3
	DefaultNATSSubject    = "appflow.builds"
)

// RunContext is the configuration of one build run. It is built once by Merge
// and then only read; components receive it by pointer.
type RunContext struct {
	Token        string
	AppID        string
	Platform     string
	BuildStack   string
	BuildType    string
	Certificate  string
	Environment  string
	NativeConfig string
	Destinations string
	Filename     string
	WebPreview   bool
	APIURL       string

	RequestTimeout time.Duration
	PollInterval   time.Duration
	MaxPollErrors  int

	MetricsFile string
	NATSURL     string
	NATSSubject string
}

// Inputs are the run inputs as given on the command line or environment.
// Empty strings mean "not set".
type Inputs struct {
	Token        string
	AppID        string
	Platform     string
	BuildStack   string
	BuildType    string
	Certificate  string
	Environment  string
	NativeConfig string
	Destinations string
	Filename     string
	WebPreview   bool
	APIURL       string
	MetricsFile  string
	NATSURL      string
	NATSSubject  string
}

// Merge combines inputs with an optional file config. Inputs win over the file,
// the file wins over defaults.
func Merge(in Inputs, file *File) *RunContext {
	if file == nil {
		file = &File{}
	}
	rc := &RunContext{
		Token:          in.Token,
		AppID:          first(in.AppID, file.AppID),
		Platform:       first(in.Platform, file.Platform),
		BuildStack:     first(in.BuildStack, file.BuildStack),
		BuildType:      first(in.BuildType, file.BuildType),
		Certificate:    first(in.Certificate, file.Certificate),
		Environment:    first(in.Environment, file.Environment),
		NativeConfig:   first(in.NativeConfig, file.NativeConfig),
		Destinations:   first(in.Destinations, file.Destinations),
		Filename:       first(in.Filename, file.Filename),
		WebPreview:     in.WebPreview || file.WebPreview,
		APIURL:         first(in.APIURL, file.APIURL, DefaultAPIURL),
		RequestTimeout: firstDuration(file.RequestTimeout, DefaultRequestTimeout),
		PollInterval:   firstDuration(file.PollInterval, DefaultPollInterval),
		MaxPollErrors:  DefaultMaxPollErrors,
		MetricsFile:    first(in.MetricsFile, file.MetricsFile),
		NATSURL:        first(in.NATSURL, file.NATS.URL),
		NATSSubject:    first(in.NATSSubject, file.NATS.Subject, DefaultNATSSubject),
	}
	if file.MaxPollErrors > 0 {
		rc.MaxPollErrors = file.MaxPollErrors
	}
	return rc
}

// Validate checks the inputs every run needs before any network call.
func (rc *RunContext) Validate() error {
	var missing []string
	if strings.TrimSpace(rc.Token) == "" {
		missing = append(missing, "token")
	}
	if strings.TrimSpace(rc.AppID) == "" {
		missing = append(missing, "app-id")
	}
	if strings.TrimSpace(rc.Platform) == "" {
		missing = append(missing, "platform")
	}
	if len(missing) > 0 {
		return errors.ConfigError("missing required inputs: " + strings.Join(missing, ", ")).
			WithContext("missing", missing).
			Build()
	}
	return nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstDuration(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
