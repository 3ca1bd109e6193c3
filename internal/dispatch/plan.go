// Package dispatch submits a resolved build to the build service, waits for
// it, and for native platforms downloads the produced binary.
//
// Web deploys and native package builds share the same protocol; they differ
// only in the request payload and in what happens after a successful build.
// The difference is captured by the Target of a Plan.
package dispatch

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

// Target is either WebDeploy or NativeBuild.
type Target interface {
	target()
}

// WebDeploy deploys web assets to live update channels.
type WebDeploy struct {
	Channels   []appflow.Channel
	WebPreview bool
}

// NativeBuild builds a signed binary for ios or android.
type NativeBuild struct {
	BuildType    *appflow.BuildType
	Certificate  *appflow.Certificate
	NativeConfig *appflow.NativeConfig
	Destinations []appflow.DistributionCredential
}

func (WebDeploy) target()   {}
func (NativeBuild) target() {}

// Plan is a fully resolved build.
type Plan struct {
	App         appflow.App
	Commit      appflow.Commit
	Platform    appflow.Platform
	Stack       appflow.Stack
	Environment *appflow.Environment
	Target      Target

	// DisplayPlatform is the platform as the user wrote it.
	DisplayPlatform string
}

// Validate rejects plans the build service cannot run. It issues no requests.
func (p *Plan) Validate() error {
	switch t := p.Target.(type) {
	case WebDeploy:
		if p.Platform.IsNative() {
			return errors.InternalError(fmt.Sprintf("web deploy planned for native platform %s", p.Platform)).Build()
		}
	case NativeBuild:
		if !p.Platform.IsNative() {
			return errors.InternalError(fmt.Sprintf("native build planned for platform %s", p.Platform)).Build()
		}
		if len(t.Destinations) > 1 {
			return errors.ValidationError(fmt.Sprintf("Multiple destinations for %s currently unsupported.", p.DisplayPlatform)).
				WithContext("destinations", len(t.Destinations)).
				Build()
		}
	default:
		return errors.InternalError("plan has no build target").Build()
	}
	return nil
}

// Request returns the endpoint and body that create the build job.
func (p *Plan) Request() (string, any) {
	envID := environmentID(p.Environment)
	switch t := p.Target.(type) {
	case WebDeploy:
		req := appflow.DeployRequest{
			CommitID:      p.Commit.ID,
			StackID:       p.Stack.ID,
			Platform:      p.Platform,
			EnvironmentID: envID,
			WebPreview:    t.WebPreview,
		}
		for _, c := range t.Channels {
			req.ChannelIDs = append(req.ChannelIDs, c.ID)
		}
		return appflow.AppPath(p.App.ID) + "/deploys/", req
	case NativeBuild:
		req := appflow.PackageRequest{
			CommitID:      p.Commit.ID,
			StackID:       p.Stack.ID,
			EnvironmentID: envID,
			Platform:      p.Platform,
		}
		if t.NativeConfig != nil {
			id := t.NativeConfig.ID
			req.NativeConfigID = &id
		}
		if t.Certificate != nil {
			req.ProfileTag = t.Certificate.Tag
		}
		if t.BuildType != nil {
			req.BuildType = t.BuildType.Name
		}
		if len(t.Destinations) > 0 {
			id := t.Destinations[0].ID
			req.DistributionCredentialID = &id
		}
		return appflow.AppPath(p.App.ID) + "/packages/", req
	}
	return "", nil
}

func environmentID(env *appflow.Environment) *int64 {
	if env == nil {
		return nil
	}
	id := env.ID
	return &id
}

// Summary renders the resolved configuration for the run log. It is the only
// confirmation of what was submitted, so every field is listed.
func (p *Plan) Summary() string {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "  %-15s%s\n", label+":", value)
	}

	b.WriteString("\n")
	row("App", fmt.Sprintf("%s(%s)", p.App.Name, p.App.ID))
	row("Commit", fmt.Sprintf("%s - %s", p.Commit.ShortSHA, p.Commit.Note))
	row("Platform", p.DisplayPlatform)
	row("Build Stack", p.Stack.FriendlyName)
	row("Environment", orNone(nameOf(p.Environment)))

	switch t := p.Target.(type) {
	case WebDeploy:
		preview := "NO"
		if t.WebPreview {
			preview = "YES"
		}
		names := make([]string, 0, len(t.Channels))
		for _, c := range t.Channels {
			names = append(names, c.Name)
		}
		row("Web Preview", preview)
		row("Channels", orNone(strings.Join(names, ", ")))
	case NativeBuild:
		var buildType, cert, nativeConfig string
		if t.BuildType != nil {
			buildType = t.BuildType.FriendlyName
		}
		if t.Certificate != nil {
			cert = t.Certificate.Name
		}
		if t.NativeConfig != nil {
			nativeConfig = t.NativeConfig.Name
		}
		row("Build Type", orNone(buildType))
		row("Certificate", orNone(cert))
		row("Native Config", orNone(nativeConfig))
	}
	return b.String()
}

func nameOf(env *appflow.Environment) string {
	if env == nil {
		return ""
	}
	return env.Name
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
