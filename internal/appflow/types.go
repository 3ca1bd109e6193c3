package appflow

import "strings"

// Platform is the build service's platform identifier.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web-deploy"
)

// IsNative reports whether builds for the platform produce a downloadable binary.
func (p Platform) IsNative() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

// BuildTypeName enumerates signing/distribution profile categories.
type BuildTypeName string

const (
	BuildTypeAdHoc       BuildTypeName = "ad-hoc"
	BuildTypeAppStore    BuildTypeName = "app-store"
	BuildTypeDevelopment BuildTypeName = "development"
	BuildTypeEnterprise  BuildTypeName = "enterprise"
	BuildTypeDebug       BuildTypeName = "debug"
	BuildTypeRelease     BuildTypeName = "release"
)

// BuildTypeNames lists every recognized build type in display order.
var BuildTypeNames = []BuildTypeName{
	BuildTypeAdHoc,
	BuildTypeAppStore,
	BuildTypeDevelopment,
	BuildTypeEnterprise,
	BuildTypeDebug,
	BuildTypeRelease,
}

// IsValid reports whether n is one of BuildTypeNames.
func (n BuildTypeName) IsValid() bool {
	for _, v := range BuildTypeNames {
		if v == n {
			return true
		}
	}
	return false
}

// ProfileType is the signing profile kind of a build type or certificate.
type ProfileType string

const (
	ProfileProduction  ProfileType = "production"
	ProfileDevelopment ProfileType = "development"
)

// User is the account owning the API token.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// App is the root scope for every other lookup.
type App struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WebPreview bool   `json:"web_preview"`
}

// Commit is a revision known to the build service.
type Commit struct {
	ID       int64  `json:"id"`
	SHA      string `json:"sha"`
	ShortSHA string `json:"short_sha"`
	Note     string `json:"note"`
	Ref      string `json:"ref,omitempty"`
}

// BuildType is a build type offered by a specific stack.
type BuildType struct {
	Name         BuildTypeName `json:"name"`
	FriendlyName string        `json:"friendly_name"`
	ProfileType  ProfileType   `json:"profile_type"`
}

// Stack is a server-side build environment profile scoped to a platform.
type Stack struct {
	ID           int64       `json:"id"`
	FriendlyName string      `json:"friendly_name"`
	Platform     Platform    `json:"platform"`
	Latest       bool        `json:"latest"`
	BuildTypes   []BuildType `json:"build_types"`
}

// BuildTypeList renders the allowed build type names as "a, b, c".
func (s *Stack) BuildTypeList() string {
	names := make([]string, 0, len(s.BuildTypes))
	for _, t := range s.BuildTypes {
		names = append(names, string(t.Name))
	}
	return strings.Join(names, ", ")
}

// Certificate is a signing profile; builds reference it by tag.
type Certificate struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Tag  string      `json:"tag"`
	Type ProfileType `json:"type"`
}

type Environment struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type NativeConfig struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Channel is a live-update distribution target for web deploys.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DistributionCredential is an app store or enterprise distribution target.
type DistributionCredential struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BuildState is the lifecycle state of a build job.
type BuildState string

const (
	StateCreated  BuildState = "created"
	StatePending  BuildState = "pending"
	StateRunning  BuildState = "running"
	StateFailed   BuildState = "failed"
	StateSuccess  BuildState = "success"
	StateCanceled BuildState = "canceled"
)

// IsTerminal reports whether no further transitions will happen.
func (s BuildState) IsTerminal() bool {
	return s == StateSuccess || s == StateFailed || s == StateCanceled
}

// Job holds the cumulative build log.
type Job struct {
	Trace string `json:"trace"`
}

// Build is a snapshot of a build job.
type Build struct {
	JobID           int64      `json:"job_id"`
	State           BuildState `json:"state"`
	Created         string     `json:"created,omitempty"`
	Finished        string     `json:"finished,omitempty"`
	EnvironmentName string     `json:"environment_name,omitempty"`
	Job             *Job       `json:"job"`
}

// Trace returns the job log, empty when the job has not been attached yet.
func (b *Build) Trace() string {
	if b == nil || b.Job == nil {
		return ""
	}
	return b.Job.Trace
}
