package appflow

import (
	"context"
	"fmt"
	"net/url"

	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

// Resource names an app-scoped list endpoint.
type Resource string

const (
	ResourceCommits                 Resource = "commits"
	ResourceProfiles                Resource = "profiles"
	ResourceEnvironments            Resource = "environments"
	ResourceNativeConfigs           Resource = "native-configs"
	ResourceChannels                Resource = "channels"
	ResourceDistributionCredentials Resource = "distribution-credentials"
)

// AppPath returns the base path of an app.
func AppPath(appID string) string {
	return "/apps/" + url.PathEscape(appID)
}

// ResourcePath returns the list endpoint of an app-scoped resource.
func ResourcePath(appID string, r Resource) string {
	return fmt.Sprintf("%s/%s", AppPath(appID), r)
}

// GetData issues a GET and unwraps the {data: T} envelope.
func GetData[T any](ctx context.Context, r Requester, endpoint string) (T, error) {
	var env Envelope[T]
	err := r.Get(ctx, endpoint, &env)
	return env.Data, err
}

// PostData issues a POST and unwraps the {data: T} envelope.
func PostData[T any](ctx context.Context, r Requester, endpoint string, body any) (T, error) {
	var env Envelope[T]
	err := r.Post(ctx, endpoint, body, &env)
	return env.Data, err
}

// CurrentUser returns the owner of the token.
func CurrentUser(ctx context.Context, r Requester) (User, error) {
	return GetData[User](ctx, r, "/users/self")
}

// GetApp looks up an app by id.
func GetApp(ctx context.Context, r Requester, appID string) (App, error) {
	return GetData[App](ctx, r, AppPath(appID))
}

// ListStacks returns the full stack catalog across platforms.
func ListStacks(ctx context.Context, r Requester) ([]Stack, error) {
	return GetData[[]Stack](ctx, r, "/stacks")
}

// DeployRequest creates a web deploy job.
type DeployRequest struct {
	CommitID      int64    `json:"commit_id"`
	StackID       int64    `json:"stack_id"`
	Platform      Platform `json:"platform"`
	EnvironmentID *int64   `json:"environment_id,omitempty"`
	ChannelIDs    []string `json:"channel_ids,omitempty"`
	WebPreview    bool     `json:"web_preview"`
}

// PackageRequest creates a native package build job.
type PackageRequest struct {
	CommitID                 int64         `json:"commit_id"`
	StackID                  int64         `json:"stack_id"`
	EnvironmentID            *int64        `json:"environment_id,omitempty"`
	NativeConfigID           *int64        `json:"native_config_id,omitempty"`
	ProfileTag               string        `json:"profile_tag,omitempty"`
	BuildType                BuildTypeName `json:"build_type,omitempty"`
	DistributionCredentialID *int64        `json:"distribution_credential_id,omitempty"`
	Platform                 Platform      `json:"platform"`
}

// CreateDeploy submits a web deploy and returns the created build.
func CreateDeploy(ctx context.Context, r Requester, appID string, req DeployRequest) (Build, error) {
	return PostData[Build](ctx, r, AppPath(appID)+"/deploys/", req)
}

// CreatePackage submits a native package build and returns the created build.
func CreatePackage(ctx context.Context, r Requester, appID string, req PackageRequest) (Build, error) {
	return PostData[Build](ctx, r, AppPath(appID)+"/packages/", req)
}

// GetBuild fetches the latest snapshot of a build job.
func GetBuild(ctx context.Context, r Requester, appID string, jobID int64) (Build, error) {
	return GetData[Build](ctx, r, fmt.Sprintf("%s/builds/%d", AppPath(appID), jobID))
}

type downloadLink struct {
	URL string `json:"url"`
}

// GetDownloadURL requests a time-limited download URL for a package build.
func GetDownloadURL(ctx context.Context, r Requester, appID string, jobID int64) (string, error) {
	link, err := GetData[downloadLink](ctx, r, fmt.Sprintf("%s/packages/%d/download", AppPath(appID), jobID))
	if err != nil {
		return "", err
	}
	if link.URL == "" {
		return "", errors.RemoteError("Failed to download binary").
			WithRetry(errors.RetryNever).
			WithContext("job_id", jobID).
			Build()
	}
	return link.URL, nil
}
