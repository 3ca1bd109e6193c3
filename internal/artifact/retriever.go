package artifact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/logfields"
	"git.home.luguber.info/inful/appflowbuild/internal/metrics"
)

// Retriever downloads package build binaries.
type Retriever struct {
	r          appflow.Requester
	appID      string
	httpClient *http.Client
	recorder   metrics.Recorder
}

// NewRetriever returns a retriever for builds of appID. Download URLs are
// pre-signed, so the binary itself is fetched with a plain HTTP client
// without the API token.
func NewRetriever(r appflow.Requester, appID string, recorder metrics.Recorder) *Retriever {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Retriever{r: r, appID: appID, httpClient: &http.Client{}, recorder: recorder}
}

// Download resolves the download URL of jobID and streams the binary to
// path. It returns only after the file is closed. On failure a partially
// written file is left in place.
func (rt *Retriever) Download(ctx context.Context, jobID int64, path string) (int64, error) {
	url, err := appflow.GetDownloadURL(ctx, rt.r, rt.appID, jobID)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, errors.InternalError("failed to create download request").WithCause(err).Build()
	}
	resp, err := rt.httpClient.Do(req)
	if err != nil {
		return 0, errors.NetworkError("Failed to download binary").
			WithCause(err).
			WithContext("job_id", jobID).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, errors.RemoteError("Failed to download binary").
			WithCause(&appflow.APIError{
				Method:     http.MethodGet,
				URL:        url,
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       body,
			}).
			WithContext("job_id", jobID).
			Build()
	}

	n, err := writeFile(path, resp.Body)
	if err != nil {
		return n, err
	}
	rt.recorder.AddArtifactBytes(n)
	slog.Info("Downloaded artifact",
		logfields.JobID(jobID),
		logfields.Path(path),
		slog.Int64("bytes", n),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return n, nil
}

func writeFile(path string, src io.Reader) (int64, error) {
	// #nosec G304 -- path is computed by FileLocation from the run configuration
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.FileSystemError(fmt.Sprintf("failed to create %s", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if copyErr != nil {
		return n, errors.FileSystemError(fmt.Sprintf("failed to write %s", path)).
			WithCause(copyErr).
			WithContext("path", path).
			Build()
	}
	if closeErr != nil {
		return n, errors.FileSystemError(fmt.Sprintf("failed to close %s", path)).
			WithCause(closeErr).
			WithContext("path", path).
			Build()
	}
	return n, nil
}
