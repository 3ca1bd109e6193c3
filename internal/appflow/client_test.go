package appflow

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

func TestClient_NewRequest(t *testing.T) {
	tests := []struct {
		name      string
		apiURL    string
		endpoint  string
		body      any
		wantPath  string
		wantQuery string
	}{
		{
			name:     "root api url",
			apiURL:   "https://api.example.com/",
			endpoint: "/stacks",
			wantPath: "/stacks",
		},
		{
			name:     "base path preserved",
			apiURL:   "https://api.example.com/v1",
			endpoint: "/apps/abc/commits",
			wantPath: "/v1/apps/abc/commits",
		},
		{
			name:      "query string kept",
			apiURL:    "https://api.example.com",
			endpoint:  "/apps/abc/channels?page=2&page_size=1&meta_fields=total",
			wantPath:  "/apps/abc/channels",
			wantQuery: "page=2&page_size=1&meta_fields=total",
		},
		{
			name:     "trailing slash kept",
			apiURL:   "https://api.example.com",
			endpoint: "/apps/abc/deploys/",
			body:     map[string]int{"commit_id": 1},
			wantPath: "/apps/abc/deploys/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.apiURL, "secret", 0, WithUserAgent("AppflowBuildAction/test"))
			req, err := c.NewRequest(context.Background(), http.MethodGet, tt.endpoint, tt.body)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPath, req.URL.Path)
			assert.Equal(t, tt.wantQuery, req.URL.RawQuery)
			assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
			assert.Equal(t, "AppflowBuildAction/test", req.Header.Get("User-Agent"))
			if tt.body != nil {
				assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
				raw, _ := io.ReadAll(req.Body)
				assert.JSONEq(t, `{"commit_id":1}`, string(raw))
			}
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "tok", 0)
	assert.Equal(t, DefaultAPIURL, c.APIURL())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)

	c = NewClient("http://x", "tok", 30*time.Second)
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
}

func TestClient_Do_StatusClassification(t *testing.T) {
	tests := []struct {
		status   int
		category errors.ErrorCategory
		canRetry bool
	}{
		{http.StatusUnauthorized, errors.CategoryAuth, false},
		{http.StatusForbidden, errors.CategoryAuth, false},
		{http.StatusNotFound, errors.CategoryNotFound, false},
		{http.StatusInternalServerError, errors.CategoryRemote, true},
		{http.StatusBadRequest, errors.CategoryRemote, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "tok", 0)
			err := c.Get(context.Background(), "/stacks", nil)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, tt.category), "got %v", errors.GetCategory(err))
			classified, ok := errors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, tt.canRetry, classified.CanRetry())

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.JSONEq(t, `{"error":{"message":"boom"}}`, string(apiErr.ResponseBody()))
		})
	}
}

func TestClient_Do_NetworkAndDecodeErrors(t *testing.T) {
	t.Run("network failure is retryable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := NewClient(url, "tok", time.Second).Get(context.Background(), "/stacks", nil)
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryNetwork))
		classified, _ := errors.AsClassified(err)
		assert.True(t, classified.CanRetry())
	})

	t.Run("invalid json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data": [`))
		}))
		defer srv.Close()

		var out Envelope[[]Stack]
		err := NewClient(srv.URL, "tok", 0).Get(context.Background(), "/stacks", &out)
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryRemote))
	})
}

func TestClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["commit_id"])
		_, _ = w.Write([]byte(`{"data":{"job_id":99,"state":"created"}}`))
	}))
	defer srv.Close()

	b, err := PostData[Build](context.Background(), NewClient(srv.URL, "tok", 0), "/apps/a/deploys/", map[string]int{"commit_id": 7})
	require.NoError(t, err)
	assert.Equal(t, int64(99), b.JobID)
	assert.Equal(t, StateCreated, b.State)
	assert.Empty(t, b.Trace())
}
