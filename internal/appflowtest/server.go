// Package appflowtest provides an in-process fake of the build service API for tests.
//
// The fake serves every endpoint the run uses with the same envelope and
// pagination semantics as the real service, records each request, and lets
// tests script the sequence of build snapshots a poller observes.
package appflowtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
)

// Token is the bearer token the fake accepts unless overridden.
const Token = "test-token"

// BuildStep is one scripted response to a build poll. A non-zero Status makes
// the poll fail with that HTTP status instead of returning a snapshot.
type BuildStep struct {
	State  appflow.BuildState
	Trace  string
	Status int
}

// Request is a recorded request.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// Server is a fake build service. Configure the exported fields before the
// code under test issues requests.
type Server struct {
	*httptest.Server

	Token string
	User  appflow.User
	App   appflow.App

	Stacks        []appflow.Stack
	Commits       []appflow.Commit
	Certificates  []appflow.Certificate
	Environments  []appflow.Environment
	NativeConfigs []appflow.NativeConfig
	Channels      []appflow.Channel
	Credentials   []appflow.DistributionCredential

	// JobID is returned for created deploys and packages.
	JobID int64
	// BuildSteps are consumed one per poll; the last step repeats.
	BuildSteps []BuildStep
	// Artifact is served from the download URL.
	Artifact []byte
	// OmitDownloadURL makes the download endpoint return an empty url.
	OmitDownloadURL bool
	// UserStatus, when set, is returned by /users/self.
	UserStatus int

	mu       sync.Mutex
	requests []Request
	polls    int
}

// New starts a fake with a default app and registers its shutdown with t.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		Token: Token,
		User:  appflow.User{Username: "ci-bot"},
		App:   appflow.App{ID: "abc123", Name: "Demo"},
		JobID: 4242,
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// Client returns an API client pointed at the fake.
func (s *Server) Client() *appflow.Client {
	return appflow.NewClient(s.URL, s.Token, 0)
}

// Requests returns a copy of every recorded request.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LastBody decodes the body of the last request to path into v.
func (s *Server) LastBody(path string, v any) error {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Path == path {
			return json.Unmarshal(reqs[i].Body, v)
		}
	}
	return fmt.Errorf("no request to %s", path)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/self", s.handleUser)
	mux.HandleFunc("GET /stacks", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, s.Stacks)
	})
	mux.HandleFunc("GET /apps/{app}", s.withApp(func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, s.App)
	}))
	mux.HandleFunc("GET /apps/{app}/{resource}", s.withApp(s.handleList))
	mux.HandleFunc("POST /apps/{app}/deploys/{$}", s.withApp(s.handleCreate))
	mux.HandleFunc("POST /apps/{app}/packages/{$}", s.withApp(s.handleCreate))
	mux.HandleFunc("GET /apps/{app}/builds/{job}", s.withApp(s.handleBuild))
	mux.HandleFunc("GET /apps/{app}/packages/{job}/download", s.withApp(s.handleDownloadURL))
	mux.HandleFunc("GET /artifacts/{job}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(s.Artifact)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
		s.mu.Unlock()

		// Download URLs are pre-signed; they carry no bearer token.
		if !strings.HasPrefix(r.URL.Path, "/artifacts/") && r.Header.Get("Authorization") != "Bearer "+s.Token {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (s *Server) withApp(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("app") != s.App.ID {
			writeError(w, http.StatusNotFound, "app not found")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleUser(w http.ResponseWriter, _ *http.Request) {
	if s.UserStatus != 0 {
		writeError(w, s.UserStatus, http.StatusText(s.UserStatus))
		return
	}
	writeData(w, s.User)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	switch appflow.Resource(r.PathValue("resource")) {
	case appflow.ResourceCommits:
		writePage(w, r, s.Commits)
	case appflow.ResourceProfiles:
		writePage(w, r, s.Certificates)
	case appflow.ResourceEnvironments:
		writePage(w, r, s.Environments)
	case appflow.ResourceNativeConfigs:
		writePage(w, r, s.NativeConfigs)
	case appflow.ResourceChannels:
		writePage(w, r, s.Channels)
	case appflow.ResourceDistributionCredentials:
		writePage(w, r, s.Credentials)
	default:
		writeError(w, http.StatusNotFound, "unknown resource")
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, _ *http.Request) {
	writeData(w, appflow.Build{JobID: s.JobID, State: appflow.StateCreated, Job: &appflow.Job{}})
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(r.PathValue("job"), 10, 64)
	if err != nil || jobID != s.JobID {
		writeError(w, http.StatusNotFound, "build not found")
		return
	}

	s.mu.Lock()
	idx := s.polls
	s.polls++
	s.mu.Unlock()

	if len(s.BuildSteps) == 0 {
		writeData(w, appflow.Build{JobID: jobID, State: appflow.StateSuccess, Job: &appflow.Job{}})
		return
	}
	if idx >= len(s.BuildSteps) {
		idx = len(s.BuildSteps) - 1
	}
	step := s.BuildSteps[idx]
	if step.Status != 0 {
		writeError(w, step.Status, http.StatusText(step.Status))
		return
	}
	writeData(w, appflow.Build{JobID: jobID, State: step.State, Job: &appflow.Job{Trace: step.Trace}})
}

func (s *Server) handleDownloadURL(w http.ResponseWriter, r *http.Request) {
	if s.OmitDownloadURL {
		writeData(w, map[string]string{})
		return
	}
	writeData(w, map[string]string{"url": s.URL + "/artifacts/" + r.PathValue("job")})
}

func writePage[T any](w http.ResponseWriter, r *http.Request, items []T) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 25
	}

	start := min((page-1)*size, len(items))
	end := min(start+size, len(items))
	writeJSON(w, http.StatusOK, appflow.Envelope[[]T]{
		Data: append([]T{}, items[start:end]...),
		Meta: &appflow.Meta{Total: len(items)},
	})
}

func writeData[T any](w http.ResponseWriter, data T) {
	writeJSON(w, http.StatusOK, appflow.Envelope[T]{Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"message": message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
