package appflow_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/appflowtest"
)

func commits(n int) []appflow.Commit {
	out := make([]appflow.Commit, n)
	for i := range out {
		out[i] = appflow.Commit{ID: int64(i + 1), SHA: fmt.Sprintf("sha-%03d", i+1)}
	}
	return out
}

func TestFetchAll_ConcatenatesPagesInOrder(t *testing.T) {
	srv := appflowtest.New(t)
	srv.Commits = commits(250)
	path := appflow.ResourcePath(srv.App.ID, appflow.ResourceCommits)

	got, err := appflow.FetchAll[appflow.Commit](context.Background(), srv.Client(), path, 100)
	require.NoError(t, err)

	require.Len(t, got, 250)
	for i, c := range got {
		assert.Equal(t, int64(i+1), c.ID)
	}
	assert.Equal(t, 3, srv.Count("GET", path))

	var sizes []string
	for _, r := range srv.Requests() {
		sizes = append(sizes, r.Query)
	}
	assert.Equal(t, []string{
		"page=1&page_size=100&meta_fields=total",
		"page=2&page_size=100&meta_fields=total",
		"page=3&page_size=100&meta_fields=total",
	}, sizes)
}

func TestFetchAll_SinglePageWhenTotalFits(t *testing.T) {
	srv := appflowtest.New(t)
	srv.Commits = commits(100)
	path := appflow.ResourcePath(srv.App.ID, appflow.ResourceCommits)

	got, err := appflow.FetchAll[appflow.Commit](context.Background(), srv.Client(), path, 100)
	require.NoError(t, err)
	assert.Len(t, got, 100)
	assert.Equal(t, 1, srv.Count("GET", path))
}

func TestFetchAll_DefaultPageSize(t *testing.T) {
	srv := appflowtest.New(t)
	srv.Environments = []appflow.Environment{{ID: 1, Name: "dev"}, {ID: 2, Name: "staging"}, {ID: 3, Name: "prod"}}
	path := appflow.ResourcePath(srv.App.ID, appflow.ResourceEnvironments)

	got, err := appflow.FetchAll[appflow.Environment](context.Background(), srv.Client(), path, 0)
	require.NoError(t, err)
	assert.Equal(t, srv.Environments, got)
	assert.Equal(t, 3, srv.Count("GET", path))
}

func TestFetchAll_EmptyList(t *testing.T) {
	srv := appflowtest.New(t)
	path := appflow.ResourcePath(srv.App.ID, appflow.ResourceChannels)

	got, err := appflow.FetchAll[appflow.Channel](context.Background(), srv.Client(), path, appflow.DefaultPageSize)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, srv.Count("GET", path))
}

func TestFetchPage_HasMore(t *testing.T) {
	srv := appflowtest.New(t)
	srv.Commits = commits(5)
	path := appflow.ResourcePath(srv.App.ID, appflow.ResourceCommits)
	ctx := context.Background()

	p, err := appflow.FetchPage[appflow.Commit](ctx, srv.Client(), path, 1, 2)
	require.NoError(t, err)
	assert.True(t, p.HasMore)
	assert.Len(t, p.Items, 2)

	p, err = appflow.FetchPage[appflow.Commit](ctx, srv.Client(), path, 3, 2)
	require.NoError(t, err)
	assert.False(t, p.HasMore)
	assert.Len(t, p.Items, 1)
}

func TestFetchAll_PropagatesErrors(t *testing.T) {
	srv := appflowtest.New(t)
	path := appflow.ResourcePath("unknown-app", appflow.ResourceCommits)

	_, err := appflow.FetchAll[appflow.Commit](context.Background(), srv.Client(), path, 10)
	require.Error(t, err)
}
