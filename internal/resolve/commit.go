package resolve

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

// CommitPageSize is the page size used when scanning an app's commits.
const CommitPageSize = 100

// Commit scans the app's commits page by page for sha and stops at the
// first match, even when more pages remain.
func Commit(ctx context.Context, r appflow.Requester, app appflow.App, sha string) (*appflow.Commit, error) {
	path := appflow.ResourcePath(app.ID, appflow.ResourceCommits)
	for page := 1; ; page++ {
		p, err := appflow.FetchPage[appflow.Commit](ctx, r, path, page, CommitPageSize)
		if err != nil {
			return nil, err
		}
		for i := range p.Items {
			if p.Items[i].SHA == sha {
				return &p.Items[i], nil
			}
		}
		if !p.HasMore || len(p.Items) == 0 {
			break
		}
	}
	return nil, errors.NotFoundError(fmt.Sprintf("Couldn't find commit with sha: %s in Appflow.", sha)).
		WithContext("sha", sha).
		WithContext("app", app.ID).
		Build()
}
