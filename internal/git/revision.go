package git

import (
	"log/slog"

	"git.home.luguber.info/inful/appflowbuild/internal/config"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/logfields"
)

// Source records where a revision was taken from.
type Source string

const (
	SourcePullRequest Source = "pull_request"
	SourceWorkflow    Source = "workflow"
	SourceRepository  Source = "repository"
)

// Revision is the commit a run builds.
type Revision struct {
	SHA    string
	Source Source
}

// ResolveRevision picks the revision for wf. A pull request head in the
// event payload wins over the workflow sha, which wins over the HEAD of the
// workspace repository.
func ResolveRevision(wf config.Workflow) (Revision, error) {
	if wf.EventPath != "" {
		ev, err := ReadEvent(wf.EventPath)
		switch {
		case errors.HasCategory(err, errors.CategoryFileSystem):
			// An absent payload is treated as an empty event.
			slog.Debug("Event payload unavailable", logfields.Path(wf.EventPath), logfields.Error(err))
			ev = nil
		case err != nil:
			return Revision{}, err
		}
		if pr := ev.pullRequest(); pr != nil && pr.Head.SHA != "" {
			slog.Debug("Pull request", slog.Int("number", pr.Number), slog.String("head_ref", pr.Head.Ref), slog.String("sha", pr.Head.SHA))
			return Revision{SHA: pr.Head.SHA, Source: SourcePullRequest}, nil
		}
	}

	if wf.SHA != "" {
		return Revision{SHA: wf.SHA, Source: SourceWorkflow}, nil
	}

	if wf.Workspace != "" {
		sha, err := HeadSHA(wf.Workspace)
		if err == nil {
			return Revision{SHA: sha, Source: SourceRepository}, nil
		}
		slog.Debug("No repository HEAD available", logfields.Path(wf.Workspace), logfields.Error(err))
	}

	return Revision{}, errors.ValidationError("Unable to determine commit sha").Build()
}
