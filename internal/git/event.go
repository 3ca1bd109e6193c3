package git

import (
	"encoding/json"
	"fmt"
	"os"

	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

// Event is the subset of a CI event payload the run reads.
type Event struct {
	PullRequest *PullRequest `json:"pull_request,omitempty"`
}

// PullRequest identifies the head of a pull request event.
type PullRequest struct {
	Number int     `json:"number"`
	Head   GitRef  `json:"head"`
	Base   *GitRef `json:"base,omitempty"`
}

// GitRef is a branch reference with its commit.
type GitRef struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// ReadEvent decodes the event payload at path.
func ReadEvent(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileSystemError(fmt.Sprintf("failed to read event payload %s", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, errors.ValidationError(fmt.Sprintf("failed to parse event payload %s", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return &ev, nil
}

func (e *Event) pullRequest() *PullRequest {
	if e == nil {
		return nil
	}
	return e.PullRequest
}
