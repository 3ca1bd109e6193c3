package git

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// HeadSHA returns the commit HEAD points to in the repository containing path.
// Parent directories are searched for the .git directory.
func HeadSHA(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", path, err)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD in %s: %w", path, err)
	}
	return ref.Hash().String(), nil
}
