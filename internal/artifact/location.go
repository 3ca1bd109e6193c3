// Package artifact computes where a native build's binary is stored and
// downloads it there.
package artifact

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/config"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

// Extension returns the binary extension of a native platform.
func Extension(p appflow.Platform) string {
	if p == appflow.PlatformAndroid {
		return ".apk"
	}
	return ".ipa"
}

// FileLocation returns {home}/{filename}. Home falls back to the user's home
// directory when the workflow does not set it. The filename defaults to
// "{workflow}-{run id}" and gains the platform extension unless it already
// ends with it; without a filename both workflow values must be set.
func FileLocation(filename string, wf config.Workflow, p appflow.Platform) (string, error) {
	if filename == "" {
		if wf.Name == "" || wf.RunID == "" {
			return "", errors.ConfigError("filename required when GITHUB_WORKFLOW and GITHUB_RUN_ID are not set").
				WithContext("workflow", wf.Name).
				WithContext("run_id", wf.RunID).
				Build()
		}
		filename = wf.Name + "-" + wf.RunID
	}
	if ext := Extension(p); !strings.HasSuffix(filename, ext) {
		filename += ext
	}

	home := wf.Home
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return "", errors.ConfigError("unable to determine home directory for the artifact").
				WithCause(err).
				Build()
		}
	}
	return filepath.Join(home, filename), nil
}
