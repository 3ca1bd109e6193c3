package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFiles are the dotenv files LoadEnvFiles considers, in priority order.
var EnvFiles = []string{".env.local", ".env"}

// LoadEnvFiles loads the first dotenv file found in dir. Variables already
// present in the process environment are not overridden. It returns the path
// that was loaded, or "" if none exists.
func LoadEnvFiles(dir string) (string, error) {
	for _, name := range EnvFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return "", nil
}

// Workflow carries the CI workflow variables the run depends on.
type Workflow struct {
	Home       string
	Name       string
	RunID      string
	SHA        string
	EventPath  string
	Workspace  string
	OutputFile string
}

// WorkflowFromEnv reads the workflow variables through getenv so tests can
// supply a map instead of the process environment.
func WorkflowFromEnv(getenv func(string) string) Workflow {
	if getenv == nil {
		getenv = os.Getenv
	}
	return Workflow{
		Home:       getenv("HOME"),
		Name:       getenv("GITHUB_WORKFLOW"),
		RunID:      getenv("GITHUB_RUN_ID"),
		SHA:        getenv("GITHUB_SHA"),
		EventPath:  getenv("GITHUB_EVENT_PATH"),
		Workspace:  getenv("GITHUB_WORKSPACE"),
		OutputFile: getenv("GITHUB_OUTPUT"),
	}
}
