package commands

import (
	"fmt"

	"git.home.luguber.info/inful/appflowbuild/internal/version"
)

// VersionCmd prints build metadata.
type VersionCmd struct{}

func (v *VersionCmd) Run(g *Global) error {
	_, err := fmt.Fprintf(g.out(), "appflowbuild %s\ncommit: %s\nbuilt: %s\nuser-agent: %s\n",
		version.Version, version.GitCommit, version.BuildTime, version.UserAgent())
	return err
}
