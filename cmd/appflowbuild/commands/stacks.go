package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/config"
	"git.home.luguber.info/inful/appflowbuild/internal/resolve"
	"git.home.luguber.info/inful/appflowbuild/internal/version"
)

// StacksCmd lists the build stacks, optionally for a single platform.
type StacksCmd struct {
	Token    string `help:"Personal access token for the build service" env:"APPFLOW_TOKEN" required:""`
	Platform string `help:"Only list stacks for this platform (Web, iOS, Android)" env:"APPFLOW_PLATFORM"`
	APIURL   string `name:"api-url" help:"Build service API base URL" env:"APPFLOW_API_URL"`
}

func (s *StacksCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	file, err := root.loadFile()
	if err != nil {
		return err
	}
	rc := config.Merge(config.Inputs{Token: s.Token, APIURL: s.APIURL}, file)

	var platform appflow.Platform
	if s.Platform != "" {
		if platform, err = resolve.Platform(s.Platform); err != nil {
			return err
		}
	}

	client := appflow.NewClient(rc.APIURL, rc.Token, rc.RequestTimeout,
		appflow.WithUserAgent(version.UserAgent()))
	stacks, err := appflow.ListStacks(ctx, client)
	if err != nil {
		return err
	}
	if platform != "" {
		stacks = resolve.ForPlatform(stacks, platform)
	}

	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLATFORM\tSTACK\tLATEST\tBUILD TYPES")
	for i := range stacks {
		st := &stacks[i]
		latest := ""
		if st.Latest {
			latest = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", st.Platform, st.FriendlyName, latest, st.BuildTypeList())
	}
	return tw.Flush()
}
