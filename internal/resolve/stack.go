package resolve

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

// Stack fetches the stack catalog once and picks the stack for platform:
// the one named name, or the one flagged latest when name is empty.
// displayPlatform is the platform as the user wrote it, used in messages.
func Stack(ctx context.Context, r appflow.Requester, platform appflow.Platform, displayPlatform, name string) (*appflow.Stack, error) {
	stacks, err := appflow.ListStacks(ctx, r)
	if err != nil {
		return nil, err
	}
	return SelectStack(stacks, platform, displayPlatform, name)
}

// SelectStack applies the stack selection rules to an already fetched catalog.
func SelectStack(stacks []appflow.Stack, platform appflow.Platform, displayPlatform, name string) (*appflow.Stack, error) {
	candidates := ForPlatform(stacks, platform)
	if len(candidates) == 0 {
		return nil, errors.NotFoundError(fmt.Sprintf("Couldn't find stack for platform: %s", displayPlatform)).
			WithContext("platform", string(platform)).
			Build()
	}

	if name == "" {
		for i := range candidates {
			if candidates[i].Latest {
				return &candidates[i], nil
			}
		}
		return nil, errors.NotFoundError(fmt.Sprintf("Couldn't find latest stack for platform: %s", displayPlatform)).
			WithContext("platform", string(platform)).
			Build()
	}

	for i := range candidates {
		if candidates[i].FriendlyName == name {
			return &candidates[i], nil
		}
	}
	return nil, errors.NotFoundError(fmt.Sprintf("Couldn't find stack for platform: %s matching name: %s", displayPlatform, name)).
		WithContext("platform", string(platform)).
		WithContext("stack", name).
		Build()
}

// ForPlatform returns the stacks of platform in catalog order.
func ForPlatform(stacks []appflow.Stack, platform appflow.Platform) []appflow.Stack {
	var out []appflow.Stack
	for _, s := range stacks {
		if s.Platform == platform {
			out = append(out, s)
		}
	}
	return out
}
