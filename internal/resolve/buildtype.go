package resolve

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/normalization"
)

func buildTypeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

var buildTypeNormalizer = func() *normalization.Normalizer[appflow.BuildTypeName] {
	values := make(map[string]appflow.BuildTypeName, len(appflow.BuildTypeNames))
	for _, n := range appflow.BuildTypeNames {
		values[string(n)] = n
	}
	return normalization.WithCustomNormalizer(values, "", buildTypeKey)
}()

func buildTypeChoices() string {
	names := make([]string, 0, len(appflow.BuildTypeNames))
	for _, n := range appflow.BuildTypeNames {
		names = append(names, string(n))
	}
	return strings.Join(names, ", ")
}

// BuildType selects the requested build type from the types stack offers.
// platform is the name as the user gave it and only appears in messages.
//
// A stack without build types yields nil whatever was requested. Otherwise a
// build type is mandatory, must be a known name ("App Store" is read as
// app-store), and must be offered by the stack.
func BuildType(requested, platform string, stack *appflow.Stack) (*appflow.BuildType, error) {
	if len(stack.BuildTypes) == 0 {
		return nil, nil
	}

	if requested == "" {
		return nil, errors.ValidationError(fmt.Sprintf("build-type required for platform %s must be one of (%s)", platform, stack.BuildTypeList())).
			WithContext("stack", stack.FriendlyName).
			Build()
	}

	name, ok := buildTypeNormalizer.Lookup(requested)
	if !ok {
		return nil, errors.ValidationError(fmt.Sprintf("%s is not a valid build type. Must be one of (%s)", requested, buildTypeChoices())).
			WithContext("build_type", requested).
			Build()
	}

	for i := range stack.BuildTypes {
		if stack.BuildTypes[i].Name == name {
			bt := stack.BuildTypes[i]
			return &bt, nil
		}
	}
	return nil, errors.ValidationError(fmt.Sprintf("build-type %s not available for platform %s must be one of (%s)", requested, platform, stack.BuildTypeList())).
		WithContext("build_type", requested).
		WithContext("stack", stack.FriendlyName).
		Build()
}
