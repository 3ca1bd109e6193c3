package resolve

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

// Resources resolves named resources scoped to one app.
type Resources struct {
	r   appflow.Requester
	app appflow.App

	// PageSize is passed to appflow.FetchAll; zero selects its default.
	PageSize int
}

// NewResources returns a resolver for the resources of app.
func NewResources(r appflow.Requester, app appflow.App) *Resources {
	return &Resources{r: r, app: app}
}

// Certificate resolves a signing certificate by name. An empty name yields nil.
func (res *Resources) Certificate(ctx context.Context, name string) (*appflow.Certificate, error) {
	return findNamed(ctx, res, appflow.ResourceProfiles, "Certificate", name,
		func(c appflow.Certificate) string { return c.Name })
}

// Environment resolves an environment by name. An empty name yields nil.
func (res *Resources) Environment(ctx context.Context, name string) (*appflow.Environment, error) {
	return findNamed(ctx, res, appflow.ResourceEnvironments, "Environment", name,
		func(e appflow.Environment) string { return e.Name })
}

// NativeConfig resolves a native config by name. An empty name yields nil.
func (res *Resources) NativeConfig(ctx context.Context, name string) (*appflow.NativeConfig, error) {
	return findNamed(ctx, res, appflow.ResourceNativeConfigs, "Native Config", name,
		func(c appflow.NativeConfig) string { return c.Name })
}

// Channels resolves a comma separated list of channel names. An empty list
// yields nil; every name must match exactly one channel.
func (res *Resources) Channels(ctx context.Context, destinations string) ([]appflow.Channel, error) {
	return findAll(ctx, res, appflow.ResourceChannels, "channel", "Couldn't find channel destination for (%s)", destinations,
		func(c appflow.Channel) string { return c.Name })
}

// DistributionCredentials resolves a comma separated list of distribution
// credential names. An empty list yields nil; every name must match exactly
// one credential.
func (res *Resources) DistributionCredentials(ctx context.Context, destinations string) ([]appflow.DistributionCredential, error) {
	return findAll(ctx, res, appflow.ResourceDistributionCredentials, "destination", "Couldn't find destination for (%s)", destinations,
		func(c appflow.DistributionCredential) string { return c.Name })
}

// DestinationNames splits a comma separated destination list and trims each
// name. An empty list yields nil; an empty or repeated name is rejected.
func DestinationNames(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			return nil, errors.ValidationError(fmt.Sprintf("malformed destination list: %q", raw)).
				WithContext("destinations", raw).
				Build()
		}
		if slices.Contains(names, name) {
			return nil, errors.ValidationError(fmt.Sprintf("Destination (%s) listed more than once.", name)).
				WithContext("destinations", raw).
				Build()
		}
		names = append(names, name)
	}
	return names, nil
}

func findNamed[T any](ctx context.Context, res *Resources, resource appflow.Resource, kind, name string, nameOf func(T) string) (*T, error) {
	if name == "" {
		return nil, nil
	}
	items, err := appflow.FetchAll[T](ctx, res.r, appflow.ResourcePath(res.app.ID, resource), res.PageSize)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if nameOf(items[i]) == name {
			return &items[i], nil
		}
	}
	return nil, errors.NotFoundError(fmt.Sprintf("Couldn't find %s with name: %s for App: %s.", kind, name, res.app.Name)).
		WithContext("resource", string(resource)).
		WithContext("name", name).
		WithContext("app", res.app.ID).
		Build()
}

func findAll[T any](ctx context.Context, res *Resources, resource appflow.Resource, kind, missingFormat, raw string, nameOf func(T) string) ([]T, error) {
	names, err := DestinationNames(raw)
	if err != nil || names == nil {
		return nil, err
	}
	items, err := appflow.FetchAll[T](ctx, res.r, appflow.ResourcePath(res.app.ID, resource), res.PageSize)
	if err != nil {
		return nil, err
	}

	byName := make(map[string][]T, len(names))
	for _, item := range items {
		if n := nameOf(item); slices.Contains(names, n) {
			byName[n] = append(byName[n], item)
		}
	}

	// Each requested name must match exactly one resource.
	var missing, ambiguous []string
	matched := make([]T, 0, len(names))
	for _, n := range names {
		switch len(byName[n]) {
		case 0:
			missing = append(missing, n)
		case 1:
			matched = append(matched, byName[n][0])
		default:
			ambiguous = append(ambiguous, n)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NotFoundError(fmt.Sprintf(missingFormat, strings.Join(missing, ", "))).
			WithContext("resource", string(resource)).
			WithContext("missing", missing).
			WithContext("app", res.app.ID).
			Build()
	}
	if len(ambiguous) > 0 {
		return nil, errors.ValidationError(fmt.Sprintf("More than one %s named (%s) for App: %s.", kind, strings.Join(ambiguous, ", "), res.app.Name)).
			WithContext("resource", string(resource)).
			WithContext("ambiguous", ambiguous).
			WithContext("app", res.app.ID).
			Build()
	}
	return matched, nil
}
