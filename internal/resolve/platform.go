package resolve

import (
	"fmt"

	"git.home.luguber.info/inful/appflowbuild/internal/appflow"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/normalization"
)

// Surrounding whitespace is not accepted, only case is folded.
var platformNormalizer = normalization.WithCustomNormalizer(map[string]appflow.Platform{
	"ios":     appflow.PlatformIOS,
	"android": appflow.PlatformAndroid,
	"web":     appflow.PlatformWeb,
}, "", normalization.Lower)

// Platform maps a case-insensitive platform name to the service identifier.
func Platform(raw string) (appflow.Platform, error) {
	p, ok := platformNormalizer.Lookup(raw)
	if !ok {
		return "", errors.ValidationError(fmt.Sprintf("%s is not a valid platform. must be one of (Web, iOS, Android).", raw)).
			WithContext("platform", raw).
			Build()
	}
	return p, nil
}
