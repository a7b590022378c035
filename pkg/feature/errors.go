package feature

import "errors"

// Predefined errors for the feature package.
var (
	// ErrFlagNotFound indicates that the requested toggle was not found in the provider.
	ErrFlagNotFound = errors.New("feature flag not found")

	// ErrInvalidFlag indicates that the provided flag parameters are invalid.
	ErrInvalidFlag = errors.New("invalid feature flag parameters")

	// ErrInvalidStrategy indicates an issue with the rollout strategy configuration.
	ErrInvalidStrategy = errors.New("invalid feature rollout strategy")

	// ErrInvalidType indicates an empty or malformed feature type identifier.
	ErrInvalidType = errors.New("invalid feature type identifier")

	// ErrDuplicateType indicates a type identifier registered twice in a catalog.
	ErrDuplicateType = errors.New("feature type already registered")

	// ErrUnknownType indicates that no source can instantiate the identifier.
	ErrUnknownType = errors.New("unknown feature type")

	// ErrInvalidDefinition indicates a feature definition file that cannot be parsed.
	ErrInvalidDefinition = errors.New("invalid feature definition")

	// ErrDiscoveryFailed indicates that a source failed to list feature types.
	ErrDiscoveryFailed = errors.New("feature discovery failed")

	// ErrProviderUnavailable indicates the toggle storage backend could not be reached.
	ErrProviderUnavailable = errors.New("feature provider unavailable")
)

func joinInvalid(msg string) error {
	return errors.Join(ErrInvalidFlag, errors.New(msg))
}
