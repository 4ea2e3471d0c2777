package sessiongate

import "errors"

var (
	// ErrStoreClosed is returned by Wait once the store has been closed.
	ErrStoreClosed = errors.New("session store closed")
	// ErrStoreNotReady is returned when a nil or unbuilt store is used.
	ErrStoreNotReady = errors.New("session store not initialized")
	// ErrBuilderUsed is returned when Build is called twice on one Builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrIdentityClientRequired is returned by Build when neither an identity
	// client nor an identity BaseURL is configured.
	ErrIdentityClientRequired = errors.New("identity client required")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrProviderUnavailable is returned by ProviderStartURL when the identity
	// client cannot build provider handoff URLs.
	ErrProviderUnavailable = errors.New("identity provider handoff unavailable")
)
