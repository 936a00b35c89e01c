package dashboard

import (
	"errors"
	"fmt"
	"time"
)

var (
	errMissingRepository = errors.New("dashboard: payload repository not configured")
	errMissingRegistry   = errors.New("dashboard: engine registry not configured")
	errMissingLoader     = errors.New("dashboard: asset loader not configured")
)

// AssetTimeoutError reports a visual capability that never became available
// within its polling budget. The loader clears its in-flight record when it
// returns this error, so a later Acquire starts a fresh poll.
type AssetTimeoutError struct {
	Capability string
	Budget     time.Duration
}

func (e *AssetTimeoutError) Error() string {
	return fmt.Sprintf("dashboard: %s engine not available after %s", e.Capability, e.Budget)
}

// IsAssetTimeout reports whether err wraps an AssetTimeoutError.
func IsAssetTimeout(err error) bool {
	var timeout *AssetTimeoutError
	return errors.As(err, &timeout)
}
