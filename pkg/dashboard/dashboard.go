package dashboard

import (
	core "github.com/Ian-Rin/eco/components/dashboard"
)

// Engine exposes the underlying components/dashboard.Engine type.
type Engine = core.Engine

// BootstrapOptions re-export for convenience.
type BootstrapOptions = core.BootstrapOptions

// Bootstrap proxies to the internal constructor.
func Bootstrap(opts BootstrapOptions) (*Engine, error) {
	return core.Bootstrap(opts)
}
