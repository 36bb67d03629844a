// Package grpcsolver provides gRPC-based plugin communication for
// out-of-process solver engines, using HashiCorp's go-plugin for process
// isolation the same way the teacher's marketplace engine plugins do.
package grpcsolver

import (
	"github.com/hashicorp/go-plugin"

	"github.com/workforce-eng/shiftsched/internal/engine/sdk"
)

// HandshakeConfig verifies a plugin binary is compatible with this host.
// Both host and plugin processes must use the same handshake.
var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SHIFTSCHED_SOLVER_PLUGIN",
	MagicCookieValue: "shiftsched-solver-v1",
}

// PluginMap is the map of plugins a solver plugin process can dispense.
var PluginMap = map[string]plugin.Plugin{
	"solver": &SolverPlugin{},
}

// SolverPlugin is the plugin.Plugin implementation for out-of-process
// solver engines.
type SolverPlugin struct {
	plugin.Plugin
	// Impl is the concrete implementation, set on the plugin side.
	Impl sdk.Engine
}
