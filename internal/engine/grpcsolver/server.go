package grpcsolver

import (
	"context"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"

	"github.com/workforce-eng/shiftsched/internal/engine/sdk"
)

// Ensure SolverPlugin implements the GRPCPlugin interface.
var _ plugin.GRPCPlugin = (*SolverPlugin)(nil)

// GRPCServer satisfies plugin.GRPCPlugin. It registers no service on s
// and always returns nil.
func (p *SolverPlugin) GRPCServer(broker *plugin.GRPCBroker, s *grpc.Server) error {
	return nil
}

// GRPCClient returns the client-side stub for a solver plugin.
func (p *SolverPlugin) GRPCClient(ctx context.Context, broker *plugin.GRPCBroker, c *grpc.ClientConn) (interface{}, error) {
	return &Client{conn: c}, nil
}

// Client is the host-side handle to an out-of-process solver engine. It
// holds the connection but sends nothing over it: its only method is
// Metadata, and it does not implement sdk.Engine.
type Client struct {
	conn *grpc.ClientConn
}

var _ interface {
	Metadata() sdk.EngineMetadata
} = (*Client)(nil)

// Metadata returns the remote engine's identity.
func (c *Client) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{ID: "external.unconfigured"}
}
