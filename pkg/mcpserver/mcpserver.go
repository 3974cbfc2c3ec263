// Package mcpserver exposes provider identities and model discovery as MCP
// tools using the official MCP Go SDK.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/germanamz/modelgate/pkg/providers/model"
	"github.com/germanamz/modelgate/pkg/providers/settings"
	"github.com/germanamz/modelgate/pkg/registry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SourcesFunc returns the configuration sources for one tool call. It is
// called on every call so connection settings are never reused.
type SourcesFunc func() settings.Sources

// Handler executes a tool call with raw JSON arguments.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

type tool struct {
	name        string
	description string
	schema      json.RawMessage
	handler     Handler
}

// MCPServer serves the discovery tools over the MCP protocol.
type MCPServer struct {
	server  *mcp.Server
	reg     *registry.Registry
	sources SourcesFunc
}

// New creates an MCPServer with the given name and version whose tools are
// backed by reg.
func New(name, version string, reg *registry.Registry, sources SourcesFunc) *MCPServer {
	s := &MCPServer{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: version,
		}, nil),
		reg:     reg,
		sources: sources,
	}

	for _, t := range s.tools() {
		s.server.AddTool(&mcp.Tool{
			Name:        t.name,
			Description: t.description,
			InputSchema: t.schema,
		}, toSDKHandler(t.handler))
	}

	return s
}

// Serve starts serving MCP requests. It reads requests from in and writes
// responses to out. It blocks until ctx is cancelled or the transport closes.
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	transport := &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	}

	return s.run(ctx, transport)
}

// run starts the server with the given transport. Tests call it directly
// with in-memory transports.
func (s *MCPServer) run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

func (s *MCPServer) tools() []tool {
	return []tool{
		{
			name:        "list_providers",
			description: "List the configured model providers with their metadata.",
			schema:      json.RawMessage(`{"type":"object"}`),
			handler:     s.listProviders,
		},
		{
			name:        "list_models",
			description: "Discover the models offered by one provider, or by all providers when none is given.",
			schema:      json.RawMessage(`{"type":"object","properties":{"provider":{"type":"string","description":"Provider name, e.g. Ollama or LMStudio"}}}`),
			handler:     s.listModels,
		},
	}
}

func (s *MCPServer) listProviders(_ context.Context, _ json.RawMessage) (string, error) {
	return marshal(s.reg.Identities())
}

type listModelsInput struct {
	Provider string `json:"provider"`
}

func (s *MCPServer) listModels(ctx context.Context, input json.RawMessage) (string, error) {
	var in listModelsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("list_models: invalid input: %w", err)
	}

	src := s.sources()

	if in.Provider == "" {
		return marshal(s.reg.DiscoverAll(ctx, src))
	}

	models, err := s.reg.Discover(ctx, in.Provider, src)
	if err != nil {
		return "", err
	}

	return marshal(map[string][]model.Descriptor{in.Provider: models})
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// toSDKHandler wraps a Handler as an SDK ToolHandler. Handler errors become
// tool error results rather than protocol errors.
func toSDKHandler(h Handler) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.Params.Arguments
		if args == nil {
			args = json.RawMessage("{}")
		}
		result, err := h(ctx, args)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				IsError: true,
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result}},
		}, nil
	}
}

// nopWriteCloser wraps an io.Writer as an io.WriteCloser with a no-op Close.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
