package bridge

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "searchbridge"
	serverVersion = "0.1.0"
)

// searchArgs is the input contract of the search tool. The schema is
// inferred from the struct tags.
type searchArgs struct {
	Queries []string `json:"queries" jsonschema:"One or more concise, keyword-focused search queries. Include essential context within each query for standalone use."`
}

// NewServer builds the MCP server with the search tool registered.
func (b *Bridge) NewServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Perform web search based on one or more queries. Results are from all queries given. They are numbered continuously, so that a user may be able to refer to a result by a specific number.",
	}, b.handleSearch)

	return server
}

// Serve runs the MCP server over stdio until the client disconnects or ctx
// is cancelled.
func (b *Bridge) Serve(ctx context.Context) error {
	b.log.Infof("Serving MCP over stdio")
	return b.NewServer().Run(ctx, &mcp.StdioTransport{})
}

// handleSearch adapts the tool call to the synchronous Search entry point.
// The tool never fails at the protocol level: all failures come back as an
// "Error: ..." text block.
func (b *Bridge) handleSearch(ctx context.Context, req *mcp.CallToolRequest, args searchArgs) (*mcp.CallToolResult, any, error) {
	text := b.Search(ctx, args.Queries)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}
