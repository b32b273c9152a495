package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/petitionmap/internal/ranking"
	"github.com/ziadkadry99/petitionmap/internal/snapshot"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes petition ranking tools.
type Server struct {
	store           *snapshot.Store
	defaultPetition string
	opts            ranking.Options
	mcp             *server.MCPServer
}

// NewServer creates a new MCP server reading petitions from store.
func NewServer(store *snapshot.Store, defaultPetition string, opts ranking.Options) *Server {
	s := &Server{
		store:           store,
		defaultPetition: defaultPetition,
		opts:            opts,
	}

	s.mcp = server.NewMCPServer(
		"petitionmap",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(rankConstituenciesTool, s.handleRankConstituencies)
	s.mcp.AddTool(constituencyDetailTool, s.handleConstituencyDetail)
	s.mcp.AddTool(listPetitionsTool, s.handleListPetitions)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
