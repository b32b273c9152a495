package mcp

import "github.com/mark3labs/mcp-go/mcp"

// rankConstituenciesTool defines the rank_constituencies MCP tool.
var rankConstituenciesTool = mcp.NewTool("rank_constituencies",
	mcp.WithDescription("Rank UK constituencies by petition signatures per head of population. Returns the highest and lowest constituencies."),
	mcp.WithString("petition_id",
		mcp.Description("Numeric petition id (default: the configured petition)"),
	),
	mcp.WithNumber("k",
		mcp.Description("Total constituencies to return, split between top and bottom (default 100)"),
	),
)

// constituencyDetailTool defines the constituency_detail MCP tool.
var constituencyDetailTool = mcp.NewTool("constituency_detail",
	mcp.WithDescription("Get name, MP, population and signature share for one constituency."),
	mcp.WithString("code",
		mcp.Required(),
		mcp.Description("ONS constituency code, e.g. E14000639"),
	),
	mcp.WithString("petition_id",
		mcp.Description("Numeric petition id (default: the configured petition)"),
	),
)

// listPetitionsTool defines the list_petitions MCP tool.
var listPetitionsTool = mcp.NewTool("list_petitions",
	mcp.WithDescription("List the petitions currently published on the petitions site."),
)
