package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/petitionmap/internal/petition"
	"github.com/ziadkadry99/petitionmap/internal/ranking"
	"github.com/ziadkadry99/petitionmap/internal/snapshot"
)

// handleRankConstituencies returns both ends of the ratio ordering.
func (s *Server) handleRankConstituencies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, errResult := s.load(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	opts := s.opts
	if k := request.GetInt("k", 0); k > 0 {
		opts.K = k
	}
	res := st.Rank(opts)
	if len(res.Sorted) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Petition %s has no signatures in any mapped constituency yet.", st.PetitionID)), nil
	}

	return mcp.NewToolResultText(formatRanking(st, res)), nil
}

// handleConstituencyDetail answers a hover query for one constituency.
func (s *Server) handleConstituencyDetail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: code"), nil
	}

	st, errResult := s.load(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	d, err := st.Lookup(strings.TrimSpace(code))
	if errors.Is(err, ranking.ErrUnknownConstituency) {
		return mcp.NewToolResultError(fmt.Sprintf("No constituency with code %q on the map.", code)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatDetail(d)), nil
}

// handleListPetitions returns the listing feed.
func (s *Server) handleListPetitions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.store.Load(ctx, s.defaultPetition)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load petitions: %v", err)), nil
	}
	if st.Listing == nil || len(st.Listing.Data) == 0 {
		return mcp.NewToolResultText("No petitions listed."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d petition(s):\n", len(st.Listing.Data)))
	for _, p := range st.Listing.Data {
		sb.WriteString(fmt.Sprintf("- %d: %s", p.ID, p.Attributes.Action))
		if p.Attributes.SignatureCount > 0 {
			sb.WriteString(fmt.Sprintf(" (%s signatures)", humanize.Comma(int64(p.Attributes.SignatureCount))))
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// load resolves the petition_id argument and loads its State. A non-nil
// result is a tool error to hand back to the caller.
func (s *Server) load(ctx context.Context, request mcp.CallToolRequest) (*snapshot.State, *mcp.CallToolResult) {
	id := strings.TrimSpace(request.GetString("petition_id", ""))
	if id == "" {
		id = s.defaultPetition
	}
	if !petition.ValidID(id) {
		return nil, mcp.NewToolResultError(fmt.Sprintf("invalid petition_id %q: must be numeric", id))
	}
	st, err := s.store.Load(ctx, id)
	if errors.Is(err, petition.ErrNotFound) {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Petition %s does not exist.", id))
	}
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to load petition %s: %v", id, err))
	}
	return st, nil
}

// formatRanking renders a ranking pass for AI agent consumption.
func formatRanking(st *snapshot.State, res *ranking.Result) string {
	var sb strings.Builder
	attrs := st.Petition.Data.Attributes
	sb.WriteString(fmt.Sprintf("Petition %s: %s\n", st.PetitionID, attrs.Action))
	sb.WriteString(fmt.Sprintf("Total signatures: %s\n", humanize.Comma(int64(attrs.SignatureCount))))
	sb.WriteString(fmt.Sprintf("Constituencies with signatures: %d\n", len(res.Sorted)))
	sb.WriteString(fmt.Sprintf("Color scale ceiling: %.2f%%\n", res.TopRatio*100))
	if len(res.Unmatched) > 0 {
		sb.WriteString(fmt.Sprintf("Unmatched codes: %s\n", strings.Join(res.Unmatched, ", ")))
	}

	writeList := func(title string, js []ranking.Joined) {
		sb.WriteString(fmt.Sprintf("\n--- %s ---\n", title))
		for i, j := range js {
			sb.WriteString(fmt.Sprintf("%d. %s (%s), MP %s: %s signatures, %.2f%%\n",
				i+1, j.Name, j.Code, j.MP, humanize.Comma(int64(j.SignatureCount)), j.Ratio*100))
		}
	}
	writeList("Top", res.Top)
	writeList("Bottom", res.Bottom)
	return sb.String()
}

func formatDetail(d ranking.Detail) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s)\n", d.Name, d.Code))
	sb.WriteString(fmt.Sprintf("MP: %s\n", d.MP))
	sb.WriteString(fmt.Sprintf("Population: %s\n", humanize.Comma(int64(d.Population))))
	if !d.HasData {
		sb.WriteString("No signatures yet\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Signatures: %s (%.2f%%)\n", humanize.Comma(int64(d.SignatureCount)), d.Ratio*100))
	return sb.String()
}
