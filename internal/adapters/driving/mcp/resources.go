package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for qrdoc resources.
	uriScheme = "qrdoc://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Page counts by state and number of groups",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "groups/{payload}",
		Name:        "group-pages",
		Description: "Pages of one group in document order",
		MIMEType:    "application/json",
	}, s.handleGroupResource)
}

func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Pages.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}

	info := struct {
		Total      int `json:"total"`
		Decoded    int `json:"decoded"`
		Unresolved int `json:"unresolved"`
		Pending    int `json:"pending"`
		Groups     int `json:"groups"`
		Percent    int `json:"percent"`
	}{stats.Total, stats.Decoded, stats.Unresolved, stats.Pending, stats.Groups, stats.Percent()}

	return jsonResource(req.Params.URI, info)
}

func (s *Server) handleGroupResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	payload := extractGroupPayload(req.Params.URI)
	if payload == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	grouping, err := s.ports.Grouping.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("grouping pages: %w", err)
	}
	group, ok := grouping.Find(payload)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResource(req.Params.URI, toPageOutputs(group.Pages))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractGroupPayload extracts the payload from a URI like qrdoc://groups/{payload}.
// Payloads are path-escaped since they may contain slashes.
func extractGroupPayload(uri string) string {
	const prefix = uriScheme + "groups/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	payload, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return payload
}
