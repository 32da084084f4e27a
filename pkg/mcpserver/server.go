// Package mcpserver exposes the audit as an MCP tool.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/segmentio/encoding/json"

	"github.com/lcalzada-xor/auditlens/pkg/config"
	"github.com/lcalzada-xor/auditlens/pkg/logger"
	"github.com/lcalzada-xor/auditlens/pkg/output"
	"github.com/lcalzada-xor/auditlens/pkg/scanner"
)

// ToolName is the name clients call.
const ToolName = "seo_audit"

// Server wraps an MCP server with the audit tool registered. The Auditor is
// shared, so overlapping calls get a busy error instead of queueing.
type Server struct {
	Server  *mcp.Server
	auditor *scanner.Auditor
	logger  *logger.Logger
}

type auditArgs struct {
	URL string `json:"url"`
}

// New creates the server and registers the audit tool.
func New(auditor *scanner.Auditor, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	srv := mcp.NewServer(
		&mcp.Implementation{
			Name:    "auditlens",
			Version: config.Version,
		},
		&mcp.ServerOptions{Logger: log.Slog()},
	)
	s := &Server{
		Server:  srv,
		auditor: auditor,
		logger:  log.With("area", "mcp"),
	}

	srv.AddTool(&mcp.Tool{
		Name:        ToolName,
		Description: "Fetch a web page and audit it for on-page SEO. Returns the JSON report: overall score and grade, per-category scores and every check with its status, value and recommendation.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "Domain or URL to audit, e.g. example.com",
				},
			},
			"required": []string{"url"},
		},
	}, s.handleAudit)

	return s
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

func (s *Server) handleAudit(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args auditArgs
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
	}
	if args.URL == "" {
		return toolError("the url argument is required"), nil
	}

	s.logger.Debug("audit requested", "url", args.URL)
	res, err := s.auditor.Audit(ctx, args.URL, nil)
	if errors.Is(err, scanner.ErrBusy) {
		return toolError("another audit is still running; try again when it finishes"), nil
	}
	if err != nil {
		return toolError(err.Error()), nil
	}

	report, err := output.JSON(res)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(report)}},
	}, nil
}

// RunStdio serves on stdin/stdout until ctx is cancelled or the client
// disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Debug("starting stdio transport")
	return s.Server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr, path string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return s.Server },
		nil,
	)

	mux := http.NewServeMux()
	mux.Handle(path, handler)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.logger.Info("MCP server listening on http://%s%s", ln.Addr(), path)

	srv := &http.Server{Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
