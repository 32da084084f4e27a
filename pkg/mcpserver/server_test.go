package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/segmentio/encoding/json"

	"github.com/lcalzada-xor/auditlens/pkg/models"
	"github.com/lcalzada-xor/auditlens/pkg/output"
	"github.com/lcalzada-xor/auditlens/pkg/scanner"
)

type staticFetcher struct {
	html string
	err  error
}

func (f staticFetcher) FetchHTML(_ context.Context, _ string) (string, error) {
	return f.html, f.err
}

const page = `<html lang="en"><head><title>Garden tools that last</title></head>
<body><main><h1>Garden tools</h1><p>Spades, forks and trowels forged from one piece of steel.</p></main></body></html>`

func connect(t *testing.T, fetcher scanner.Fetcher) *mcp.ClientSession {
	t.Helper()
	s := New(scanner.NewAuditor(fetcher, nil, nil), nil)

	srvTransport, clientTransport := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		_ = s.Server.Run(ctx, srvTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content, got %d", len(result.Content))
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected *TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func TestServer_ListsAuditTool(t *testing.T) {
	session := connect(t, staticFetcher{html: page})
	ctx := context.Background()

	var tools []*mcp.Tool
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			t.Fatalf("listing tools: %v", err)
		}
		tools = append(tools, tool)
	}
	if len(tools) != 1 || tools[0].Name != ToolName {
		t.Fatalf("unexpected tools %+v", tools)
	}
}

func TestServer_AuditReturnsReport(t *testing.T) {
	session := connect(t, staticFetcher{html: page})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolName,
		Arguments: map[string]any{"url": "example.com"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}

	var rep output.Report
	if err := json.Unmarshal([]byte(textOf(t, result)), &rep); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if rep.URL != "https://example.com" || len(rep.Checks) == 0 || rep.Grade == "" {
		t.Errorf("unexpected report %+v", rep)
	}
}

func TestServer_Errors(t *testing.T) {
	retrievalErr := &models.RetrievalError{
		URL:      "https://example.com",
		Attempts: []models.AttemptError{{Strategy: "direct", Reason: "Timeout"}},
	}

	tests := []struct {
		name    string
		fetcher staticFetcher
		args    map[string]any
		want    string
	}{
		{name: "Empty url", fetcher: staticFetcher{html: page}, args: map[string]any{"url": ""}, want: "url argument is required"},
		{name: "Invalid url", fetcher: staticFetcher{html: page}, args: map[string]any{"url": "nowhere"}, want: "valid domain"},
		{name: "Retrieval failure", fetcher: staticFetcher{err: retrievalErr}, args: map[string]any{"url": "example.com"}, want: "Timeout"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session := connect(t, tc.fetcher)
			result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
				Name:      ToolName,
				Arguments: tc.args,
			})
			if err != nil {
				t.Fatalf("CallTool: %v", err)
			}
			if !result.IsError {
				t.Fatal("expected IsError result")
			}
			if text := textOf(t, result); !strings.Contains(text, tc.want) {
				t.Errorf("error text %q does not contain %q", text, tc.want)
			}
		})
	}
}
