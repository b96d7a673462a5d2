//go:build integration

// Package tools_test exercises tool registration and the dependency-free
// handlers over an in-memory MCP transport.
package tools_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/tablerag/internal/config"
	"github.com/raphaelgruber/tablerag/internal/tools"
)

func testSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	impl := &mcp.Implementation{
		Name:    "test-tablerag",
		Version: "0.0.1-test",
	}
	server := mcp.NewServer(impl, nil)

	// Nil service deps: only registration and input validation run here.
	deps := &tools.Dependencies{Logger: logger}
	cfg := &config.Config{}
	tools.RegisterAll(server, deps, cfg)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	go func() {
		_ = server.Run(ctx, serverTransport)
	}()
	time.Sleep(50 * time.Millisecond)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err, "client should connect successfully")
	t.Cleanup(func() { session.Close() })
	return session
}

func TestToolsRegistered(t *testing.T) {
	session := testSession(t)
	ctx := context.Background()

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, tool := range toolsResult.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"ping", "search", "rag", "encode", "list_jobs", "refresh"} {
		assert.True(t, names[want], "tool %q should be registered", want)
	}
}

func TestPingTool(t *testing.T) {
	session := testSession(t)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "ping",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content should be text")
	assert.Equal(t, "pong", text.Text)
}

func TestPingToolEcho(t *testing.T) {
	session := testSession(t)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "ping",
		Arguments: map[string]any{"echo": "hello"},
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content should be text")
	assert.Equal(t, "hello", text.Text)
}

func TestSearchToolValidation(t *testing.T) {
	session := testSession(t)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "search",
		Arguments: map[string]any{"job_name": "", "query": "anything"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError, "empty job name should return a tool error")
}
