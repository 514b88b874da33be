package mcp

import (
	"context"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"apibridge/config"
	"apibridge/model"
	"apibridge/provider"
)

// Server exposes a model.Handler to MCP clients over stdio.
type Server struct {
	handler model.Handler
	mcp     *server.MCPServer
}

// NewServer registers the "chat" and "list_models" tools for h.
func NewServer(h model.Handler, version string) *Server {
	s := &Server{
		handler: h,
		mcp:     server.NewMCPServer("apibridge", version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcptypes.NewTool("chat",
		mcptypes.WithDescription("Send a prompt to "+h.GetModel().ID+" and return the full reply"),
		mcptypes.WithString("prompt", mcptypes.Required(), mcptypes.Description("User message")),
		mcptypes.WithString("system", mcptypes.Description("Optional system prompt")),
	), s.handleChat)

	s.mcp.AddTool(mcptypes.NewTool("list_models",
		mcptypes.WithDescription("List the models available on the backend"),
	), s.handleListModels)

	return s
}

// ServeStdio blocks serving MCP requests on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleChat(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
	prompt := req.GetString("prompt", "")
	if prompt == "" {
		return mcptypes.NewToolResultError("prompt is required"), nil
	}
	systemPrompt := req.GetString("system", "")

	config.Debugf("[MCP] chat: %d chars to %s", len(prompt), s.handler.GetModel().ID)

	messages := []model.Message{model.TextMessage(model.RoleUser, prompt)}
	text, err := model.Collect(s.handler.CreateMessage(ctx, systemPrompt, messages))
	if err != nil {
		return mcptypes.NewToolResultError(err.Error()), nil
	}
	return mcptypes.NewToolResultText(text), nil
}

func (s *Server) handleListModels(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
	models, err := provider.ListModels(ctx, s.handler)
	if err != nil {
		return mcptypes.NewToolResultError(err.Error()), nil
	}
	return mcptypes.NewToolResultText(strings.Join(models, "\n")), nil
}
