// Package mcp exposes chain execution as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rodrigues2k/fluent-selenium"
	"github.com/rodrigues2k/fluent-selenium/internal/script"
	"github.com/rodrigues2k/fluent-selenium/pkg/adapters/htmldoc"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/tags"
)

// RunArgs are the arguments of the run_chain tool.
type RunArgs struct {
	Document string `json:"document"`
	Script   string `json:"script"`
	Mode     string `json:"mode"`
}

// RunResponse is the structured result of run_chain.
type RunResponse struct {
	Mode    string          `json:"mode" jsonschema_description:"immediate or playback"`
	Journal []string        `json:"journal" jsonschema_description:"Backend calls in order, one line each"`
	Results []script.Result `json:"results" jsonschema_description:"Values of read steps"`
	Error   string          `json:"error,omitempty" jsonschema_description:"Position-aware failure message, if the chain stopped"`
}

// Server exposes run_chain over MCP. Without a document argument, calls run
// against a fresh copy of the default document.
type Server struct {
	defaultDoc string
	chainOpts  []fluent.Option
	logger     *slog.Logger
	mcpServer  *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithDocument sets the HTML used when a call omits "document".
func WithDocument(html string) Option {
	return func(s *Server) {
		s.defaultDoc = html
	}
}

// WithChainOptions passes options to every chain the server runs.
func WithChainOptions(opts ...fluent.Option) Option {
	return func(s *Server) {
		s.chainOpts = append(s.chainOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger:    slog.Default(),
		mcpServer: server.NewMCPServer("fluent-mcp", strings.TrimSpace(fluent.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for transports other than stdio.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	runTool := mcp.NewTool("run_chain",
		mcp.WithDescription("Run a YAML chain script against an HTML document and return the backend journal and read values."),
		mcp.WithString("script", mcp.Required(), mcp.Description("YAML document with a 'steps' list, e.g. steps: [{do: span, by: {id: x}}, {do: text}]")),
		mcp.WithString("document", mcp.Description("HTML to run against (optional if the server has a default document)")),
		mcp.WithString("mode", mcp.Description("immediate (default) or playback"), mcp.Enum(string(script.ModeImmediate), string(script.ModePlayback))),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRunChain))
}

func (s *Server) handleRunChain(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (RunResponse, error) {
	return s.RunChain(ctx, args)
}

// RunChain executes one script. A chain that stops is not a tool failure:
// its message is returned in RunResponse.Error.
func (s *Server) RunChain(ctx context.Context, args RunArgs) (RunResponse, error) {
	mode, err := script.ParseMode(args.Mode)
	if err != nil {
		return RunResponse{}, err
	}
	steps, err := script.Parse([]byte(args.Script))
	if err != nil {
		return RunResponse{}, err
	}
	html := args.Document
	if html == "" {
		html = s.defaultDoc
	}
	if html == "" {
		return RunResponse{}, fmt.Errorf("no document given and no default document: %w", domain.ErrInvalidArgument)
	}
	doc, err := htmldoc.ParseString(html)
	if err != nil {
		return RunResponse{}, err
	}

	opts := append([]fluent.Option{fluent.WithContext(ctx), fluent.WithLogger(s.logger)}, s.chainOpts...)
	report, err := script.Execute(doc, steps, script.Options{Mode: mode, Chain: opts})
	var stopped *domain.ExecutionStopped
	if err != nil && !errors.As(err, &stopped) {
		return RunResponse{}, err
	}
	if stopped != nil {
		s.logger.Info("MCP run_chain: chain stopped", "error", stopped)
	}
	return RunResponse{
		Mode:    string(report.Mode),
		Journal: report.Journal,
		Results: report.Results,
		Error:   report.Error,
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("fluent://tags", "Tag step methods",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(tags.All())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "fluent://tags",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
