// Package mcp provides an MCP (Model Context Protocol) server for jfix.
// This allows AI agents to run builder checks and fixes through MCP tools
// instead of CLI commands.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/anthropics/jfix/internal/config"
	"github.com/anthropics/jfix/internal/engine"
	"github.com/anthropics/jfix/internal/history"
	"github.com/anthropics/jfix/internal/index"
	"github.com/anthropics/jfix/internal/output"
	"github.com/anthropics/jfix/internal/resolve"
)

// Server wraps the MCP server with jfix-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	engine       *engine.Engine
	idx          *index.Index
	resolver     *resolve.IndexResolver
	hist         *history.Store
	jfixDir      string
	projectRoot  string
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools   []string      // Which tools to expose (empty = all)
	Timeout time.Duration // Inactivity timeout (0 = no timeout)
}

// DefaultTools is the default set of tools to expose
var DefaultTools = []string{"jfix_check", "jfix_fix", "jfix_history"}

// AllTools lists all available tools
var AllTools = []string{"jfix_check", "jfix_fix", "jfix_history"}

// New creates a new MCP server for jfix
func New(cfg Config) (*Server, error) {
	jfixDir, err := config.FindConfigDir(".")
	if err != nil {
		return nil, fmt.Errorf("jfix not initialized: run 'jfix init && jfix scan' first")
	}
	projectRoot := filepath.Dir(jfixDir)

	appCfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, err
	}

	idx, err := index.Open(jfixDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	resolver, err := resolve.NewIndexResolver(idx)
	if err != nil {
		idx.Close()
		return nil, err
	}

	hist, err := history.Open(jfixDir)
	if err != nil {
		resolver.Close()
		idx.Close()
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	eng, err := engine.New(engine.Options{
		Config:   appCfg,
		Resolver: resolver,
		History:  hist,
	})
	if err != nil {
		hist.Close()
		resolver.Close()
		idx.Close()
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		"jfix",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		engine:       eng,
		idx:          idx,
		resolver:     resolver,
		hist:         hist,
		jfixDir:      jfixDir,
		projectRoot:  projectRoot,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = DefaultTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case "jfix_check":
		return s.registerCheckTool()
	case "jfix_fix":
		return s.registerFixTool()
	case "jfix_history":
		return s.registerHistoryTool()
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			fmt.Fprintf(os.Stderr, "jfix serve: timeout after %v of inactivity\n", s.timeout)
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// Close closes the server and its resources
func (s *Server) Close() error {
	if s.engine != nil {
		s.engine.Close()
	}
	if s.resolver != nil {
		s.resolver.Close()
	}
	var firstErr error
	if s.hist != nil {
		if err := s.hist.Close(); err != nil {
			firstErr = err
		}
	}
	if s.idx != nil {
		if err := s.idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ListTools returns the list of registered tools
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// toolSchemaRegistry holds the schema definitions for all tools.
// These mirror the mcp.NewTool() definitions in the register*Tool() functions.
var toolSchemaRegistry = map[string]ToolSchema{
	"jfix_check": {
		Name:        "jfix_check",
		Description: "Find places where a class is used through ClassName.builder() without having a builder. Checks one file, one caret position, or the whole workspace.",
		Parameters: []ParameterSchema{
			{Name: "file", Type: "string", Description: "Java file to check (default: whole workspace)"},
			{Name: "line", Type: "number", Description: "1-based caret line (requires file and col)"},
			{Name: "col", Type: "number", Description: "1-based caret column (requires file and line)"},
		},
	},
	"jfix_fix": {
		Name:        "jfix_fix",
		Description: "Add the builder annotation to the class used at a caret position, or everywhere in a file.",
		Parameters: []ParameterSchema{
			{Name: "file", Type: "string", Description: "Java file containing the call site", Required: true},
			{Name: "line", Type: "number", Description: "1-based caret line (omit to fix the whole file)"},
			{Name: "col", Type: "number", Description: "1-based caret column (omit to fix the whole file)"},
			{Name: "dry_run", Type: "boolean", Description: "Preview the change without writing"},
		},
	},
	"jfix_history": {
		Name:        "jfix_history",
		Description: "List recently applied fixes from the ledger.",
		Parameters: []ParameterSchema{
			{Name: "limit", Type: "number", Description: "Maximum entries (default: 20)"},
		},
	},
}

// GetToolSchemas returns schemas for all registered tools.
func (s *Server) GetToolSchemas() []ToolSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schemas := make([]ToolSchema, 0, len(s.tools))
	for name := range s.tools {
		if schema, ok := toolSchemaRegistry[name]; ok {
			schemas = append(schemas, schema)
		}
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the JSON result string or an error.
func (s *Server) CallTool(name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s (run 'jfix call --list' to see available tools)", name)
	}

	switch name {
	case "jfix_check":
		file, _ := args["file"].(string)
		line := intArg(args, "line", 0)
		col := intArg(args, "col", 0)
		return s.executeCheck(file, line, col)

	case "jfix_fix":
		file, _ := args["file"].(string)
		if file == "" {
			return "", fmt.Errorf("file parameter is required")
		}
		line := intArg(args, "line", 0)
		col := intArg(args, "col", 0)
		dryRun, _ := args["dry_run"].(bool)
		return s.executeFix(file, line, col, dryRun)

	case "jfix_history":
		limit := intArg(args, "limit", 20)
		return s.executeHistory(limit)
	}

	return "", fmt.Errorf("unknown tool: %s", name)
}

func intArg(args map[string]interface{}, name string, def int) int {
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// registerCheckTool registers the jfix_check tool
func (s *Server) registerCheckTool() error {
	tool := mcp.NewTool("jfix_check",
		mcp.WithDescription("Find places where a class is used through ClassName.builder() without having a builder. Checks one file, one caret position, or the whole workspace."),
		mcp.WithString("file",
			mcp.Description("Java file to check (default: whole workspace)"),
		),
		mcp.WithNumber("line",
			mcp.Description("1-based caret line (requires file and col)"),
		),
		mcp.WithNumber("col",
			mcp.Description("1-based caret column (requires file and line)"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleCheck)
	return nil
}

// registerFixTool registers the jfix_fix tool
func (s *Server) registerFixTool() error {
	tool := mcp.NewTool("jfix_fix",
		mcp.WithDescription("Add the builder annotation to the class used at a caret position, or everywhere in a file."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Java file containing the call site"),
		),
		mcp.WithNumber("line",
			mcp.Description("1-based caret line (omit to fix the whole file)"),
		),
		mcp.WithNumber("col",
			mcp.Description("1-based caret column (omit to fix the whole file)"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Preview the change without writing"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleFix)
	return nil
}

// registerHistoryTool registers the jfix_history tool
func (s *Server) registerHistoryTool() error {
	tool := mcp.NewTool("jfix_history",
		mcp.WithDescription("List recently applied fixes from the ledger."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum entries (default: 20)"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleHistory)
	return nil
}

func (s *Server) handleCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	file, _ := args["file"].(string)
	line := intArg(args, "line", 0)
	col := intArg(args, "col", 0)

	result, err := s.executeCheck(file, line, col)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleFix(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	file, ok := args["file"].(string)
	if !ok || file == "" {
		return mcp.NewToolResultError("file parameter is required"), nil
	}
	line := intArg(args, "line", 0)
	col := intArg(args, "col", 0)
	dryRun, _ := args["dry_run"].(bool)

	result, err := s.executeFix(file, line, col, dryRun)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	limit := intArg(req.GetArguments(), "limit", 20)

	result, err := s.executeHistory(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) executeCheck(file string, line, col int) (string, error) {
	var findings []output.Finding
	var err error

	switch {
	case file == "":
		findings, err = s.engine.CheckDir(s.projectRoot)
	case line > 0 && col > 0:
		findings, err = s.engine.CheckAt(file, line, col)
	default:
		findings, err = s.engine.CheckFile(file)
	}
	if err != nil {
		return "", err
	}

	return marshalResult(output.NewReport(findings))
}

func (s *Server) executeFix(file string, line, col int, dryRun bool) (string, error) {
	var results []output.FixResult

	if line > 0 && col > 0 {
		res, err := s.engine.FixAt(file, line, col, dryRun)
		if err != nil {
			return "", err
		}
		results = []output.FixResult{*res}
	} else {
		var err error
		results, err = s.engine.FixFile(file, dryRun)
		if err != nil {
			return "", err
		}
	}

	return marshalResult(output.NewFixReport(results))
}

func (s *Server) executeHistory(limit int) (string, error) {
	fixes, err := s.hist.List(limit)
	if err != nil {
		return "", err
	}

	entries := make([]map[string]interface{}, 0, len(fixes))
	for _, f := range fixes {
		entries = append(entries, map[string]interface{}{
			"id":         f.ID,
			"file":       f.File,
			"class":      f.Class,
			"annotation": f.Annotation,
			"applied_at": f.AppliedAt,
		})
	}

	return marshalResult(map[string]interface{}{
		"fixes": entries,
		"total": len(entries),
	})
}

func marshalResult(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), nil
}
