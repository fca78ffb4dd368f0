package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/nao1215/sitelens/internal/tools"
)

// DefaultProtocolVersion is announced when the client does not send one.
const DefaultProtocolVersion = "2024-11-05"

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Registry is the tool table served. *tools.Registry implements it.
type Registry interface {
	List() []*tools.Tool
	Call(ctx context.Context, name string, args map[string]any) (tools.CallResult, error)
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// isNotification reports whether the request carries no id.
func (r *request) isNotification() bool {
	return len(r.ID) == 0
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Server dispatches JSON-RPC requests to a Registry.
type Server struct {
	registry Registry
	logger   *slog.Logger
	name     string
	version  string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Logs must not go to the protocol stream.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithServerInfo sets the name and version reported by initialize.
func WithServerInfo(name, version string) Option {
	return func(s *Server) {
		s.name = name
		s.version = version
	}
}

// NewServer creates a Server for registry.
func NewServer(registry Registry, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		logger:   slog.Default(),
		name:     "SiteLens",
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type inbound struct {
	body    []byte
	framing framing
	err     error
}

// Serve reads requests from r and writes responses to w until r is
// exhausted or ctx is cancelled. Requests are handled one at a time in
// arrival order. A malformed message gets a parse error reply and reading
// goes on. The end of input returns nil; only read failures of r itself
// and write failures are returned.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	messages := make(chan inbound)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(messages)
		reader := bufio.NewReader(r)
		for {
			body, f, err := readMessage(reader)
			select {
			case messages <- inbound{body: body, framing: f, err: err}:
			case <-done:
				return
			}
			var ferr *frameError
			if err != nil && !errors.As(err, &ferr) {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if msg.err != nil {
				var ferr *frameError
				switch {
				case errors.As(msg.err, &ferr):
					s.logger.Warn("malformed message", "error", ferr.reason)
					payload := s.encode(errorResponse(nil, CodeParseError, "Parse error", ferr.reason))
					if err := writeMessage(w, payload, ferr.framing); err != nil {
						return fmt.Errorf("failed to write response: %w", err)
					}
					continue
				case errors.Is(msg.err, io.EOF):
					return nil
				case errors.Is(msg.err, io.ErrUnexpectedEOF):
					s.logger.Warn("input ended inside a message")
					return nil
				}
				return fmt.Errorf("failed to read message: %w", msg.err)
			}

			payload := s.HandleMessage(ctx, msg.body)
			if payload == nil {
				continue
			}
			if err := writeMessage(w, payload, msg.framing); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}
}

// HandleMessage handles one raw JSON-RPC message and returns the encoded
// response, or nil for notifications.
func (s *Server) HandleMessage(ctx context.Context, body []byte) []byte {
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		return s.encode(errorResponse(nil, CodeInvalidRequest, "Invalid Request", "batch requests are not supported"))
	}

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		s.logger.Warn("malformed request", "error", err)
		return s.encode(errorResponse(nil, CodeParseError, "Parse error", err.Error()))
	}
	if req.Method == "" {
		if req.isNotification() {
			return nil
		}
		return s.encode(errorResponse(req.ID, CodeInvalidRequest, "Invalid Request", "method is required"))
	}

	resp := s.dispatch(ctx, &req)
	if req.isNotification() {
		return nil
	}
	return s.encode(resp)
}

func (s *Server) dispatch(ctx context.Context, req *request) (resp *response) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("request handler panicked", "method", req.Method, "panic", fmt.Sprint(p), "stack", string(debug.Stack()))
			resp = errorResponse(req.ID, CodeInternalError, "Internal error", "Internal")
		}
	}()

	s.logger.Debug("request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return s.initialize(req)
	case "notifications/initialized", "initialized":
		return nil
	case "tools/list":
		return resultResponse(req.ID, map[string]any{"tools": s.listTools()})
	case "tools/call":
		return s.callTool(ctx, req)
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "Method not found", fmt.Sprintf("Unknown method: %s", req.Method))
	}
}

func (s *Server) initialize(req *request) *response {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
		}
	}
	version := params.ProtocolVersion
	if version == "" {
		version = DefaultProtocolVersion
	}

	return resultResponse(req.ID, map[string]any{
		"protocolVersion": version,
		"capabilities": map[string]any{
			"tools": map[string]any{"listChanged": false},
		},
		"serverInfo": map[string]any{
			"name":    s.name,
			"version": s.version,
		},
	})
}

func (s *Server) listTools() []map[string]any {
	list := s.registry.List()
	out := make([]map[string]any, 0, len(list))
	for _, t := range list {
		out = append(out, map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema,
		})
	}
	return out
}

func (s *Server) callTool(ctx context.Context, req *request) *response {
	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}
	if params.Name == "" {
		return errorResponse(req.ID, CodeInvalidParams, "Invalid params", "tool name is required")
	}

	res, err := s.registry.Call(ctx, params.Name, params.Arguments)
	if err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "Invalid params", fmt.Sprintf("Unknown tool: %s", params.Name))
	}
	if res.IsError {
		s.logger.Info("tool returned error", "tool", params.Name, "error", res.Text)
	}

	return resultResponse(req.ID, map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": res.Text},
		},
		"structuredContent": res.Structured,
		"isError":           res.IsError,
	})
}

func resultResponse(id json.RawMessage, result any) *response {
	return &response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string, data any) *response {
	return &response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message, Data: data},
	}
}

func (s *Server) encode(resp *response) []byte {
	if resp == nil {
		return nil
	}
	if len(resp.ID) == 0 {
		resp.ID = json.RawMessage("null")
	}
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		data, _ = json.Marshal(errorResponse(resp.ID, CodeInternalError, "Internal error", "Internal")) //nolint:errcheck // static shape
	}
	return data
}
