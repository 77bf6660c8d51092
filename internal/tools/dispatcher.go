package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/HendryAvila/kbridge/internal/journal"
	"github.com/HendryAvila/kbridge/internal/kb"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Recorder receives one entry per tool call. It's an optional
// dependency: the Dispatcher works the same with a nil Recorder.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) (journal.Entry, error)
}

// Dispatcher routes tool calls by name and turns every outcome into a
// CallToolResult. Failures never escape as Go errors: argument problems,
// backend errors, unknown tool names and panics all become an
// error-flagged result whose text starts with "Error: ".
type Dispatcher struct {
	tools    []Tool
	byName   map[string]Tool
	aliases  []string
	log      zerolog.Logger
	recorder Recorder
}

// NewDispatcher creates the three tools for backend.
func NewDispatcher(backend kb.Backend, log zerolog.Logger) *Dispatcher {
	list := NewListTool(backend)
	d := &Dispatcher{
		tools: []Tool{
			list,
			NewFetchTool(backend),
			NewSearchTool(backend),
		},
		byName: make(map[string]Tool),
		log:    log,
	}
	for _, t := range d.tools {
		d.byName[t.Definition().Name] = t
	}

	// Older clients of the generic server still call list_categories.
	if _, ok := d.byName["list_categories"]; !ok {
		d.byName["list_categories"] = list
		d.aliases = append(d.aliases, "list_categories")
	}
	return d
}

// SetRecorder wires the invocation journal.
func (d *Dispatcher) SetRecorder(r Recorder) {
	d.recorder = r
}

// Definitions returns the advertised tool descriptors, in a fixed order.
func (d *Dispatcher) Definitions() []mcp.Tool {
	defs := make([]mcp.Tool, 0, len(d.tools))
	for _, t := range d.tools {
		defs = append(defs, t.Definition())
	}
	return defs
}

// Register adds every tool to s, all routed through Handle. Aliases are
// registered too so the server accepts them; pair with HideAliases to keep
// them out of tools/list.
func (d *Dispatcher) Register(s *server.MCPServer) {
	for _, def := range d.Definitions() {
		s.AddTool(def, d.Handle)
	}
	for _, name := range d.aliases {
		alias := d.byName[name].Definition()
		alias.Name = name
		s.AddTool(alias, d.Handle)
	}
}

// HideAliases is a server.ToolFilterFunc that drops alias names from the
// advertised tool list.
func (d *Dispatcher) HideAliases(_ context.Context, tools []mcp.Tool) []mcp.Tool {
	if len(d.aliases) == 0 {
		return tools
	}
	visible := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		if !slices.Contains(d.aliases, t.Name) {
			visible = append(visible, t)
		}
	}
	return visible
}

// Handle adapts Call to mcp-go's tool handler signature.
func (d *Dispatcher) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return d.Call(ctx, req.Params.Name, req.GetArguments()), nil
}

// Call runs the named tool and wraps its outcome.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	callID := uuid.NewString()
	start := time.Now()

	text, err := d.run(ctx, name, args)

	var result *mcp.CallToolResult
	if err != nil {
		text = "Error: " + err.Error()
		result = mcp.NewToolResultError(text)
	} else {
		result = mcp.NewToolResultText(text)
	}
	elapsed := time.Since(start)

	event := d.log.Info()
	if err != nil {
		event = d.log.Warn().Err(err)
	}
	event.Str("call_id", callID).Str("tool", name).Dur("duration", elapsed).Msg("tool call")

	d.record(ctx, journal.Entry{
		CallID:     callID,
		Tool:       name,
		Arguments:  encodeArgs(args),
		IsError:    err != nil,
		ResultLen:  len(text),
		DurationMS: elapsed.Milliseconds(),
	})

	return result
}

func (d *Dispatcher) run(ctx context.Context, name string, args map[string]any) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("tool", name).Msg("tool panicked")
			err = fmt.Errorf("internal error in %s: %v", name, r)
		}
	}()

	t, ok := d.byName[name]
	if !ok {
		return "", fmt.Errorf("Unknown tool: %s", name) //nolint:staticcheck // user-facing text
	}
	if args == nil {
		args = map[string]any{}
	}
	return t.Run(ctx, args)
}

// record writes to the journal, if any. The write outlives a cancelled
// request context so aborted calls are journaled too.
func (d *Dispatcher) record(ctx context.Context, e journal.Entry) {
	if d.recorder == nil {
		return
	}
	if _, err := d.recorder.Record(context.WithoutCancel(ctx), e); err != nil {
		d.log.Warn().Err(err).Str("call_id", e.CallID).Msg("journal write failed")
	}
}

func encodeArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(b)
}
