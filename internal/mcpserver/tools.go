package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edvin/governance/internal/core"
)

type toolHandlers struct {
	svc *core.GovernanceService
}

// Tools returns the governance tools bound to svc.
func Tools(svc *core.GovernanceService) []server.ServerTool {
	h := &toolHandlers{svc: svc}

	return []server.ServerTool{
		{
			Tool: mcp.NewTool("list_instances",
				mcp.WithDescription("List every registered proxy instance and whether it is enabled."),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: h.listInstances,
		},
		{
			Tool: mcp.NewTool("set_instance_enabled",
				mcp.WithDescription("Enable or disable a proxy instance. Unknown instances are registered."),
				mcp.WithString("instance_id", mcp.Required(), mcp.Description("Instance ID, for example 10.0.0.1@3307")),
				mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("true to enable, false to disable")),
				mcp.WithReadOnlyHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithDestructiveHintAnnotation(false),
			),
			Handler: h.setInstanceEnabled,
		},
		{
			Tool: mcp.NewTool("list_replica_data_sources",
				mcp.WithDescription("List every primary and replica data source pair across all schemas with its enabled flag."),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: h.listReplicaDataSources,
		},
		{
			Tool: mcp.NewTool("set_replica_data_source_enabled",
				mcp.WithDescription("Enable or disable a data source of a schema."),
				mcp.WithString("schema_name", mcp.Required(), mcp.Description("Logical schema name")),
				mcp.WithString("data_source_name", mcp.Required(), mcp.Description("Data source name within the schema")),
				mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("true to enable, false to disable")),
				mcp.WithReadOnlyHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithDestructiveHintAnnotation(false),
			),
			Handler: h.setReplicaDataSourceEnabled,
		},
	}
}

func (h *toolHandlers) listInstances(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instances, err := h.svc.ListInstances(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(instances)
}

func (h *toolHandlers) setInstanceEnabled(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := stringArg(args, "instance_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	enabled, err := boolArg(args, "enabled")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := h.svc.UpdateInstanceStatus(ctx, id, enabled); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(`{"status":"success"}`), nil
}

func (h *toolHandlers) listReplicaDataSources(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	replicas, err := h.svc.ListReplicaDataSources(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(replicas)
}

func (h *toolHandlers) setReplicaDataSourceEnabled(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	schemaName, err := stringArg(args, "schema_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dataSourceName, err := stringArg(args, "data_source_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	enabled, err := boolArg(args, "enabled")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := h.svc.UpdateReplicaDataSourceStatus(ctx, schemaName, dataSourceName, enabled); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(`{"status":"success"}`), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required parameter: %s", name)
	}
	return v, nil
}

func boolArg(args map[string]any, name string) (bool, error) {
	switch v := args[name].(type) {
	case bool:
		return v, nil
	case string:
		// Some clients send booleans as strings.
		switch v {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("missing or invalid boolean parameter: %s", name)
}
