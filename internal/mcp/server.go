// Package mcp exposes the normalization service as MCP tools so agents can
// query and write health data through the same unified surface the HTTP API
// uses.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/healthbridge/internal/bridge"
	"github.com/meltforce/healthbridge/internal/models"
)

// Bridge is the service surface the tool handlers consume.
type Bridge interface {
	Platform() models.Platform
	Available(ctx context.Context) bool
	PermissionStatus(ctx context.Context, t models.DataType, access models.AccessType) (models.PermissionStatus, error)
	ReadData(ctx context.Context, q bridge.Query) ([]models.Record, error)
	WriteData(ctx context.Context, req models.WriteRequest) error
}

// New creates an MCP server with all tools registered.
func New(b Bridge, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("HealthBridge", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Unified health data access over the device's native health store. Read normalized records, check permissions, and write measurements; all values use canonical units (kg, km, mg/dL, celsius, kcal, liters, minutes)."),
	)

	h := &handlers{bridge: b, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolCheckAvailability, Handler: h.checkAvailability},
		server.ServerTool{Tool: toolReadHealthData, Handler: h.readHealthData},
		server.ServerTool{Tool: toolGetSleepSessions, Handler: h.getSleepSessions},
		server.ServerTool{Tool: toolGetPermissionStatus, Handler: h.getPermissionStatus},
		server.ServerTool{Tool: toolWriteHealthData, Handler: h.writeHealthData},
	)

	return s
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	bridge Bridge
	log    *slog.Logger
}
