package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/healthbridge/internal/bridge"
	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// --- Tool definitions ---

var toolCheckAvailability = mcp.NewTool("check_availability",
	mcp.WithDescription("Check whether the device's native health store is present and usable, and which platform backs it."),
)

var toolReadHealthData = mcp.NewTool("read_health_data",
	mcp.WithDescription("Read normalized health records for one data type. Quantity values come back in canonical units; results are newest first."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Data type (e.g. steps, heart_rate, weight, blood_glucose, blood_pressure, workout)")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of records. Defaults to the service limit.")),
	mcp.WithBoolean("aggregate", mcp.Description("Return interval-bucketed sums instead of raw samples (quantity types only).")),
	mcp.WithString("interval", mcp.Description("Bucket size when aggregating. Defaults to 'day'."), mcp.Enum("hour", "day", "week", "month")),
)

var toolGetSleepSessions = mcp.NewTool("get_sleep_sessions",
	mcp.WithDescription("Retrieve reconstructed sleep sessions with per-stage intervals. Fragmented native stage samples are grouped into sessions."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetPermissionStatus = mcp.NewTool("get_permission_status",
	mcp.WithDescription("Check the reconciled permission state for one data type. Note: read denials may be reported as not_determined where the platform conceals them."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Data type to check")),
	mcp.WithString("access", mcp.Description("Access direction. Defaults to 'read'."), mcp.Enum("read", "write")),
)

var toolWriteHealthData = mcp.NewTool("write_health_data",
	mcp.WithDescription("Write one quantity or blood-pressure measurement. The value is converted to the platform's native unit before storage. Use the HTTP API for sleep and workout writes."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Data type (e.g. weight, heart_rate, blood_glucose, blood_pressure)")),
	mcp.WithString("start", mcp.Required(), mcp.Description("Measurement time (ISO 8601 or YYYY-MM-DD)")),
	mcp.WithString("end", mcp.Description("End time for interval types. Instantaneous types get a default window.")),
	mcp.WithNumber("value", mcp.Description("Measurement value")),
	mcp.WithString("unit", mcp.Description("Unit of the value (e.g. kg, lb, mg/dL, mmol/L). Defaults to the type's canonical unit.")),
	mcp.WithNumber("systolic", mcp.Description("Systolic pressure in mmHg (blood_pressure only)")),
	mcp.WithNumber("diastolic", mcp.Description("Diastolic pressure in mmHg (blood_pressure only)")),
)

// --- Tool handlers ---

func (h *handlers) checkAvailability(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(map[string]any{
		"platform":  h.bridge.Platform(),
		"available": h.bridge.Available(ctx),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) readHealthData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dataType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	q := bridge.Query{
		Type:      models.DataType(dataType),
		Start:     start,
		End:       end,
		Limit:     req.GetInt("limit", 0),
		Aggregate: req.GetBool("aggregate", false),
		Interval:  native.Interval(req.GetString("interval", "")),
	}

	records, err := h.bridge.ReadData(ctx, q)
	if err != nil {
		h.log.Error("mcp read_health_data", "type", dataType, "error", err)
		return mcp.NewToolResultError("read failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"type":    q.Type,
		"count":   len(records),
		"records": records,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSleepSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sessions, err := h.bridge.ReadData(ctx, bridge.Query{
		Type:  models.TypeSleep,
		Start: start,
		End:   end,
	})
	if err != nil {
		h.log.Error("mcp get_sleep_sessions", "error", err)
		return mcp.NewToolResultError("read failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"count":    len(sessions),
		"sessions": sessions,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPermissionStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dataType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	access := models.AccessType(req.GetString("access", string(models.AccessRead)))

	status, err := h.bridge.PermissionStatus(ctx, models.DataType(dataType), access)
	if err != nil {
		h.log.Error("mcp get_permission_status", "type", dataType, "error", err)
		return mcp.NewToolResultError("status check failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"type":   dataType,
		"access": access,
		"status": status,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) writeHealthData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dataType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	startStr, err := req.RequireString("start")
	if err != nil {
		return mcp.NewToolResultError("start parameter is required"), nil
	}
	start, err := parseFlexTime(startStr)
	if err != nil {
		return mcp.NewToolResultError("invalid start date: " + err.Error()), nil
	}

	wr := models.WriteRequest{
		Type:      models.DataType(dataType),
		StartDate: start,
		Value:     req.GetFloat("value", 0),
		Unit:      models.Unit(req.GetString("unit", "")),
		Systolic:  req.GetFloat("systolic", 0),
		Diastolic: req.GetFloat("diastolic", 0),
	}
	if endStr := req.GetString("end", ""); endStr != "" {
		end, err := parseFlexTime(endStr)
		if err != nil {
			return mcp.NewToolResultError("invalid end date: " + err.Error()), nil
		}
		wr.EndDate = end
	}

	if err := h.bridge.WriteData(ctx, wr); err != nil {
		h.log.Error("mcp write_health_data", "type", dataType, "error", err)
		return mcp.NewToolResultError("write failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]string{"status": "written"})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
