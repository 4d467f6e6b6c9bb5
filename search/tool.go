package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tmc/langchaingo/llms"

	"github.com/ahmedadelattya/ithaka-ai-demo/backend"
	"github.com/ahmedadelattya/ithaka-ai-demo/models"
)

const ToolName = "search_activities"

// ToolArgs is the argument payload the model sends when invoking the
// search tool. Every field is optional; sort_by carries raw user
// phrasing and is normalized before it reaches the backend.
type ToolArgs struct {
	Search         string   `json:"search,omitempty"`
	DestinationIDs []int    `json:"destination_ids,omitempty"`
	CategoryIDs    []int    `json:"category_ids,omitempty"`
	MinPrice       *float64 `json:"min_price,omitempty"`
	MaxPrice       *float64 `json:"max_price,omitempty"`
	SortBy         string   `json:"sort_by,omitempty"`
}

// ToolResult is always well-formed, success or not. The model keeps the
// conversation going off a failure payload instead of the turn dying on
// an unhandled fault.
type ToolResult struct {
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Activities []models.Activity `json:"activities,omitempty"`
}

// Tool wraps the activities search behind the schema declared to the
// model.
type Tool struct {
	client   *backend.Client
	pageSize int
	logger   *slog.Logger
}

func NewTool(client *backend.Client, pageSize int, logger *slog.Logger) *Tool {
	return &Tool{
		client:   client,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Definition declares the tool schema registered with the model.
func (t *Tool) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name: ToolName,
			Description: "Search the Ithaka catalog for bookable activities and trips. " +
				"All filters are optional; combine them freely. Use destination and " +
				"category ids from the reference data in the system instructions.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"search": map[string]any{
						"type":        "string",
						"description": "Free-text search over activity titles and descriptions.",
					},
					"destination_ids": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "integer"},
						"description": "Destination ids to filter by.",
					},
					"category_ids": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "integer"},
						"description": "Category ids to filter by.",
					},
					"min_price": map[string]any{
						"type":        "number",
						"description": "Minimum price in USD, non-negative.",
					},
					"max_price": map[string]any{
						"type":        "number",
						"description": "Maximum price in USD, non-negative.",
					},
					"sort_by": map[string]any{
						"type": "string",
						"description": "Desired result ordering, e.g. 'price-low-to-high', " +
							"'price-high-to-low', 'best-selling', 'top-reviewed'. Free phrasing " +
							"like 'cheapest first' is acceptable.",
					},
				},
			},
		},
	}
}

// Run executes one tool invocation. It never returns an error to the
// caller: every failure mode collapses into ToolResult{Success: false}.
func (t *Tool) Run(ctx context.Context, rawArgs string) ToolResult {
	var args ToolArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		t.logger.Warn("failed to decode tool arguments", "error", err)
		return ToolResult{Success: false, Error: "could not understand the search filters"}
	}

	query := ActivityQuery{
		Search:         args.Search,
		DestinationIDs: args.DestinationIDs,
		CategoryIDs:    args.CategoryIDs,
		MinPrice:       args.MinPrice,
		MaxPrice:       args.MaxPrice,
	}
	if sort, ok := NormalizeSort(args.SortBy); ok {
		query.SortBy = sort
	}

	if err := query.Validate(); err != nil {
		return ToolResult{Success: false, Error: fmt.Sprintf("invalid search filters: %v", err)}
	}

	values := query.Values()
	values.Set("per_page", strconv.Itoa(t.pageSize))

	listings, err := t.client.SearchActivities(ctx, values)
	if err != nil {
		t.logger.Error("activities search failed", "error", err)
		return ToolResult{Success: false, Error: "the activity search is unavailable right now"}
	}

	activities := make([]models.Activity, len(listings))
	for i, l := range listings {
		names := make([]string, len(l.Categories))
		for j, c := range l.Categories {
			names[j] = c.Name
		}
		activities[i] = models.Activity{
			Name:        l.Title,
			Slug:        l.Slug,
			Price:       l.MinPrice,
			Description: l.Description,
			Categories:  names,
		}
	}

	return ToolResult{Success: true, Activities: activities}
}
