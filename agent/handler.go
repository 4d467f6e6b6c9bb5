package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ahmedadelattya/ithaka-ai-demo/backend"
	"github.com/ahmedadelattya/ithaka-ai-demo/models"
	"github.com/ahmedadelattya/ithaka-ai-demo/search"
)

type Handler struct {
	llm           llms.Model
	backend       *backend.Client
	tool          *search.Tool
	limiter       *rate.Limiter
	maxToolRounds int
	temperature   float64
	logger        *slog.Logger
}

func NewHandler(
	llm llms.Model,
	client *backend.Client,
	tool *search.Tool,
	maxToolRounds int,
	temperature float64,
	logger *slog.Logger,
) (*Handler, error) {
	if maxToolRounds <= 0 {
		return nil, fmt.Errorf("maxToolRounds must be positive")
	}

	return &Handler{
		llm:           llm,
		backend:       client,
		tool:          tool,
		limiter:       rate.NewLimiter(rate.Limit(3), 5),
		maxToolRounds: maxToolRounds,
		temperature:   temperature,
		logger:        logger,
	}, nil
}

// Ready reports whether a model credential was configured at startup.
func (h *Handler) Ready() bool {
	return h.llm != nil
}

// LoadReferenceData fetches the four catalog datasets concurrently.
// They have no interdependency; any single failure aborts the turn.
func (h *Handler) LoadReferenceData(ctx context.Context) (*ReferenceData, error) {
	ref := &ReferenceData{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		ref.Destinations, err = h.backend.Destinations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ref.Categories, err = h.backend.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ref.FAQs, err = h.backend.FAQs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ref.PrivacyPolicy, err = h.backend.PrivacyPolicy(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	return ref, nil
}

// Chat runs one conversation turn and streams frames on the returned
// channel: "chunk" frames carry text as the model produces it,
// "activities" frames carry successful tool results for the widget.
// The channel terminates with Err set, io.EOF on success.
func (h *Handler) Chat(
	ctx context.Context,
	ref *ReferenceData,
	history []models.Message,
) chan *ProcessingResult {
	resultChan := make(chan *ProcessingResult)

	go func() {
		defer close(resultChan)

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		send := func(result *ProcessingResult) bool {
			select {
			case <-ctx.Done():
				return false
			case resultChan <- result:
				return true
			}
		}

		msgs := make([]llms.MessageContent, 0, len(history)+1)
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, composeSystemPrompt(ref)))
		for _, m := range history {
			role := llms.ChatMessageTypeHuman
			if m.Role == models.RoleAssistant {
				role = llms.ChatMessageTypeAI
			}
			msgs = append(msgs, llms.TextParts(role, m.Content))
		}

		tools := []llms.Tool{h.tool.Definition()}

		for round := 0; round < h.maxToolRounds; round++ {
			if err := h.limiter.Wait(ctx); err != nil {
				send(&ProcessingResult{Err: err})
				return
			}

			resp, err := h.llm.GenerateContent(
				ctx,
				msgs,
				llms.WithTools(tools),
				llms.WithTemperature(h.temperature),
				llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
					if len(chunk) == 0 {
						return nil
					}
					if !send(&ProcessingResult{Msg: StreamMessage{Type: "chunk", Data: string(chunk)}}) {
						return context.Canceled
					}
					return nil
				}),
			)
			if err != nil {
				send(&ProcessingResult{Err: fmt.Errorf("model invocation failed: %w", err)})
				return
			}
			if len(resp.Choices) == 0 {
				send(&ProcessingResult{Err: fmt.Errorf("model returned no choices")})
				return
			}

			choice := resp.Choices[0]
			if len(choice.ToolCalls) == 0 {
				break
			}

			assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			for _, tc := range choice.ToolCalls {
				assistant.Parts = append(assistant.Parts, tc)
			}
			msgs = append(msgs, assistant)

			for _, tc := range choice.ToolCalls {
				msgs = append(msgs, h.executeToolCall(ctx, tc, send))
			}
		}

		send(&ProcessingResult{Err: io.EOF})
	}()

	return resultChan
}

func (h *Handler) executeToolCall(
	ctx context.Context,
	tc llms.ToolCall,
	send func(*ProcessingResult) bool,
) llms.MessageContent {
	if tc.FunctionCall == nil || tc.FunctionCall.Name != search.ToolName {
		name := "unknown"
		if tc.FunctionCall != nil {
			name = tc.FunctionCall.Name
		}
		h.logger.Warn("model requested unknown tool", "tool", name)

		return toolResponse(tc.ID, name, `{"success":false,"error":"unknown tool"}`)
	}

	result := h.tool.Run(ctx, tc.FunctionCall.Arguments)

	if result.Success && len(result.Activities) > 0 {
		send(&ProcessingResult{
			Msg: StreamMessage{Type: "activities", Data: result.Activities},
		})
	}

	payload, err := json.Marshal(result)
	if err != nil {
		h.logger.Error("failed to marshal tool result", "error", err)
		payload = []byte(`{"success":false,"error":"internal error"}`)
	}

	return toolResponse(tc.ID, tc.FunctionCall.Name, string(payload))
}

func toolResponse(callID, name, content string) llms.MessageContent {
	return llms.MessageContent{
		Role: llms.ChatMessageTypeTool,
		Parts: []llms.ContentPart{
			llms.ToolCallResponse{
				ToolCallID: callID,
				Name:       name,
				Content:    content,
			},
		},
	}
}
