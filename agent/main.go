package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/ahmedadelattya/ithaka-ai-demo/backend"
	"github.com/ahmedadelattya/ithaka-ai-demo/config"
	"github.com/ahmedadelattya/ithaka-ai-demo/obs"
	"github.com/ahmedadelattya/ithaka-ai-demo/search"
)

type Agent struct {
	config   *config.Config
	handler  *Handler
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func main() {
	cfg := config.LoadConfig()

	logger := obs.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	client := backend.NewClient(cfg.Backend.BaseURL)
	tool := search.NewTool(client, cfg.Backend.PageSize, logger)

	var llm llms.Model
	if cfg.OpenAI.APIKey == "" {
		logger.Warn("no OpenAI credential configured, chat requests will be rejected")
	} else {
		openaiLLM, err := openai.New(
			openai.WithToken(cfg.OpenAI.APIKey),
			openai.WithModel(cfg.OpenAI.Model),
		)
		if err != nil {
			log.Fatal(err)
		}
		llm = openaiLLM
	}

	handler, err := NewHandler(llm, client, tool, cfg.Agent.MaxToolRounds, cfg.Agent.Temperature, logger)
	if err != nil {
		log.Fatal(err)
	}

	agent := &Agent{
		config:  cfg,
		handler: handler,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}

	if err := agent.Run(); err != nil {
		log.Fatalf("failed to run the agent: %v", err)
	}
}

func (a *Agent) Run() error {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/chat", a.handleChat)
	r.GET("/ws", a.handleWS)

	return r.Run(a.config.Server.Address())
}

func (a *Agent) handleChat(c *gin.Context) {
	requestID := uuid.NewString()
	c.Header("X-Request-Id", requestID)
	logger := a.logger.With("request_id", requestID)

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if !a.handler.Ready() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "the assistant is not configured",
			"details": "model provider credential is missing",
		})
		return
	}

	ctx := c.Request.Context()

	ref, err := a.handler.LoadReferenceData(ctx)
	if err != nil {
		logger.Error("failed to load reference data", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "could not reach the booking platform",
			"details": err.Error(),
		})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	resultChan := a.handler.Chat(ctx, ref, req.Messages)

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case result, ok := <-resultChan:
			if !ok || result == nil {
				return false
			}
			if result.Err != nil {
				if result.Err == io.EOF {
					c.SSEvent("done", "")
					return false
				}
				logger.Error("chat turn failed", "error", result.Err)
				c.SSEvent("error", "Sorry, something went wrong while answering. Please try again.")
				return false
			}

			c.SSEvent(result.Msg.Type, result.Msg.Data)
			return true
		}
	})
}

func (a *Agent) handleWS(c *gin.Context) {
	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		a.serveWSTurn(c.Request.Context(), conn, &req)
	}
}

func (a *Agent) serveWSTurn(ctx context.Context, conn *websocket.Conn, req *ChatRequest) {
	writeFrame := func(msg StreamMessage) bool {
		if err := conn.WriteJSON(msg); err != nil {
			a.logger.Error("failed to write to ws connection", "error", err)
			return false
		}
		return true
	}

	if err := req.Validate(); err != nil {
		writeFrame(StreamMessage{Type: "error", Data: err.Error()})
		return
	}
	if !a.handler.Ready() {
		writeFrame(StreamMessage{Type: "error", Data: "the assistant is not configured"})
		return
	}

	ref, err := a.handler.LoadReferenceData(ctx)
	if err != nil {
		a.logger.Error("failed to load reference data", "error", err)
		writeFrame(StreamMessage{Type: "error", Data: "could not reach the booking platform"})
		return
	}

	resultChan := a.handler.Chat(ctx, ref, req.Messages)
	for {
		select {
		case <-ctx.Done():
			return
		case result, ok := <-resultChan:
			if !ok || result == nil {
				return
			}
			if result.Err != nil {
				if result.Err == io.EOF {
					writeFrame(StreamMessage{Type: "done", Data: ""})
					return
				}
				a.logger.Error("chat turn failed", "error", result.Err)
				writeFrame(StreamMessage{Type: "error", Data: "Sorry, something went wrong while answering. Please try again."})
				return
			}

			if !writeFrame(result.Msg) {
				return
			}
		}
	}
}
