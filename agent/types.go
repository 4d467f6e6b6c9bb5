package main

import (
	"fmt"

	"github.com/ahmedadelattya/ithaka-ai-demo/models"
)

type ChatRequest struct {
	Messages []models.Message `json:"messages"`
}

func (c *ChatRequest) Validate() error {
	if len(c.Messages) == 0 {
		return fmt.Errorf("no messages provided")
	}

	for _, m := range c.Messages {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	if c.Messages[len(c.Messages)-1].Role != models.RoleUser {
		return fmt.Errorf("last message must come from the user")
	}

	return nil
}

// StreamMessage is one frame of the streamed reply, shared between the
// SSE and websocket transports.
type StreamMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ProcessingResult struct {
	Err error
	Msg StreamMessage
}

// ReferenceData is the catalog snapshot serialized into the system
// instructions, refetched on every turn.
type ReferenceData struct {
	Destinations  []models.Destination
	Categories    []models.Category
	FAQs          []models.FAQItem
	PrivacyPolicy string
}
