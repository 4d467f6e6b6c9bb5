package models

import (
	"fmt"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the conversation history the widget posts.
// The history is owned by the client; the service never mutates it.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (m Message) Validate() error {
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return fmt.Errorf("invalid message role %q", m.Role)
	}
	if m.Content == "" {
		return fmt.Errorf("message content is required")
	}

	return nil
}

type Destination struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (d Destination) Stringify() string {
	return fmt.Sprintf("Destination: %s (id: %d)", d.Name, d.ID)
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (c Category) Stringify() string {
	return fmt.Sprintf("Category: %s (id: %d)", c.Name, c.ID)
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (f FAQItem) Stringify() string {
	return fmt.Sprintf("Q: %s\nA: %s", f.Question, f.Answer)
}

// Activity is the projection of a platform listing handed back to the
// model after a search. Price carries the listing's minimum price.
type Activity struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
}

func (a Activity) Stringify() string {
	return fmt.Sprintf(
		"Activity: %s, Slug: %s, Price: %.2f, Categories: %s, Description: %s",
		a.Name, a.Slug, a.Price, strings.Join(a.Categories, ", "), a.Description,
	)
}
