package main

import "strings"

var AssistantSysPrompt = `You are Ithaka's travel assistant, helping visitors discover and book trips, tours and activities across Egypt.

Follow these rules:
1. Answer only questions about Ithaka, its destinations, activities, bookings, and the policies below. Politely decline anything else.
2. When the user wants to find activities, call the search_activities tool. Use destination and category ids from the reference data, never invent ids.
3. Present results conversationally: name each activity, its price in USD, and a one-line description. Link activities as /activities/{slug}.
4. Never fabricate activities, prices, or availability. If the search returns nothing, say so and suggest loosening the filters.
5. If a search fails, apologize briefly and offer to try again; do not expose technical details.
6. Ask at most one clarifying question when the request is too vague to search.
7. Answer FAQ and privacy questions from the reference data verbatim in meaning, reworded naturally.
8. Keep answers short and friendly. Use Markdown lists when presenting more than two activities.
`

// composeSystemPrompt appends the serialized catalog snapshot to the
// policy prompt so the model always grounds on current data.
func composeSystemPrompt(ref *ReferenceData) string {
	var b strings.Builder

	b.WriteString(AssistantSysPrompt)

	b.WriteString("\n## Destinations\n")
	for _, d := range ref.Destinations {
		b.WriteString(d.Stringify())
		b.WriteString("\n")
	}

	b.WriteString("\n## Categories\n")
	for _, c := range ref.Categories {
		b.WriteString(c.Stringify())
		b.WriteString("\n")
	}

	b.WriteString("\n## FAQ\n")
	for _, f := range ref.FAQs {
		b.WriteString(f.Stringify())
		b.WriteString("\n--------------------\n")
	}

	b.WriteString("\n## Privacy Policy\n")
	b.WriteString(ref.PrivacyPolicy)
	b.WriteString("\n")

	return b.String()
}
