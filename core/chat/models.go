package chat

// Roles of a completion message
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a role-tagged completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryItem is a prior exchange as sent by the client.
type HistoryItem struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type Request struct {
	Message string        `json:"message"`
	History []HistoryItem `json:"history"`
}

type Reply struct {
	Reply string `json:"reply"`
}

// messages converts the history and the new message to completion messages.
// Incomplete history items are skipped.
func (r Request) messages() []Message {
	msgs := make([]Message, 0, len(r.History)+1)
	for _, h := range r.History {
		if h.Sender == "" || h.Text == "" {
			continue
		}
		role := RoleAssistant
		if h.Sender == RoleUser {
			role = RoleUser
		}
		msgs = append(msgs, Message{Role: role, Content: h.Text})
	}
	return append(msgs, Message{Role: RoleUser, Content: r.Message})
}
