package chat

import "time"

// Message persists individual turns for transcript retrieval.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Severity  string    `json:"severity,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
