package models

// Message roles. These are replayed verbatim to the completion endpoint.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Message struct {
	Role    string         `json:"role"` // user, assistant, or system
	Content string         `json:"content"`
	Files   []AttachedFile `json:"files,omitempty"`
}

// AttachedFile carries the extracted text of a user-supplied file. Content
// is what gets injected into the prompt context; Name and Type are kept for
// display.
type AttachedFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

type Session struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages,omitempty"`
}

// SessionInfo is the listing view of a session for the history sidebar.
type SessionInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
