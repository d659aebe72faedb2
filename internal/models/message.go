package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one conversational turn as supplied by the client. History is
// reconstructed from the request on every call; nothing is stored server-side.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TurnResult is the outcome of one handled turn: the candidate's reply plus
// up to three follow-up question suggestions for the recruiter.
type TurnResult struct {
	Reply       string   `json:"candidateResponse"`
	Suggestions []string `json:"suggestions"`
}
