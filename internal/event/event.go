package event

type Type string

const (
	TypeAccountCreated  Type = "account.created"
	TypeAccountDeleted  Type = "account.deleted"
	TypeAccountsCleaned Type = "accounts.cleaned"
	TypeTokenRenewed    Type = "token.renewed"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
