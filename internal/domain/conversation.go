package domain

// Conversation steps. Only one multi-turn flow exists today: the bot asks
// for a date before answering an availability query.
const (
	StepAwaitingDate = "aguardando_data"
)

// Conversation is the per-sender pending flow state. It lives in memory
// only; a restart resets every in-flight conversation.
type Conversation struct {
	Etapa string
	Dados map[string]string
}

// InboundMessage is the normalized triple extracted from a gateway webhook
// event. Non-text, self-sent and group events never reach this type.
type InboundMessage struct {
	SenderNumber string
	Text         string
	DisplayName  string
}
