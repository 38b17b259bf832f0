package domain

import "time"

type NotificationType string

const (
	NotificationEventoProximo     NotificationType = "evento_proximo"
	NotificationPagamentoPendente NotificationType = "pagamento_pendente"
	NotificationDevolucao         NotificationType = "devolucao"
)

type Notification struct {
	ID        int64            `db:"id" json:"id"`
	Tipo      NotificationType `db:"tipo" json:"tipo"`
	Titulo    string           `db:"titulo" json:"titulo"`
	Mensagem  string           `db:"mensagem" json:"mensagem"`
	PedidoID  int64            `db:"pedido_id" json:"pedidoId"`
	Lida      bool             `db:"lida" json:"lida"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

// SentReplyCache is the Redis-cached record of the last reply delivered to
// a sender, kept for the dashboard conversation view.
type SentReplyCache struct {
	Reply  string    `json:"reply"`
	SentAt time.Time `json:"sentAt"`
}
