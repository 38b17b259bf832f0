package domain

import "time"

// OrderStatus follows the fixed progression of a rental order. This service
// reads orders, it never writes them.
type OrderStatus string

const (
	StatusOrcamento       OrderStatus = "orcamento"
	StatusContratoEnviado OrderStatus = "contrato_enviado"
	StatusAssinado        OrderStatus = "assinado"
	StatusEntradaPaga     OrderStatus = "entrada_paga"
	StatusEntregue        OrderStatus = "entregue"
	StatusRecolhido       OrderStatus = "recolhido"
	StatusFinalizado      OrderStatus = "finalizado"
)

type Order struct {
	ID          int64       `db:"id" json:"id"`
	ClienteNome string      `db:"cliente_nome" json:"clienteNome"`
	Telefone    string      `db:"telefone" json:"telefone"`
	Status      OrderStatus `db:"status" json:"status"`
	DataEvento  time.Time   `db:"data_evento" json:"dataEvento"`
	TotalPedido float64     `db:"total_pedido" json:"totalPedido"`
	ValorPago   float64     `db:"valor_pago" json:"valorPago"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// ProductAvailability is one row of an availability query for a date.
type ProductAvailability struct {
	ProdutoID            int64  `db:"produto_id" json:"produtoId"`
	Nome                 string `db:"nome" json:"nome"`
	QuantidadeTotal      int    `db:"quantidade_total" json:"quantidadeTotal"`
	QuantidadeReservada  int    `db:"quantidade_reservada" json:"quantidadeReservada"`
	QuantidadeDisponivel int    `db:"quantidade_disponivel" json:"quantidadeDisponivel"`
}
