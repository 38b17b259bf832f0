package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/icognita1702/festalog/internal/domain"
)

// OrderRepository reads order records. Orders are owned by the dashboard;
// this service never writes them.
type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetUnfinished returns every order that has not reached finalizado.
// All notification rules exclude finalized orders, so the generator filters
// the rest in memory.
func (r *OrderRepository) GetUnfinished(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, cliente_nome, telefone, status, data_evento, total_pedido, valor_pago, created_at
		FROM pedidos
		WHERE status != 'finalizado'
		ORDER BY data_evento ASC
	`

	var orders []domain.Order
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("failed to get unfinished orders: %w", err)
	}

	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT id, cliente_nome, telefone, status, data_evento, total_pedido, valor_pago, created_at
		FROM pedidos
		WHERE id = ?
	`

	var order domain.Order
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}
