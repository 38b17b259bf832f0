package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/icognita1702/festalog/internal/domain"
)

// AvailabilityRepository answers per-product availability for a date.
type AvailabilityRepository struct {
	db *sqlx.DB
}

func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// GetAvailability returns, for every product, total stock and the quantity
// reserved by confirmed orders on the date. Quotes and finalized orders do
// not hold stock.
func (r *AvailabilityRepository) GetAvailability(ctx context.Context, date time.Time) ([]domain.ProductAvailability, error) {
	query := `
		SELECT
			p.id AS produto_id,
			p.nome,
			p.quantidade_total,
			COALESCE(SUM(CASE WHEN pe.id IS NOT NULL THEN ip.quantidade ELSE 0 END), 0) AS quantidade_reservada
		FROM produtos p
		LEFT JOIN itens_pedido ip ON ip.produto_id = p.id
		LEFT JOIN pedidos pe ON pe.id = ip.pedido_id
			AND pe.data_evento = ?
			AND pe.status NOT IN ('orcamento', 'finalizado')
		GROUP BY p.id, p.nome, p.quantidade_total
		ORDER BY p.nome ASC
	`

	var rows []struct {
		ProdutoID           int64  `db:"produto_id"`
		Nome                string `db:"nome"`
		QuantidadeTotal     int    `db:"quantidade_total"`
		QuantidadeReservada int    `db:"quantidade_reservada"`
	}

	if err := r.db.SelectContext(ctx, &rows, query, date.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}

	availability := make([]domain.ProductAvailability, 0, len(rows))
	for _, row := range rows {
		available := row.QuantidadeTotal - row.QuantidadeReservada
		if available < 0 {
			available = 0
		}

		availability = append(availability, domain.ProductAvailability{
			ProdutoID:            row.ProdutoID,
			Nome:                 row.Nome,
			QuantidadeTotal:      row.QuantidadeTotal,
			QuantidadeReservada:  row.QuantidadeReservada,
			QuantidadeDisponivel: available,
		})
	}

	return availability, nil
}
