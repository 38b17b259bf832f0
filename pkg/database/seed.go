package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/icognita1702/festalog/pkg/logger"
)

// SeedTestData loads a small demo catalog and a few orders so the bot and
// the notification generator have something to work with locally.
func SeedTestData(db *sqlx.DB) error {
	var count int

	err := db.Get(&count, "SELECT COUNT(*) FROM produtos")
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Infof("Database already has %d products, skipping seed", count)
		return nil
	}

	products := []struct {
		nome       string
		categoria  string
		quantidade int
		preco      float64
	}{
		{"Pula-pula grande", "inflavel", 4, 250.00},
		{"Castelo inflável", "inflavel", 2, 350.00},
		{"Kit mesas e cadeiras (10 lugares)", "mobiliario", 20, 80.00},
		{"Máquina de algodão doce", "maquina", 3, 180.00},
		{"Máquina de pipoca", "maquina", 3, 150.00},
		{"Kit decoração temática", "decoracao", 6, 220.00},
	}

	for _, p := range products {
		_, err := db.Exec(
			"INSERT INTO produtos (nome, categoria, quantidade_total, preco_diaria) VALUES (?, ?, ?, ?)",
			p.nome, p.categoria, p.quantidade, p.preco,
		)
		if err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
	}

	today := time.Now().Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	lastWeek := time.Now().AddDate(0, 0, -7).Format("2006-01-02")

	orders := []struct {
		cliente string
		fone    string
		status  string
		data    string
		total   float64
		pago    float64
	}{
		{"Maria Souza", "+5519988776655", "entregue", today, 830.00, 830.00},
		{"João Pereira", "+5519977665544", "assinado", tomorrow, 430.00, 215.00},
		{"Ana Lima", "+5519966554433", "entregue", lastWeek, 650.00, 325.00},
		{"Carlos Nunes", "+5519955443322", "orcamento", tomorrow, 250.00, 0},
	}

	for _, o := range orders {
		_, err := db.Exec(
			"INSERT INTO pedidos (cliente_nome, telefone, status, data_evento, total_pedido, valor_pago) VALUES (?, ?, ?, ?, ?, ?)",
			o.cliente, o.fone, o.status, o.data, o.total, o.pago,
		)
		if err != nil {
			return fmt.Errorf("failed to seed orders: %w", err)
		}
	}

	// Reserve some stock for today's delivered order.
	_, err = db.Exec(
		"INSERT INTO itens_pedido (pedido_id, produto_id, quantidade) VALUES (1, 1, 2), (1, 4, 1), (2, 3, 4)")
	if err != nil {
		return fmt.Errorf("failed to seed order items: %w", err)
	}

	logger.Infof("Seeded %d products and %d orders", len(products), len(orders))
	return nil
}
