package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/icognita1702/festalog/environments"
	"github.com/icognita1702/festalog/pkg/logger"
)

func NewMySQLDB(cfg environments.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Connected to MySQL database")
	return db, nil
}

func RunMigrations(db *sqlx.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS produtos (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			nome VARCHAR(120) NOT NULL,
			categoria VARCHAR(60) NOT NULL,
			quantidade_total INT NOT NULL DEFAULT 0,
			preco_diaria DECIMAL(10,2) NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS pedidos (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			cliente_nome VARCHAR(120) NOT NULL,
			telefone VARCHAR(20) NOT NULL,
			status VARCHAR(30) NOT NULL DEFAULT 'orcamento',
			data_evento DATE NOT NULL,
			total_pedido DECIMAL(10,2) NOT NULL DEFAULT 0,
			valor_pago DECIMAL(10,2) NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_pedidos_status (status),
			INDEX idx_pedidos_data_evento (data_evento)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS itens_pedido (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			pedido_id BIGINT NOT NULL,
			produto_id BIGINT NOT NULL,
			quantidade INT NOT NULL DEFAULT 1,
			CONSTRAINT fk_itens_pedido FOREIGN KEY (pedido_id) REFERENCES pedidos (id),
			CONSTRAINT fk_itens_produto FOREIGN KEY (produto_id) REFERENCES produtos (id),
			INDEX idx_itens_pedido (pedido_id),
			INDEX idx_itens_produto (produto_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		// No uniqueness constraint on (pedido_id, tipo): the generator's
		// check-then-insert pair is the documented dedup mechanism.
		`CREATE TABLE IF NOT EXISTS notificacoes (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			tipo VARCHAR(30) NOT NULL,
			titulo VARCHAR(200) NOT NULL,
			mensagem TEXT NOT NULL,
			pedido_id BIGINT NOT NULL,
			lida TINYINT(1) NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_notificacoes_pedido FOREIGN KEY (pedido_id) REFERENCES pedidos (id),
			INDEX idx_notificacoes_lida (lida),
			INDEX idx_notificacoes_pedido_tipo (pedido_id, tipo)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Infof("Database migrations completed")

	return nil
}
