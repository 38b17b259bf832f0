package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/icognita1702/festalog/internal/domain"
)

// NotificationRepository handles database operations for notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ExistsUnread reports whether an unread notification of the given type
// already exists for the order. The generator calls this before every
// insert; the pair is intentionally non-transactional.
func (r *NotificationRepository) ExistsUnread(ctx context.Context, pedidoID int64, tipo domain.NotificationType) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM notificacoes
		WHERE pedido_id = ? AND tipo = ? AND lida = 0
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, pedidoID, tipo); err != nil {
		return false, fmt.Errorf("failed to check unread notification: %w", err)
	}

	return count > 0, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) error {
	query := `
		INSERT INTO notificacoes (tipo, titulo, mensagem, pedido_id, lida, created_at)
		VALUES (?, ?, ?, ?, 0, CURRENT_TIMESTAMP)
	`

	if _, err := r.db.ExecContext(ctx, query, n.Tipo, n.Titulo, n.Mensagem, n.PedidoID); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) GetAll(
	ctx context.Context,
	lida *bool,
	page, pageSize int,
) ([]domain.Notification, int64, error) {
	offset := (page - 1) * pageSize
	var totalCount int64
	var notifications []domain.Notification

	if lida != nil {
		countQuery := "SELECT COUNT(*) FROM notificacoes WHERE lida = ?"
		if err := r.db.GetContext(ctx, &totalCount, countQuery, *lida); err != nil {
			return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
		}

		query := `
			SELECT id, tipo, titulo, mensagem, pedido_id, lida, created_at
			FROM notificacoes
			WHERE lida = ?
			ORDER BY created_at DESC
			LIMIT ? OFFSET ?
		`
		if err := r.db.SelectContext(ctx, &notifications, query, *lida, pageSize, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
		}
	} else {
		countQuery := "SELECT COUNT(*) FROM notificacoes"
		if err := r.db.GetContext(ctx, &totalCount, countQuery); err != nil {
			return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
		}

		query := `
			SELECT id, tipo, titulo, mensagem, pedido_id, lida, created_at
			FROM notificacoes
			ORDER BY created_at DESC
			LIMIT ? OFFSET ?
		`
		if err := r.db.SelectContext(ctx, &notifications, query, pageSize, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
		}
	}

	return notifications, totalCount, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id int64) error {
	query := `UPDATE notificacoes SET lida = 1 WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("no notification found with id %d", id)
	}

	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE notificacoes SET lida = 1 WHERE lida = 0`)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// GetStats returns notification counts per type plus the unread total.
func (r *NotificationRepository) GetStats(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN tipo = 'evento_proximo' THEN 1 ELSE 0 END), 0)     AS evento_proximo,
			COALESCE(SUM(CASE WHEN tipo = 'pagamento_pendente' THEN 1 ELSE 0 END), 0) AS pagamento_pendente,
			COALESCE(SUM(CASE WHEN tipo = 'devolucao' THEN 1 ELSE 0 END), 0)          AS devolucao,
			COALESCE(SUM(CASE WHEN lida = 0 THEN 1 ELSE 0 END), 0)                    AS nao_lidas
		FROM notificacoes
	`

	var stats struct {
		EventoProximo     int64 `db:"evento_proximo"`
		PagamentoPendente int64 `db:"pagamento_pendente"`
		Devolucao         int64 `db:"devolucao"`
		NaoLidas          int64 `db:"nao_lidas"`
	}

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get notification stats: %w", err)
	}

	return map[string]int64{
		"eventoProximo":     stats.EventoProximo,
		"pagamentoPendente": stats.PagamentoPendente,
		"devolucao":         stats.Devolucao,
		"naoLidas":          stats.NaoLidas,
	}, nil
}
