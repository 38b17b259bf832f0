package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/icognita1702/festalog/internal/domain"
	"github.com/icognita1702/festalog/pkg/logger"
)

const unpaidEpsilon = 0.01

// Small internal interfaces so the generator is testable with fakes.
type orderRepository interface {
	GetUnfinished(ctx context.Context) ([]domain.Order, error)
}

type notificationRepository interface {
	ExistsUnread(ctx context.Context, pedidoID int64, tipo domain.NotificationType) (bool, error)
	Create(ctx context.Context, n domain.Notification) error
}

// Generator scans orders and emits reminder notifications. Each candidate
// is deduplicated by an unread (pedido, tipo) existence check before
// insert; running the generator twice against an unchanged order set
// creates nothing on the second run.
type Generator struct {
	orders        orderRepository
	notifications notificationRepository
	now           func() time.Time
}

func NewGenerator(orders orderRepository, notifications notificationRepository) *Generator {
	return &Generator{
		orders:        orders,
		notifications: notifications,
		now:           time.Now,
	}
}

// GenerateAutomaticNotifications runs the three rule passes and returns
// how many notifications were created.
func (g *Generator) GenerateAutomaticNotifications(ctx context.Context) (int, error) {
	orders, err := g.orders.GetUnfinished(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load orders: %w", err)
	}

	now := g.now()
	today := calendarDay(now, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	created := 0
	for _, order := range orders {
		// data_evento is a DATE column the driver parses at UTC midnight,
		// while now carries the server zone. Comparing instants would shift
		// events across day boundaries, so both sides are reduced to their
		// own calendar date and re-anchored in one zone.
		eventDay := calendarDay(order.DataEvento, now.Location())

		if n, ok := g.upcomingEvent(order, eventDay, today, tomorrow); ok {
			if g.createIfAbsent(ctx, n) {
				created++
			}
		}

		if n, ok := g.unpaidBalance(order, eventDay, today); ok {
			if g.createIfAbsent(ctx, n) {
				created++
			}
		}

		if n, ok := g.uncollectedDelivery(order, eventDay, today); ok {
			if g.createIfAbsent(ctx, n) {
				created++
			}
		}
	}

	if created > 0 {
		logger.Infof("Generated %d automatic notifications", created)
	}

	return created, nil
}

// upcomingEvent: event today or tomorrow and not yet wrapped up.
func (g *Generator) upcomingEvent(order domain.Order, eventDay, today, tomorrow time.Time) (domain.Notification, bool) {
	if order.Status == domain.StatusFinalizado || order.Status == domain.StatusRecolhido {
		return domain.Notification{}, false
	}

	if !eventDay.Equal(today) && !eventDay.Equal(tomorrow) {
		return domain.Notification{}, false
	}

	titulo := "📅 Evento amanhã"
	if eventDay.Equal(today) {
		titulo = "🎉 Evento HOJE!"
	}

	return domain.Notification{
		Tipo:     domain.NotificationEventoProximo,
		Titulo:   titulo,
		Mensagem: fmt.Sprintf("O evento de %s está marcado para %s.", order.ClienteNome, eventDay.Format("02/01/2006")),
		PedidoID: order.ID,
	}, true
}

// unpaidBalance: event already happened and there is money outstanding.
func (g *Generator) unpaidBalance(order domain.Order, eventDay, today time.Time) (domain.Notification, bool) {
	if order.Status == domain.StatusFinalizado {
		return domain.Notification{}, false
	}

	if !eventDay.Before(today) {
		return domain.Notification{}, false
	}

	saldo := order.TotalPedido - order.ValorPago
	if saldo <= unpaidEpsilon {
		return domain.Notification{}, false
	}

	return domain.Notification{
		Tipo:     domain.NotificationPagamentoPendente,
		Titulo:   "💰 Pagamento pendente",
		Mensagem: fmt.Sprintf("O pedido de %s tem saldo em aberto de R$ %.2f.", order.ClienteNome, saldo),
		PedidoID: order.ID,
	}, true
}

// uncollectedDelivery: delivered items still out more than 2 days after
// the event.
func (g *Generator) uncollectedDelivery(order domain.Order, eventDay, today time.Time) (domain.Notification, bool) {
	if order.Status != domain.StatusEntregue {
		return domain.Notification{}, false
	}

	if !eventDay.Before(today.AddDate(0, 0, -2)) {
		return domain.Notification{}, false
	}

	return domain.Notification{
		Tipo:     domain.NotificationDevolucao,
		Titulo:   "📦 Itens não recolhidos",
		Mensagem: fmt.Sprintf("Os itens do evento de %s (%s) ainda não foram recolhidos.", order.ClienteNome, eventDay.Format("02/01/2006")),
		PedidoID: order.ID,
	}, true
}

func (g *Generator) createIfAbsent(ctx context.Context, n domain.Notification) bool {
	exists, err := g.notifications.ExistsUnread(ctx, n.PedidoID, n.Tipo)
	if err != nil {
		logger.Errorf("Failed to check existing notification for order %d: %v", n.PedidoID, err)
		return false
	}

	if exists {
		return false
	}

	if err := g.notifications.Create(ctx, n); err != nil {
		logger.Errorf("Failed to create notification for order %d: %v", n.PedidoID, err)
		return false
	}

	return true
}

// calendarDay reduces t to its calendar date in t's own zone, anchored at
// midnight in loc so two reduced values compare as whole days.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
