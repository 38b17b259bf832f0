package notifier

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/icognita1702/festalog/internal/domain"
)

//
// Test fakes – only for this file.
//

type fakeOrderRepo struct {
	orders []domain.Order
	err    error
}

func (r *fakeOrderRepo) GetUnfinished(ctx context.Context) ([]domain.Order, error) {
	return r.orders, r.err
}

type fakeNotificationRepo struct {
	created   []domain.Notification
	existsErr error
	createErr error
}

func (r *fakeNotificationRepo) ExistsUnread(ctx context.Context, pedidoID int64, tipo domain.NotificationType) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, n := range r.created {
		if n.PedidoID == pedidoID && n.Tipo == tipo && !n.Lida {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, n)
	return nil
}

func newTestGenerator(orders *fakeOrderRepo, notifications *fakeNotificationRepo, now time.Time) *Generator {
	g := NewGenerator(orders, notifications)
	g.now = func() time.Time { return now }
	return g
}

var baseDay = time.Date(2024, time.June, 15, 14, 30, 0, 0, time.UTC)

func TestGenerate_UpcomingEventTodayAndTomorrow(t *testing.T) {
	ctx := context.Background()

	orders := &fakeOrderRepo{orders: []domain.Order{
		{ID: 1, ClienteNome: "Maria", Status: domain.StatusEntregue, DataEvento: baseDay},
		{ID: 2, ClienteNome: "João", Status: domain.StatusAssinado, DataEvento: baseDay.AddDate(0, 0, 1)},
		{ID: 3, ClienteNome: "Ana", Status: domain.StatusAssinado, DataEvento: baseDay.AddDate(0, 0, 2)},
		{ID: 4, ClienteNome: "Rui", Status: domain.StatusRecolhido, DataEvento: baseDay},
	}}
	notifications := &fakeNotificationRepo{}
	g := newTestGenerator(orders, notifications, baseDay)

	created, err := g.GenerateAutomaticNotifications(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 2 {
		t.Fatalf("expected 2 notifications, got %d", created)
	}

	byPedido := map[int64]domain.Notification{}
	for _, n := range notifications.created {
		byPedido[n.PedidoID] = n
	}

	today, ok := byPedido[1]
	if !ok || today.Tipo != domain.NotificationEventoProximo {
		t.Fatalf("expected evento_proximo for order 1, got %+v", byPedido)
	}
	if today.Titulo != "🎉 Evento HOJE!" {
		t.Errorf("expected HOJE title variant, got %q", today.Titulo)
	}

	tomorrow, ok := byPedido[2]
	if !ok || tomorrow.Titulo != "📅 Evento amanhã" {
		t.Errorf("expected tomorrow title variant for order 2, got %+v", tomorrow)
	}

	if _, ok := byPedido[3]; ok {
		t.Errorf("order two days out must not notify")
	}
	if _, ok := byPedido[4]; ok {
		t.Errorf("collected order must not notify")
	}
}

func TestGenerate_UnpaidBalance(t *testing.T) {
	ctx := context.Background()

	orders := &fakeOrderRepo{orders: []domain.Order{
		// past event, outstanding balance
		{ID: 1, ClienteNome: "Maria", Status: domain.StatusAssinado, DataEvento: baseDay.AddDate(0, 0, -1), TotalPedido: 400, ValorPago: 200},
		// past event, fully paid (within epsilon)
		{ID: 2, ClienteNome: "João", Status: domain.StatusAssinado, DataEvento: baseDay.AddDate(0, 0, -1), TotalPedido: 400, ValorPago: 399.995},
		// future event, unpaid
		{ID: 3, ClienteNome: "Ana", Status: domain.StatusAssinado, DataEvento: baseDay.AddDate(0, 0, 3), TotalPedido: 400, ValorPago: 0},
	}}
	notifications := &fakeNotificationRepo{}
	g := newTestGenerator(orders, notifications, baseDay)

	created, err := g.GenerateAutomaticNotifications(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 notification, got %d (%+v)", created, notifications.created)
	}

	n := notifications.created[0]
	if n.PedidoID != 1 || n.Tipo != domain.NotificationPagamentoPendente {
		t.Errorf("expected pagamento_pendente for order 1, got %+v", n)
	}
}

func TestGenerate_UncollectedDelivery(t *testing.T) {
	ctx := context.Background()

	orders := &fakeOrderRepo{orders: []domain.Order{
		// delivered, event 3 days ago: notify
		{ID: 1, ClienteNome: "Maria", Status: domain.StatusEntregue, DataEvento: baseDay.AddDate(0, 0, -3), TotalPedido: 200, ValorPago: 200},
		// delivered, event exactly 2 days ago: not older than 2 days yet
		{ID: 2, ClienteNome: "João", Status: domain.StatusEntregue, DataEvento: baseDay.AddDate(0, 0, -2), TotalPedido: 200, ValorPago: 200},
		// collected, event 3 days ago: nothing pending
		{ID: 3, ClienteNome: "Ana", Status: domain.StatusRecolhido, DataEvento: baseDay.AddDate(0, 0, -3), TotalPedido: 200, ValorPago: 200},
	}}
	notifications := &fakeNotificationRepo{}
	g := newTestGenerator(orders, notifications, baseDay)

	created, err := g.GenerateAutomaticNotifications(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 notification, got %d (%+v)", created, notifications.created)
	}
	if notifications.created[0].Tipo != domain.NotificationDevolucao {
		t.Errorf("expected devolucao, got %q", notifications.created[0].Tipo)
	}
}

func TestGenerate_IdempotentAcrossRuns(t *testing.T) {
	ctx := context.Background()

	orders := &fakeOrderRepo{orders: []domain.Order{
		{ID: 1, ClienteNome: "Maria", Status: domain.StatusEntregue, DataEvento: baseDay},
		{ID: 2, ClienteNome: "João", Status: domain.StatusAssinado, DataEvento: baseDay.AddDate(0, 0, -1), TotalPedido: 400, ValorPago: 100},
	}}
	notifications := &fakeNotificationRepo{}
	g := newTestGenerator(orders, notifications, baseDay)

	first, err := g.GenerateAutomaticNotifications(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == 0 {
		t.Fatalf("expected notifications on first run")
	}

	second, err := g.GenerateAutomaticNotifications(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != 0 {
		t.Errorf("expected 0 notifications on second run, got %d", second)
	}
}

func TestGenerate_ReadNotificationAllowsRenotify(t *testing.T) {
	ctx := context.Background()

	orders := &fakeOrderRepo{orders: []domain.Order{
		{ID: 1, ClienteNome: "Maria", Status: domain.StatusAssinado, DataEvento: baseDay.AddDate(0, 0, -1), TotalPedido: 400, ValorPago: 100},
	}}
	notifications := &fakeNotificationRepo{}
	g := newTestGenerator(orders, notifications, baseDay)

	if _, err := g.GenerateAutomaticNotifications(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Dashboard marks it read; the dedup window only covers unread ones.
	notifications.created[0].Lida = true

	created, err := g.GenerateAutomaticNotifications(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 1 {
		t.Errorf("expected a fresh notification once the previous one was read, got %d", created)
	}
}

func TestGenerate_UTCEventDatesWithLocalClock(t *testing.T) {
	ctx := context.Background()

	// data_evento is a DATE column, so the driver hands it back at UTC
	// midnight. The scheduler clock runs in the server's zone (Brazil).
	brt := time.FixedZone("BRT", -3*60*60)
	localNow := time.Date(2024, time.June, 15, 14, 30, 0, 0, brt)
	utcDate := func(day int) time.Time {
		return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
	}

	orders := &fakeOrderRepo{orders: []domain.Order{
		// event today, unpaid: must be evento_proximo, never overdue
		{ID: 1, ClienteNome: "Maria", Status: domain.StatusEntregue, DataEvento: utcDate(15), TotalPedido: 400, ValorPago: 0},
		{ID: 2, ClienteNome: "João", Status: domain.StatusAssinado, DataEvento: utcDate(16), TotalPedido: 400, ValorPago: 400},
		{ID: 3, ClienteNome: "Ana", Status: domain.StatusAssinado, DataEvento: utcDate(14), TotalPedido: 400, ValorPago: 100},
	}}
	notifications := &fakeNotificationRepo{}
	g := newTestGenerator(orders, notifications, localNow)

	if _, err := g.GenerateAutomaticNotifications(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byPedido := map[int64][]domain.Notification{}
	for _, n := range notifications.created {
		byPedido[n.PedidoID] = append(byPedido[n.PedidoID], n)
	}

	today := byPedido[1]
	if len(today) != 1 || today[0].Tipo != domain.NotificationEventoProximo {
		t.Fatalf("expected only evento_proximo for today's order, got %+v", today)
	}
	if today[0].Titulo != "🎉 Evento HOJE!" {
		t.Errorf("expected HOJE title variant, got %q", today[0].Titulo)
	}

	tomorrow := byPedido[2]
	if len(tomorrow) != 1 || tomorrow[0].Titulo != "📅 Evento amanhã" {
		t.Errorf("expected tomorrow title variant for order 2, got %+v", tomorrow)
	}

	yesterday := byPedido[3]
	if len(yesterday) != 1 || yesterday[0].Tipo != domain.NotificationPagamentoPendente {
		t.Errorf("expected pagamento_pendente for yesterday's unpaid order, got %+v", yesterday)
	}
}

func TestGenerate_OrderFetchErrorPropagates(t *testing.T) {
	ctx := context.Background()

	orders := &fakeOrderRepo{err: fmt.Errorf("connection refused")}
	g := newTestGenerator(orders, &fakeNotificationRepo{}, baseDay)

	if _, err := g.GenerateAutomaticNotifications(ctx); err == nil {
		t.Fatalf("expected error when orders cannot be loaded")
	}
}

func TestGenerate_ExistenceCheckErrorSkipsCandidate(t *testing.T) {
	ctx := context.Background()

	orders := &fakeOrderRepo{orders: []domain.Order{
		{ID: 1, ClienteNome: "Maria", Status: domain.StatusEntregue, DataEvento: baseDay},
	}}
	notifications := &fakeNotificationRepo{existsErr: fmt.Errorf("timeout")}
	g := newTestGenerator(orders, notifications, baseDay)

	created, err := g.GenerateAutomaticNotifications(ctx)
	if err != nil {
		t.Fatalf("check errors are per-candidate, run must not fail: %v", err)
	}
	if created != 0 {
		t.Errorf("expected no notifications when the check fails, got %d", created)
	}
}
