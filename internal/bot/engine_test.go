package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/icognita1702/festalog/internal/domain"
)

//
// Test fakes – only for this file.
//

type fakeClassifier struct {
	intent domain.Intent
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, message string) domain.Intent {
	f.calls++
	return f.intent
}

type fakeAvailability struct {
	rows []domain.ProductAvailability
	err  error

	queriedDates []time.Time
}

func (f *fakeAvailability) GetAvailability(ctx context.Context, date time.Time) ([]domain.ProductAvailability, error) {
	f.queriedDates = append(f.queriedDates, date)
	return f.rows, f.err
}

type fakeResponder struct {
	reply string
	err   error
	calls int
}

func (f *fakeResponder) FreeText(ctx context.Context, message string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func newTestEngine(classifier *fakeClassifier, availability *fakeAvailability, responder *fakeResponder) (*Engine, *SessionStore) {
	sessions := NewSessionStore()
	return NewEngine(sessions, classifier, availability, responder), sessions
}

func TestReply_CannedResponsesPerIntent(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		intent domain.Intent
		want   string
	}{
		{domain.IntentSaudacao, greetingMenu},
		{domain.IntentPreco, priceList},
		{domain.IntentOrcamento, quoteChecklist},
		{domain.IntentAtendente, humanHandoff},
	}

	for _, tc := range cases {
		engine, sessions := newTestEngine(&fakeClassifier{intent: tc.intent}, &fakeAvailability{}, &fakeResponder{})

		got := engine.Reply(ctx, "111", "alguma mensagem")
		if got != tc.want {
			t.Errorf("Reply for %q = %q, want canned template", tc.intent, got)
		}
		if _, ok := sessions.Get("111"); ok {
			t.Errorf("intent %q must not create a session", tc.intent)
		}
	}
}

func TestReply_DateFlowRoundTrip(t *testing.T) {
	ctx := context.Background()

	classifier := &fakeClassifier{intent: domain.IntentDisponibilidade}
	availability := &fakeAvailability{
		rows: []domain.ProductAvailability{
			{Nome: "Pula-pula grande", QuantidadeTotal: 4, QuantidadeReservada: 2, QuantidadeDisponivel: 2},
			{Nome: "Castelo inflável", QuantidadeTotal: 2, QuantidadeReservada: 2, QuantidadeDisponivel: 0},
		},
	}
	engine, sessions := newTestEngine(classifier, availability, &fakeResponder{})

	// "2" resolves to disponibilidade: prompt for a date and enter the step.
	got := engine.Reply(ctx, "111", "2")
	if got != datePrompt {
		t.Fatalf("expected date prompt, got %q", got)
	}
	conv, ok := sessions.Get("111")
	if !ok || conv.Etapa != domain.StepAwaitingDate {
		t.Fatalf("expected session in aguardando_data, got %+v (ok=%v)", conv, ok)
	}

	// A valid date answers availability and leaves the step.
	got = engine.Reply(ctx, "111", "25/12/2024")
	if !strings.Contains(got, "25/12/2024") {
		t.Errorf("expected availability reply to mention the date, got %q", got)
	}
	if !strings.Contains(got, "✅ Pula-pula grande: 2 de 4") {
		t.Errorf("expected available product line, got %q", got)
	}
	if !strings.Contains(got, "❌ Castelo inflável: 0 de 2") {
		t.Errorf("expected sold-out product line, got %q", got)
	}
	if len(availability.queriedDates) != 1 {
		t.Fatalf("expected 1 availability query, got %d", len(availability.queriedDates))
	}
	queried := availability.queriedDates[0]
	if queried.Year() != 2024 || queried.Month() != time.December || queried.Day() != 25 {
		t.Errorf("expected query for 2024-12-25, got %v", queried)
	}
	if _, ok := sessions.Get("111"); ok {
		t.Fatalf("expected session cleared after availability reply")
	}

	// Same text again is now ordinary input and goes through classification.
	classifier.intent = domain.IntentGeral
	responder := &fakeResponder{reply: "resposta livre"}
	engine = NewEngine(sessions, classifier, availability, responder)

	got = engine.Reply(ctx, "111", "25/12/2024")
	if got != "resposta livre" {
		t.Errorf("expected date outside the step to be ordinary text, got %q", got)
	}
	if len(availability.queriedDates) != 1 {
		t.Errorf("date outside the step must not query availability")
	}
}

func TestReply_MalformedDateReprompts(t *testing.T) {
	ctx := context.Background()

	engine, sessions := newTestEngine(&fakeClassifier{intent: domain.IntentDisponibilidade}, &fakeAvailability{}, &fakeResponder{})

	engine.Reply(ctx, "111", "2")

	got := engine.Reply(ctx, "111", "amanhã")
	if got != dateFormatReminder {
		t.Errorf("expected format reminder, got %q", got)
	}

	conv, ok := sessions.Get("111")
	if !ok || conv.Etapa != domain.StepAwaitingDate {
		t.Fatalf("expected to remain in aguardando_data after bad date")
	}
}

func TestReply_AvailabilityErrorClearsSession(t *testing.T) {
	ctx := context.Background()

	availability := &fakeAvailability{err: fmt.Errorf("database unavailable")}
	engine, sessions := newTestEngine(&fakeClassifier{intent: domain.IntentDisponibilidade}, availability, &fakeResponder{})

	engine.Reply(ctx, "111", "2")

	got := engine.Reply(ctx, "111", "25/12/2024")
	if got != availabilityFailure {
		t.Errorf("expected apology on query failure, got %q", got)
	}

	if _, ok := sessions.Get("111"); ok {
		t.Fatalf("expected session cleared after query failure")
	}
}

func TestReply_EmptyAvailabilityPointsToHuman(t *testing.T) {
	ctx := context.Background()

	engine, _ := newTestEngine(&fakeClassifier{intent: domain.IntentDisponibilidade}, &fakeAvailability{}, &fakeResponder{})

	engine.Reply(ctx, "111", "2")

	got := engine.Reply(ctx, "111", "25/12/2024")
	if got != noProductsConfigured {
		t.Errorf("expected no-products message for empty result, got %q", got)
	}
}

func TestReply_ResetKeywordsEscapeAnyState(t *testing.T) {
	ctx := context.Background()

	for _, keyword := range []string{"menu", "inicio", "início", "voltar", "MENU", "  menu  "} {
		classifier := &fakeClassifier{intent: domain.IntentDisponibilidade}
		engine, sessions := newTestEngine(classifier, &fakeAvailability{}, &fakeResponder{})

		// Enter the date step first.
		engine.Reply(ctx, "111", "2")
		classifierCallsBefore := classifier.calls

		got := engine.Reply(ctx, "111", keyword)
		if got != greetingMenu {
			t.Errorf("reset keyword %q: expected greeting menu, got %q", keyword, got)
		}
		if _, ok := sessions.Get("111"); ok {
			t.Errorf("reset keyword %q: expected session cleared", keyword)
		}
		if classifier.calls != classifierCallsBefore {
			t.Errorf("reset keyword %q must bypass classification", keyword)
		}
	}
}

func TestReply_GeralUsesAIResponder(t *testing.T) {
	ctx := context.Background()

	responder := &fakeResponder{reply: "Trabalhamos com festas infantis sim!"}
	engine, _ := newTestEngine(&fakeClassifier{intent: domain.IntentGeral}, &fakeAvailability{}, responder)

	got := engine.Reply(ctx, "111", "vocês fazem festa infantil?")
	if got != responder.reply {
		t.Errorf("expected AI responder output verbatim, got %q", got)
	}
	if responder.calls != 1 {
		t.Errorf("expected 1 responder call, got %d", responder.calls)
	}
}

func TestReply_GeralResponderFailureStillReplies(t *testing.T) {
	ctx := context.Background()

	responder := &fakeResponder{err: fmt.Errorf("model overloaded")}
	engine, _ := newTestEngine(&fakeClassifier{intent: domain.IntentGeral}, &fakeAvailability{}, responder)

	got := engine.Reply(ctx, "111", "vocês fazem festa infantil?")
	if got != aiUnavailable {
		t.Errorf("expected fallback text on responder failure, got %q", got)
	}
}

func TestCannedReplies_CoverEveryIntent(t *testing.T) {
	for _, intent := range domain.AllIntents {
		if _, ok := cannedReplies[intent]; !ok {
			t.Errorf("canned reply table is missing intent %q", intent)
		}
	}
}
