package bot

import (
	"context"
	"strings"
	"time"

	"github.com/icognita1702/festalog/internal/domain"
	"github.com/icognita1702/festalog/pkg/logger"
)

const dateLayout = "02/01/2006"

// Reset keywords escape any pending flow, checked before state logic.
var resetKeywords = map[string]struct{}{
	"menu":   {},
	"inicio": {},
	"início": {},
	"voltar": {},
}

// Small internal interfaces so the engine is testable without MySQL or the
// Gemini API.
type intentClassifier interface {
	Classify(ctx context.Context, message string) domain.Intent
}

type availabilityQuerier interface {
	GetAvailability(ctx context.Context, date time.Time) ([]domain.ProductAvailability, error)
}

type freeTextResponder interface {
	FreeText(ctx context.Context, message string) (string, error)
}

// Engine computes the reply text for an inbound message. It owns the
// session store; it never sends anything itself.
type Engine struct {
	sessions     *SessionStore
	classifier   intentClassifier
	availability availabilityQuerier
	responder    freeTextResponder
}

func NewEngine(
	sessions *SessionStore,
	classifier intentClassifier,
	availability availabilityQuerier,
	responder freeTextResponder,
) *Engine {
	return &Engine{
		sessions:     sessions,
		classifier:   classifier,
		availability: availability,
		responder:    responder,
	}
}

// Reply produces exactly one reply string for the message. Every failure
// path resolves to user-facing text; errors never escape.
func (e *Engine) Reply(ctx context.Context, sender, message string) string {
	normalized := strings.ToLower(strings.TrimSpace(message))

	if _, ok := resetKeywords[normalized]; ok {
		e.sessions.Clear(sender)
		return greetingMenu
	}

	if conv, ok := e.sessions.Get(sender); ok && conv.Etapa == domain.StepAwaitingDate {
		return e.answerAvailability(ctx, sender, strings.TrimSpace(message))
	}

	intent := e.classifier.Classify(ctx, message)

	switch intent {
	case domain.IntentDisponibilidade:
		e.sessions.Set(sender, domain.StepAwaitingDate, nil)
		return datePrompt

	case domain.IntentGeral:
		reply, err := e.responder.FreeText(ctx, message)
		if err != nil {
			logger.Warnf("AI responder failed for %s: %v", sender, err)
			return aiUnavailable
		}
		return reply

	default:
		return CannedReply(intent)
	}
}

// answerAvailability handles the aguardando_data step. A bad date keeps the
// step; a query failure clears it so the sender is never stuck in a state
// whose only exit just errored.
func (e *Engine) answerAvailability(ctx context.Context, sender, message string) string {
	date, err := time.Parse(dateLayout, message)
	if err != nil {
		return dateFormatReminder
	}

	e.sessions.Clear(sender)

	rows, err := e.availability.GetAvailability(ctx, date)
	if err != nil {
		logger.Errorf("Availability query failed for %s: %v", date.Format(dateLayout), err)
		return availabilityFailure
	}

	return FormatAvailability(date, rows)
}
