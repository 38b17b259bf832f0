package intent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/icognita1702/festalog/internal/domain"
	"github.com/icognita1702/festalog/pkg/logger"
)

// aiClassifier is the slice of the AI client the classifier needs.
type aiClassifier interface {
	Classify(ctx context.Context, message string) (string, error)
}

// Classifier maps an inbound message to one of the closed set of intents.
// Fast local rules run first; only messages no rule matches go to the AI
// backend, and any AI failure falls back to geral.
type Classifier struct {
	ai aiClassifier
}

func NewClassifier(ai aiClassifier) *Classifier {
	return &Classifier{ai: ai}
}

// Short tokens must match the whole message; phrases match as substrings.
var greetings = []string{
	"oi", "ola", "olá", "opa", "eai", "e aí",
	"bom dia", "boa tarde", "boa noite",
}

// Menu option tokens from the greeting message.
var menuOptions = map[string]domain.Intent{
	"1": domain.IntentPreco,
	"2": domain.IntentDisponibilidade,
	"3": domain.IntentOrcamento,
	"4": domain.IntentAtendente,
}

var keywordRules = []struct {
	intent   domain.Intent
	keywords []string
}{
	{domain.IntentDisponibilidade, []string{"disponibilidade", "disponível", "disponivel", "tem para", "tem pra"}},
	{domain.IntentPreco, []string{"preço", "preco", "valor", "quanto custa", "tabela"}},
	{domain.IntentOrcamento, []string{"orçamento", "orcamento", "cotação", "cotacao"}},
	{domain.IntentAtendente, []string{"atendente", "humano", "falar com"}},
}

// Classify resolves the message to an intent. It never fails: heuristic
// misses go to the AI backend and AI failures resolve to geral.
func (c *Classifier) Classify(ctx context.Context, message string) domain.Intent {
	if intent, ok := classifyLocal(message); ok {
		return intent
	}

	raw, err := c.ai.Classify(ctx, message)
	if err != nil {
		logger.Warnf("AI classification failed, falling back to geral: %v", err)
		return domain.IntentGeral
	}

	return decodeClassification(raw)
}

// classifyLocal applies the keyword rules in priority order. A hit here
// means the AI backend is never consulted.
func classifyLocal(message string) (domain.Intent, bool) {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return domain.IntentGeral, true
	}

	for _, g := range greetings {
		if normalized == g || (len(g) > 3 && strings.Contains(normalized, g)) {
			return domain.IntentSaudacao, true
		}
	}

	if intent, ok := menuOptions[normalized]; ok {
		return intent, true
	}

	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.intent, true
			}
		}
	}

	return "", false
}

// decodeClassification strictly decodes the AI answer. Anything that is
// not the expected JSON shape with a known label maps to geral.
func decodeClassification(raw string) domain.Intent {
	var parsed domain.IntentClassification
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		logger.Warnf("Unparseable AI classification %q: %v", raw, err)
		return domain.IntentGeral
	}

	intent := domain.Intent(parsed.Intencao)
	if !intent.Valid() {
		logger.Warnf("AI returned unknown intent label %q", parsed.Intencao)
		return domain.IntentGeral
	}

	return intent
}
