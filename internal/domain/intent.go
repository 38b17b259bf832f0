package domain

// Intent is the closed-set classification of an inbound chat message.
type Intent string

const (
	IntentSaudacao        Intent = "saudacao"
	IntentDisponibilidade Intent = "disponibilidade"
	IntentPreco           Intent = "preco"
	IntentOrcamento       Intent = "orcamento"
	IntentAtendente       Intent = "atendente"
	IntentGeral           Intent = "geral"
)

// AllIntents lists every valid intent. Used to reject out-of-set labels
// coming back from the AI classifier.
var AllIntents = []Intent{
	IntentSaudacao,
	IntentDisponibilidade,
	IntentPreco,
	IntentOrcamento,
	IntentAtendente,
	IntentGeral,
}

// Valid reports whether i is one of the defined intents.
func (i Intent) Valid() bool {
	for _, known := range AllIntents {
		if i == known {
			return true
		}
	}
	return false
}

// IntentClassification is the strict shape expected from the AI classifier.
type IntentClassification struct {
	Intencao  string  `json:"intencao"`
	Confianca float64 `json:"confianca"`
}
