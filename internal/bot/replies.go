package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/icognita1702/festalog/internal/domain"
)

// Literal business copy. Customers see these strings verbatim, so they are
// kept in one table instead of being inlined per call site.

const greetingMenu = `Olá! 🎉 Bem-vindo à Festalog Locações!

Escolha uma opção:
1️⃣ Ver tabela de preços
2️⃣ Consultar disponibilidade
3️⃣ Solicitar orçamento
4️⃣ Falar com um atendente

Ou escreva sua dúvida que eu tento ajudar! 😊`

const priceList = `💰 Nossa tabela de preços (diária):

🎪 Brinquedos infláveis — a partir de R$ 250,00
🪑 Mesas e cadeiras — a partir de R$ 80,00 (kit 10 lugares)
🍭 Máquinas de festa (algodão doce, pipoca) — a partir de R$ 150,00
🎈 Kits de decoração temática — a partir de R$ 220,00

Para um valor fechado com entrega, digite 3 e peça um orçamento!`

const datePrompt = `📅 Para consultar a disponibilidade, me informe a data do evento no formato DD/MM/AAAA (ex: 25/12/2024).`

const quoteChecklist = `📝 Para montar seu orçamento, me envie:

• Data do evento
• Endereço de entrega
• Lista de itens desejados

Retornamos com o valor completo em até 1 hora! 🎈`

const humanHandoff = `Vou te passar para um atendente 👩‍💼

Nosso horário de atendimento é de segunda a sábado, das 8h às 18h. Só um instante!`

const fallbackReply = `Desculpe, não entendi. 🤔 Digite *menu* para ver as opções.`

const dateFormatReminder = `Ops, não consegui entender essa data. 📅 Envie no formato DD/MM/AAAA (ex: 25/12/2024).`

const availabilityFailure = `Desculpe, tive um problema ao consultar a disponibilidade. 😕 Tente de novo em instantes ou digite *menu*.`

const noProductsConfigured = `Ainda não temos produtos cadastrados para consulta. Digite 4 para falar com um atendente.`

const aiUnavailable = `Desculpe, estou com dificuldade para responder agora. Digite *menu* para ver as opções.`

// cannedReplies maps every intent to its template. The geral entry is the
// offline fallback; the live geral path goes through the AI responder.
var cannedReplies = map[domain.Intent]string{
	domain.IntentSaudacao:        greetingMenu,
	domain.IntentDisponibilidade: datePrompt,
	domain.IntentPreco:           priceList,
	domain.IntentOrcamento:       quoteChecklist,
	domain.IntentAtendente:       humanHandoff,
	domain.IntentGeral:           fallbackReply,
}

// CannedReply returns the template for the intent.
func CannedReply(intent domain.Intent) string {
	if reply, ok := cannedReplies[intent]; ok {
		return reply
	}
	return fallbackReply
}

// FormatAvailability renders the availability rows for a date: one line
// per product with a marker glyph, then a call-to-action.
func FormatAvailability(date time.Time, rows []domain.ProductAvailability) string {
	if len(rows) == 0 {
		return noProductsConfigured
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📦 Disponibilidade para %s:\n\n", date.Format("02/01/2006"))

	for _, row := range rows {
		marker := "❌"
		if row.QuantidadeDisponivel > 0 {
			marker = "✅"
		}
		fmt.Fprintf(&b, "%s %s: %d de %d disponíveis\n",
			marker, row.Nome, row.QuantidadeDisponivel, row.QuantidadeTotal)
	}

	b.WriteString("\nPara solicitar um orçamento, digite 3 😉")

	return b.String()
}
