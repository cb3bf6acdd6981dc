package biz

import (
	"strings"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/internal/model"
)

// SystemPrompt is the fixed assistant instruction. Replies are in
// Brazilian Portuguese.
const SystemPrompt = "Você é um assistente de IA especialista em análise jurídica e documentos. " +
	"Use o contexto abaixo (recuperado de documentos PDF) para responder à pergunta do usuário. " +
	"Se a resposta não estiver no contexto, diga que não encontrou a informação, mas tente ajudar. " +
	"Responda em Português do Brasil."

// NotFoundReply replaces a blank model answer.
const NotFoundReply = "Não encontrei essa informação nos documentos disponíveis."

const noContext = "(nenhum trecho relevante encontrado nos documentos)"

// Turn is one previous message of a conversation.
type Turn struct {
	Sender  model.Sender
	Content string
}

// BuildPrompt renders the retrieved chunks, the history (oldest first) and
// the question into the user prompt.
func BuildPrompt(results []store.SearchResult, history []Turn, question string) string {
	var b strings.Builder

	b.WriteString("Contexto:\n")
	if len(results) == 0 {
		b.WriteString(noContext)
	}
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.Content)
	}

	b.WriteString("\n\nHistórico da Conversa:\n")
	for _, t := range history {
		if t.Sender == model.SenderAssistant {
			b.WriteString("Assistente: ")
		} else {
			b.WriteString("Usuário: ")
		}
		b.WriteString(t.Content)
		b.WriteString("\n")
	}

	b.WriteString("\nPergunta: ")
	b.WriteString(question)
	return b.String()
}
