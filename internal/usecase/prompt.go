package usecase

import (
	"fmt"
	"strings"

	"github.com/xavierca1/zapvendas/internal/entity"
)

const personaTemplate = `You are the WhatsApp sales assistant for %s.

# STYLE
- Be warm, friendly and brief: 1 to 3 short sentences, like a real person texting.
- Use at most one emoji per message and never use markdown headings or tables.
- Always answer in the same language the customer writes in.
- Ask one question at a time. If you do not know the customer's name or city yet, ask for it naturally.

# RULES
- Only talk about the products listed in the CATALOG below. Never invent products, prices, sizes, colors, discounts or delivery times.
- If the customer asks for something that is not in the catalog, say we don't carry it and suggest the closest item from the catalog.
- Prices are in US dollars exactly as listed.
- When the customer wants to buy, confirm product, size, color and quantity, then tell them a team member will confirm the order and payment.
- If the customer asks for a human, is upset, or asks something you cannot answer from the catalog, tell them you will connect them with a team member.

# CATALOG
%s`

// BuildSystemPrompt renders the persona block followed by the catalog listing.
func BuildSystemPrompt(storeName string, catalog *entity.Catalog) string {
	if strings.TrimSpace(storeName) == "" {
		storeName = "our store"
	}
	return fmt.Sprintf(personaTemplate, storeName, catalog.Render())
}

func relevantProductsHint(products []entity.Product) string {
	if len(products) == 0 {
		return ""
	}
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, fmt.Sprintf("%s ($%.2f)", p.Name, p.Price))
	}
	return "\n# PRODUCTS THE CUSTOMER SEEMS INTERESTED IN\n" + strings.Join(names, ", ") + "\n"
}

// buildPromptMessages assembles system block, prior turns and the new message.
func buildPromptMessages(system string, history []*entity.ChatMessage, message string) []entity.PromptMessage {
	msgs := make([]entity.PromptMessage, 0, len(history)+2)
	msgs = append(msgs, entity.PromptMessage{Role: "system", Content: system})
	for _, turn := range history {
		if turn == nil || strings.TrimSpace(turn.Message) == "" {
			continue
		}
		role := "user"
		if turn.Role == entity.RoleAssistant {
			role = "assistant"
		}
		msgs = append(msgs, entity.PromptMessage{Role: role, Content: turn.Message})
	}
	msgs = append(msgs, entity.PromptMessage{Role: "user", Content: message})
	return msgs
}
