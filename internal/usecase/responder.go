package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/zapvendas/internal/entity"
)

const (
	HandoffReply         = "Of course! I'm connecting you with a member of our team. Someone will reach out to you here shortly. 🙌"
	ModelFailureReply    = "Sorry, I'm having a little trouble right now. Could you send your message again in a moment? 🙏"
	HumanTakeoverReply   = "Thanks for your message! A member of our team will get back to you shortly."
	ProcessingErrorReply = "Sorry, something went wrong on our side. Please try again in a few minutes."

	maxRelevantProducts = 3
)

var handoffKeywords = []string{"agent", "human", "speak to someone", "talk to person", "real person"}

// Reply is the Responder output: the text to send and what was learned.
type Reply struct {
	Text     string
	Metadata entity.MessageMetadata
}

type ResponderOptions struct {
	StoreName string
	Timeout   time.Duration
}

type Responder struct {
	catalog      *entity.Catalog
	model        ChatModel
	systemPrompt string
	timeout      time.Duration
}

func NewResponder(catalog *entity.Catalog, model ChatModel, opts ResponderOptions) *Responder {
	return &Responder{
		catalog:      catalog,
		model:        model,
		systemPrompt: BuildSystemPrompt(opts.StoreName, catalog),
		timeout:      opts.Timeout,
	}
}

func RequestsHuman(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range handoffKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Respond never returns an error: model failures become a fixed apology with
// Metadata.Error set.
func (r *Responder) Respond(ctx context.Context, message string, history []*entity.ChatMessage) Reply {
	if RequestsHuman(message) {
		return Reply{
			Text:     HandoffReply,
			Metadata: entity.MessageMetadata{AgentRequested: true},
		}
	}

	info := ExtractCustomerInfo(message)
	relevant := r.catalog.Relevant(message, maxRelevantProducts)

	meta := entity.MessageMetadata{
		ExtractedInfo: &info,
		Model:         r.model.Model(),
	}
	for _, p := range relevant {
		meta.RelevantProducts = append(meta.RelevantProducts, p.ID)
	}

	system := r.systemPrompt + relevantProductsHint(relevant)
	prompt := buildPromptMessages(system, history, message)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	text, err := r.model.Chat(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errEmptyReply
	}
	if err != nil {
		log.Error().Err(err).Str("model", r.model.Model()).Msg("❌ Language model call failed")
		meta.Error = true
		return Reply{Text: ModelFailureReply, Metadata: meta}
	}

	return Reply{Text: strings.TrimSpace(text), Metadata: meta}
}

var errEmptyReply = &TechnicalError{Code: "LLM_EMPTY_REPLY", Message: "language model returned an empty reply"}
