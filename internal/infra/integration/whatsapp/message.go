package whatsapp

import (
	"strings"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/xavierca1/zapvendas/internal/usecase"
)

// chatAddress is where the reply goes; it can be a LID chat even when the
// customer is stored under the phone number.
type chatAddress struct {
	JID types.JID
}

// parseMessageEvent keeps one-to-one text messages from customers.
func parseMessageEvent(evt *events.Message) (usecase.IncomingMessage, chatAddress, bool) {
	if evt == nil || evt.Message == nil {
		return usecase.IncomingMessage{}, chatAddress{}, false
	}
	info := evt.Info
	if info.IsFromMe || info.IsGroup {
		return usecase.IncomingMessage{}, chatAddress{}, false
	}
	switch info.Chat.Server {
	case types.GroupServer, types.BroadcastServer, types.NewsletterServer:
		return usecase.IncomingMessage{}, chatAddress{}, false
	}

	text := strings.TrimSpace(extractText(evt.Message))
	if text == "" {
		return usecase.IncomingMessage{}, chatAddress{}, false
	}

	return usecase.IncomingMessage{PhoneNumber: senderPhone(info.MessageSource), Text: text}, chatAddress{JID: info.Chat}, true
}

func extractText(msg *waE2E.Message) string {
	if text := msg.GetConversation(); text != "" {
		return text
	}
	return msg.GetExtendedTextMessage().GetText()
}

// senderPhone prefers a phone-number address over a LID one.
func senderPhone(src types.MessageSource) string {
	for _, jid := range []types.JID{src.Chat, src.Sender, src.SenderAlt} {
		if jid.Server == types.DefaultUserServer && jid.User != "" {
			return jid.User
		}
	}
	return src.Chat.User
}
