package whatsapp

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"
)

func (g *Gateway) Send(ctx context.Context, phone, text string) error {
	jid, err := PhoneToJID(phone)
	if err != nil {
		return err
	}
	return g.sendTo(ctx, jid, text, false)
}

// SendWithTyping shows the composing indicator for TypingDelay before sending.
func (g *Gateway) SendWithTyping(ctx context.Context, phone, text string) error {
	jid, err := PhoneToJID(phone)
	if err != nil {
		return err
	}
	return g.sendTo(ctx, jid, text, true)
}

func (g *Gateway) IsConnected() bool {
	client, state := g.session.current()
	return client != nil && state == StateConnected && client.IsConnected()
}

func (g *Gateway) State() string {
	return string(g.session.State())
}

func (g *Gateway) sendTo(ctx context.Context, jid types.JID, text string, typing bool) error {
	client, state := g.session.current()
	if client == nil || state != StateConnected {
		return ErrNotConnected
	}

	if typing {
		if err := client.SendChatPresence(ctx, jid, types.ChatPresenceComposing, types.ChatPresenceMediaText); err != nil {
			log.Debug().Err(err).Str("jid", jid.String()).Msg("composing presence failed")
		}
		if err := wait(ctx, g.cfg.TypingDelay); err != nil {
			return err
		}
	}

	if _, err := client.SendMessage(ctx, jid, &waE2E.Message{Conversation: proto.String(text)}); err != nil {
		return fmt.Errorf("send whatsapp message to %s: %w", jid.User, err)
	}

	if typing {
		if err := client.SendChatPresence(ctx, jid, types.ChatPresencePaused, types.ChatPresenceMediaText); err != nil {
			log.Debug().Err(err).Str("jid", jid.String()).Msg("paused presence failed")
		}
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
