package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/rs/zerolog/log"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/xavierca1/zapvendas/internal/infra/http/middleware"
	"github.com/xavierca1/zapvendas/internal/usecase"
)

var (
	ErrNotConnected = errors.New("whatsapp client is not connected")
	ErrLoggedOut    = errors.New("whatsapp session was logged out")
	ErrInvalidPhone = errors.New("invalid phone number")
)

// MessageHandler turns an inbound customer message into the reply to send.
type MessageHandler interface {
	HandleIncomingMessage(ctx context.Context, in usecase.IncomingMessage) (string, error)
}

type Config struct {
	ReconnectDelay time.Duration
	TypingDelay    time.Duration
	QROutput       io.Writer
}

// Gateway connects to WhatsApp, feeds customer messages to the handler and
// delivers replies. It also serves as the outbound sender for the API.
type Gateway struct {
	cfg       Config
	handler   MessageHandler
	newClient clientFactory
	session   *session

	mu             sync.Mutex
	ctx            context.Context
	work           context.Context
	cancelWork     context.CancelFunc
	reconnectTimer *time.Timer
	stopped        bool
	inflight       sync.WaitGroup
}

func NewGateway(store *DeviceStore, handler MessageHandler, cfg Config) *Gateway {
	return newGateway(store.factory(), handler, cfg)
}

func newGateway(factory clientFactory, handler MessageHandler, cfg Config) *Gateway {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	if cfg.TypingDelay < 0 {
		cfg.TypingDelay = 0
	}
	if cfg.QROutput == nil {
		cfg.QROutput = os.Stdout
	}
	work, cancelWork := context.WithCancel(context.Background())
	return &Gateway{
		cfg:        cfg,
		handler:    handler,
		newClient:  factory,
		session:    newSession(),
		ctx:        context.Background(),
		work:       work,
		cancelWork: cancelWork,
	}
}

// Start performs the first connection attempt. A failed attempt is retried in
// the background; the error is returned for logging only.
//
// Cancelling ctx stops reconnects only. Replies already being handled keep
// their context until Stop has waited for them.
func (g *Gateway) Start(ctx context.Context) error {
	g.mu.Lock()
	g.ctx = ctx
	g.cancelWork()
	g.work, g.cancelWork = context.WithCancel(context.WithoutCancel(ctx))
	g.mu.Unlock()

	log.Info().Msg("📡 Connecting to WhatsApp...")
	return g.connect()
}

// Stop cancels pending reconnects, waits for in-flight replies until ctx
// expires and closes the connection.
func (g *Gateway) Stop(ctx context.Context) {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	g.stopped = true
	if g.reconnectTimer != nil {
		g.reconnectTimer.Stop()
		g.reconnectTimer = nil
	}
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("⚠️ Shutdown deadline reached with WhatsApp replies still in flight")
	}

	g.mu.Lock()
	g.cancelWork()
	g.mu.Unlock()

	if c := g.session.close(StateDisconnected); c != nil {
		c.Disconnect()
	}
	log.Info().Msg("📴 WhatsApp gateway stopped")
}

func (g *Gateway) lifetime() context.Context {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ctx
}

func (g *Gateway) workContext() context.Context {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.work
}

func (g *Gateway) isStopped() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stopped
}

func (g *Gateway) connect() error {
	ctx := g.lifetime()
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.isStopped() {
		return ErrNotConnected
	}

	gen, ok := g.session.begin()
	if !ok {
		return ErrLoggedOut
	}

	client, qr, err := g.newClient(ctx, func(evt any) { g.handleEvent(gen, evt) })
	if err != nil {
		middleware.RecordIntegrationError("whatsapp")
		g.session.transition(gen, StateDisconnected)
		g.scheduleReconnect()
		return fmt.Errorf("build whatsapp client: %w", err)
	}

	old, ok := g.session.install(gen, client)
	if !ok {
		client.Disconnect()
		return nil
	}
	if old != nil {
		old.Disconnect()
	}

	if qr != nil {
		go g.renderQR(qr)
	}

	if err := client.Connect(); err != nil {
		middleware.RecordIntegrationError("whatsapp")
		g.session.transition(gen, StateDisconnected)
		g.scheduleReconnect()
		return fmt.Errorf("connect whatsapp: %w", err)
	}
	return nil
}

func (g *Gateway) scheduleReconnect() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped || g.reconnectTimer != nil || g.ctx.Err() != nil {
		return
	}

	log.Info().Dur("delay", g.cfg.ReconnectDelay).Msg("🔄 Reconnecting to WhatsApp")
	g.reconnectTimer = time.AfterFunc(g.cfg.ReconnectDelay, func() {
		g.mu.Lock()
		g.reconnectTimer = nil
		g.mu.Unlock()

		if err := g.connect(); err != nil {
			log.Error().Err(err).Msg("❌ WhatsApp reconnection failed")
		}
	})
}

func (g *Gateway) handleEvent(gen uint64, evt any) {
	switch v := evt.(type) {
	case *events.Message:
		g.dispatch(v)
	case *events.Connected:
		if g.session.transition(gen, StateConnected) {
			log.Info().Msg("✅ WhatsApp connected")
		}
	case *events.Disconnected:
		if g.session.transition(gen, StateConnecting) {
			log.Warn().Msg("⚠️ WhatsApp connection closed")
			g.scheduleReconnect()
		}
	case *events.StreamReplaced:
		if g.session.transition(gen, StateDisconnected) {
			log.Warn().Msg("⚠️ WhatsApp session opened elsewhere, not reconnecting")
		}
	case *events.LoggedOut:
		if c, ok := g.session.logout(gen); ok {
			log.Error().Bool("on_connect", v.OnConnect).Msg("🚪 WhatsApp device logged out, pair again to resume")
			if c != nil {
				go c.Disconnect()
			}
		}
	}
}

func (g *Gateway) dispatch(evt *events.Message) {
	in, chat, ok := parseMessageEvent(evt)
	if !ok {
		return
	}

	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	g.inflight.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.inflight.Done()
		g.handleMessage(in, chat)
	}()
}

func (g *Gateway) handleMessage(in usecase.IncomingMessage, chat chatAddress) {
	ctx := g.workContext()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("phone", in.PhoneNumber).Msg("💥 Recovered panic while handling message")
			middleware.RecordReply("error")
			if err := g.sendTo(ctx, chat.JID, usecase.ProcessingErrorReply, false); err != nil {
				log.Error().Err(err).Str("phone", in.PhoneNumber).Msg("❌ Failed to send apology")
			}
		}
	}()

	middleware.RecordInboundMessage()
	log.Info().Str("phone", in.PhoneNumber).Int("length", len(in.Text)).Msg("📩 Message received")

	outcome := "ok"
	reply, err := g.handler.HandleIncomingMessage(ctx, in)
	if err != nil {
		log.Error().Err(err).Str("phone", in.PhoneNumber).Msg("❌ Failed to handle message")
		reply = usecase.ProcessingErrorReply
		outcome = "error"
	}
	if reply == usecase.HandoffReply {
		middleware.RecordHandoff()
	}

	if err := g.sendTo(ctx, chat.JID, reply, true); err != nil {
		log.Error().Err(err).Str("phone", in.PhoneNumber).Msg("❌ Failed to send reply")
		middleware.RecordIntegrationError("whatsapp")
		outcome = "send_failed"
	}
	middleware.RecordReply(outcome)
}

func (g *Gateway) renderQR(qr <-chan whatsmeow.QRChannelItem) {
	for item := range qr {
		switch item.Event {
		case whatsmeow.QRChannelEventCode:
			log.Info().Msg("📱 Scan the QR code with WhatsApp > Linked devices")
			qrterminal.GenerateHalfBlock(item.Code, qrterminal.L, g.cfg.QROutput)
		case whatsmeow.QRChannelSuccess.Event:
			log.Info().Msg("✅ WhatsApp device paired")
		default:
			log.Warn().Str("event", item.Event).AnErr("error", item.Error).Msg("⚠️ QR pairing ended")
		}
	}
}
