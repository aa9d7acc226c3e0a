package whatsapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// waClient is the subset of *whatsmeow.Client the gateway drives.
type waClient interface {
	Connect() error
	Disconnect()
	IsConnected() bool
	SendMessage(ctx context.Context, to types.JID, message *waE2E.Message, extra ...whatsmeow.SendRequestExtra) (whatsmeow.SendResponse, error)
	SendChatPresence(ctx context.Context, jid types.JID, state types.ChatPresence, media types.ChatPresenceMedia) error
}

// clientFactory builds a fresh client for every (re)connection. qr is non-nil
// when the device is not paired yet.
type clientFactory func(ctx context.Context, onEvent func(any)) (client waClient, qr <-chan whatsmeow.QRChannelItem, err error)

// DeviceStore owns the whatsmeow session database.
type DeviceStore struct {
	container *sqlstore.Container
	logger    zerolog.Logger
}

// OpenDeviceStore opens the session store. A postgres:// DSN uses lib/pq,
// anything else is treated as a sqlite3 file DSN.
func OpenDeviceStore(ctx context.Context, dsn string, logger zerolog.Logger) (*DeviceStore, error) {
	dialect := "sqlite3"
	if isPostgresDSN(dsn) {
		dialect = "postgres"
	}

	container, err := sqlstore.New(ctx, dialect, dsn, waLog.Zerolog(logger.With().Str("module", "whatsmeow-store").Logger()))
	if err != nil {
		return nil, fmt.Errorf("open whatsapp device store (%s): %w", dialect, err)
	}
	return &DeviceStore{container: container, logger: logger}, nil
}

func (s *DeviceStore) Close() error {
	return s.container.Close()
}

func (s *DeviceStore) factory() clientFactory {
	return func(ctx context.Context, onEvent func(any)) (waClient, <-chan whatsmeow.QRChannelItem, error) {
		device, err := s.container.GetFirstDevice(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load whatsapp device: %w", err)
		}

		client := whatsmeow.NewClient(device, waLog.Zerolog(s.logger.With().Str("module", "whatsmeow").Logger()))
		client.EnableAutoReconnect = false
		client.AddEventHandler(onEvent)

		if client.Store.ID != nil {
			return client, nil, nil
		}

		qr, err := client.GetQRChannel(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("open qr channel: %w", err)
		}
		return client, qr, nil
	}
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
