package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"partner-portal/config"
	"partner-portal/models"
	"partner-portal/monitoring"
	"partner-portal/utils"

	pubnub "github.com/pubnub/go/v7"
)

const Channel = "partner-notifications"

// Transport is the slice of the PubNub SDK the bridge relies on.
type Transport interface {
	Publish(ctx context.Context, channel string, message any) error
	Listen(ctx context.Context, channel string, handle func(payload []byte)) error
}

// PubNubBridge publishes notifications to a shared PubNub channel and feeds
// every message received on it into the local hub, so clients connected to
// any instance see inserts made on any other.
type PubNubBridge struct {
	transport Transport
	hub       *Hub
	breaker   *utils.CircuitBreaker
	channel   string
	timeout   time.Duration
}

func NewPubNubBridge(transport Transport, hub *Hub, timeout time.Duration) *PubNubBridge {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PubNubBridge{
		transport: transport,
		hub:       hub,
		breaker:   utils.NewCircuitBreaker("pubnub-publish", utils.BreakerSettings{Timeout: 30 * time.Second}),
		channel:   Channel,
		timeout:   timeout,
	}
}

// Publish sends n through PubNub. When PubNub is unreachable, or the breaker is
// open, n is delivered to this instance's subscribers directly and the error is returned.
func (b *PubNubBridge) Publish(ctx context.Context, n models.Notification) error {
	err := b.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()
		return b.transport.Publish(ctx, b.channel, n)
	})
	if err != nil {
		monitoring.TrackPublish("pubnub", "error")
		b.hub.Deliver(n)
		return fmt.Errorf("b.transport.Publish(): %w", err)
	}

	monitoring.TrackPublish("pubnub", "success")
	return nil
}

// Run relays channel messages into the hub until ctx is cancelled.
func (b *PubNubBridge) Run(ctx context.Context) error {
	return b.transport.Listen(ctx, b.channel, func(payload []byte) {
		var n models.Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			slog.Warn("json.Unmarshal()", "error", err, "channel", b.channel)
			return
		}
		if n.PartnerID == "" {
			return
		}
		b.hub.Deliver(n)
	})
}

type pubnubTransport struct {
	pn *pubnub.PubNub
}

func NewPubNubTransport(cfg *config.Config) Transport {
	pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.PubNubUserID))
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	return &pubnubTransport{pn: pubnub.NewPubNub(pnConfig)}
}

func (t *pubnubTransport) Publish(ctx context.Context, channel string, message any) error {
	_, _, err := t.pn.PublishWithContext(ctx).
		Channel(channel).
		Message(message).
		Execute()
	return err
}

func (t *pubnubTransport) Listen(ctx context.Context, channel string, handle func(payload []byte)) error {
	listener := pubnub.NewListener()
	t.pn.AddListener(listener)
	defer t.pn.RemoveListener(listener)

	t.pn.Subscribe().
		Channels([]string{channel}).
		Execute()
	defer func() {
		t.pn.Unsubscribe().
			Channels([]string{channel}).
			Execute()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case status := <-listener.Status:
			slog.Info("pubnub status", "category", status.Category, "channel", channel)
		case message := <-listener.Message:
			payload, err := json.Marshal(message.Message)
			if err != nil {
				slog.Warn("json.Marshal()", "error", err, "channel", channel)
				continue
			}
			handle(payload)
		case <-listener.Presence:
		}
	}
}
