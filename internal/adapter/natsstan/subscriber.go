package natsstan

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	stan "github.com/nats-io/stan.go"

	"github.com/example/tarana-storefront/internal/domain"
)

const (
	defaultQueueGroup = "storefront-cart"
	handlerTimeout    = 5 * time.Second
	ackWait           = 10 * time.Second
)

// Subscriber delivers cart commands from a NATS Streaming subject. A message
// is acked only when the handler returns nil.
type Subscriber struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
	Durable   string
	Queue     string
	Log       *slog.Logger
}

// ClientIDFor returns id, or a fresh unique client id with the given prefix.
func ClientIDFor(id, prefix string) string {
	if id != "" {
		return id
	}
	return prefix + "-" + uuid.NewString()
}

func (s *Subscriber) Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	queue := s.Queue
	if queue == "" {
		queue = defaultQueueGroup
	}
	sc, err := stan.Connect(s.ClusterID, ClientIDFor(s.ClientID, "storefront"), stan.NatsURL(s.URL))
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		sc.Close()
	}()
	_, err = sc.QueueSubscribe(s.Subject, queue, func(m *stan.Msg) {
		hCtx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		if err := handler(hCtx, m.Data); err != nil {
			// no ack: the message is redelivered after ackWait
			log.Warn("command handler failed", slog.Uint64("seq", m.Sequence), slog.Any("err", err))
			return
		}
		if err := m.Ack(); err != nil {
			log.Error("ack failed", slog.Uint64("seq", m.Sequence), slog.Any("err", err))
		}
	}, stan.DurableName(s.Durable), stan.SetManualAckMode(), stan.AckWait(ackWait), stan.DeliverAllAvailable())
	if err != nil {
		sc.Close()
	}
	return err
}

var _ domain.CommandSubscriber = (*Subscriber)(nil)
