package queue

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/fyyur-booking/internal/logging"
)

// DefaultQueue is the durable queue activity events are routed to.
const DefaultQueue = "directory.activity"

// dialTimeout bounds the broker handshake; publishing runs on the request path.
const dialTimeout = 2 * time.Second

// Publisher publishes activity events to RabbitMQ.  Each call opens its own
// connection so a broker outage never leaves a broken channel behind.
type Publisher struct {
	url   string
	queue string
}

// NewPublisher returns a publisher for the broker at url.  An empty queue
// name selects DefaultQueue.
func NewPublisher(url, queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{url: url, queue: queue}
}

// Publish sends ev as a persistent JSON message.  Errors are logged and
// returned so the caller can choose to ignore them.
func (p *Publisher) Publish(ctx context.Context, ev ActivityEvent) error {
	log := logging.With("publisher")

	conn, err := amqp.DialConfig(p.url, amqp.Config{Heartbeat: 10 * time.Second, Locale: "en_US", Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent.  Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		log.Warn().Err(err).Str("queue", p.queue).Msg("rabbitmq queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	// default exchange, routing key = queue name
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		log.Warn().Err(err).Str("type", ev.Type).Msg("rabbitmq publish failed")
		return err
	}
	return nil
}
