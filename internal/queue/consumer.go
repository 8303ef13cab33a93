package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/fyyur-booking/internal/logging"
)

// ActivityLogFile is the file the consumer appends to inside its log dir.
const ActivityLogFile = "activity.log"

// Consumer drains the activity queue into a human-readable log file.
type Consumer struct {
	URL    string
	Queue  string
	LogDir string
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes
// messages until ctx is cancelled.  Each message is appended to
// LogDir/activity.log as one line.  Connection failures are retried with
// exponential backoff; a message that cannot be handled is rejected
// without requeue so the loop keeps going.
func (c *Consumer) Run(ctx context.Context) error {
	log := logging.With("activity-consumer")
	queue := c.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn, queue)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection, queue string) error {
	log := logging.With("activity-consumer")
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("set QoS failed")
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(d.Body); err != nil {
				log.Error().Err(err).Msg("handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev ActivityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	dir := c.LogDir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, ActivityLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as a single newline-terminated log line.
func FormatLine(ev ActivityEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | id=%s | entity_id=%d", ev.OccurredAt, ev.Type, ev.ID, ev.EntityID)
	if ev.Name != "" {
		fmt.Fprintf(&b, " | name=%q", ev.Name)
	}
	if ev.ArtistID != 0 {
		fmt.Fprintf(&b, " | artist_id=%d", ev.ArtistID)
	}
	if ev.VenueID != 0 {
		fmt.Fprintf(&b, " | venue_id=%d", ev.VenueID)
	}
	if ev.StartTime != "" {
		fmt.Fprintf(&b, " | start_time=%s", ev.StartTime)
	}
	if ev.RemovedShows != 0 {
		fmt.Fprintf(&b, " | removed_shows=%d", ev.RemovedShows)
	}
	b.WriteByte('\n')
	return b.String()
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
