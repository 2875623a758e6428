package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LogFile is the file, inside the consumer's log directory, that booking
// events are appended to.
const LogFile = "booking.log"

// Consumer appends every booking event from BookingQueue to
// <LogDir>/booking.log, one line per event.
type Consumer struct {
	URL    string
	LogDir string
}

// Run dials the broker and consumes until ctx is done, reconnecting with
// exponential backoff (capped at 30s) whenever the connection drops.
// Undecodable messages are rejected without requeue.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Printf("booking-consumer: dial failed: %v; retrying in %s", err, backoff)
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("booking-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(BookingQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(BookingQueue, "", false, false, false, false, nil)
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
				log.Printf("booking-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == "" {
		return errors.New("event without booking id")
	}
	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.LogDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.LogDir, LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatEvent(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatEvent(ev BookingEvent) string {
	return fmt.Sprintf("[%s] Booking %s | booking_id=%s | property_id=%s | property=%q | user_id=%s | owner_id=%s | status=%s\n",
		ev.OccurredAt.Format(time.RFC3339), ev.Kind, ev.BookingID, ev.PropertyID, ev.PropertyTitle, ev.UserID, ev.OwnerID, ev.Status)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
