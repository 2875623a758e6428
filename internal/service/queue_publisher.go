// Package service publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can ignore them without interrupting
// the request that caused the event.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/rental-marketplace/internal/queue"
)

// Publisher sends booking events somewhere.
type Publisher interface {
	PublishBooking(ctx context.Context, ev queue.BookingEvent) error
}

// NopPublisher drops every event.  It is used when no broker is
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishBooking(context.Context, queue.BookingEvent) error { return nil }

// AMQPPublisher dials the broker for each event.  Booking events are
// rare enough that a held connection is not worth its reconnect logic.
type AMQPPublisher struct {
	URL string
}

// PublishBooking sends ev to queue.BookingQueue as a persistent JSON
// message.
func (p AMQPPublisher) PublishBooking(ctx context.Context, ev queue.BookingEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.BookingQueue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Kind,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.BookingQueue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// NewPublisher returns an AMQP publisher for url, or a NopPublisher when
// url is empty.
func NewPublisher(url string) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	return AMQPPublisher{URL: url}
}
