package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartFeedConsumer connects to RabbitMQ, declares the feed.reloaded
// queue and delivers decoded events to notify. It runs a reconnect loop
// with capped exponential backoff and returns only when ctx is
// cancelled. Undecodable messages are rejected without requeue so a
// poison message cannot wedge the queue.
func StartFeedConsumer(ctx context.Context, url string, notify func(FeedReloadedEvent)) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("feed-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(ctx, conn, notify); err != nil {
			log.Printf("feed-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}
			continue
		}
		_ = conn.Close()
		return ctx.Err()
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, notify func(FeedReloadedEvent)) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			var ev FeedReloadedEvent
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				log.Printf("feed-consumer: bad message: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			notify(ev)
			_ = d.Ack(false)
		}
	}
}
