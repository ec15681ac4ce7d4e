package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartMailConsumer connects to RabbitMQ, declares the film.created queue and
// consumes it, writing one mail notification per event to logs/mail.log in
// the shape the original notification mail had. It runs a reconnect loop with
// exponential backoff and never returns under normal operation, so start it
// on its own goroutine. Processing errors reject the message and the loop
// keeps the server running.
func StartMailConsumer(log *zap.SugaredLogger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Warnw("mail-consumer: dial failed", "err", err, "retry_in", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, log); err != nil {
			log.Warnw("mail-consumer: consume loop ended, reconnecting", "err", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, log *zap.SugaredLogger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warnw("mail-consumer: set QoS failed", "err", err)
	}
	if _, err := ch.QueueDeclare(filmCreatedQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(filmCreatedQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Errorw("mail-consumer: handle message failed", "err", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

// handleMessage formats the notification and appends it to logs/mail.log.
func handleMessage(body []byte) error {
	var event FilmCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "mail.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open mail log: %w", err)
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("%s to=%q subject=%q body=%q\n",
		time.Now().UTC().Format(time.RFC3339),
		"\"Bruce Wayne\" <bruce.wayne@acme.com>",
		fmt.Sprintf("Neuer Film %s", event.FilmID),
		fmt.Sprintf("Der Film namens %q ist angelegt", event.Titel),
	)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write mail log: %w", err)
	}
	return nil
}
