package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/6Yass9/souli-studio-server/internal/notify"
)

// NotificationWorker consumes appointment.requested events and sends the
// WhatsApp messages for each one. The worker runs a reconnect loop and
// keeps going through broker outages; processing failures are logged and
// the message is acked anyway because delivery is best-effort — a send
// that failed once is not worth redelivering hours later.
type NotificationWorker struct {
	URL        string // broker URL
	Sender     *notify.Sender
	AdminPhone string
}

// Start blocks, consuming events until the process exits. Intended to run
// in its own goroutine from main.
func (w *NotificationWorker) Start() {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(w.URL)
		if err != nil {
			log.Printf("notify-worker: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := w.consumeLoop(conn); err != nil {
			log.Printf("notify-worker: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func (w *NotificationWorker) consumeLoop(conn *amqp.Connection) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(appointmentQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(appointmentQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for d := range msgs {
		w.handle(d.Body)
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

func (w *NotificationWorker) handle(body []byte) {
	var ev AppointmentRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		log.Printf("notify-worker: bad event payload: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res := w.Sender.NotifyAppointment(ctx, ev.Date, ev.ClientName, ev.Phone, ev.Type, w.AdminPhone, log.Printf)
	log.Printf("notify-worker: appointment %s notified (client=%s admin=%s)", ev.AppointmentID, res.Client, res.Admin)
}
