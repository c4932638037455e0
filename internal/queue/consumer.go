package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// StartConsumers runs the two background consumers: the notification
// consumer appends committed bookings to logs/booking.log, the CRM
// consumer delivers templated messages through SendGrid (or logs them
// when no API key is configured).  Each consumer keeps its own
// reconnect loop with exponential backoff and never returns.
func StartConsumers(url string) {
	go consumeForever(url, NotificationQueueName, handleNotification)
	go consumeForever(url, CRMQueueName, handleCRM)
}

func consumeForever(url, queueName string, handle func([]byte) error) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("%s-consumer: dial failed: %v; retrying in %s", queueName, err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, queueName, handle); err != nil {
			log.Printf("%s-consumer: consume loop ended: %v; reconnecting", queueName, err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, queueName string, handle func([]byte) error) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("%s-consumer: set QoS failed: %v", queueName, err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handle(d.Body); err != nil {
			log.Printf("%s-consumer: handle message failed: %v", queueName, err)
			// Reject without requeue so a poison message cannot loop.
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleNotification(body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	worker := "unassigned"
	if ev.WorkerID != nil {
		worker = fmt.Sprintf("%d", *ev.WorkerID)
	}
	line := fmt.Sprintf("[%s] Booking confirmed | booking_id=%d | user_id=%d | worker=%s | status=%s | slot=%s | total=%d %s | reason=%q\n",
		ev.ConfirmedAt, ev.BookingID, ev.UserID, worker, ev.Status, ev.SlotTime, ev.Total, ev.Currency, ev.AssignmentReason)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func handleCRM(body []byte) error {
	var ev CRMEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" || ev.Email == "" {
		log.Printf("crm-consumer: template=%s recipient=%d data=%v (delivery skipped)",
			ev.Template, ev.RecipientID, ev.Data)
		return nil
	}

	from := mail.NewEmail(
		envOr("CRM_FROM_NAME", "SevaHub"),
		envOr("CRM_FROM_EMAIL", "noreply@sevahub.example"),
	)
	to := mail.NewEmail(ev.Name, ev.Email)
	subject, plain := renderTemplate(ev)
	msg := mail.NewSingleEmail(from, subject, to, plain, plain)

	resp, err := sendgrid.NewSendClient(apiKey).Send(msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// renderTemplate maps a template name to a subject and plain body.
// Templates are deliberately simple; rich templating lives in the CRM
// system itself.
func renderTemplate(ev CRMEvent) (subject, body string) {
	switch ev.Template {
	case "booking_confirmed":
		subject = "Your booking is confirmed"
		body = fmt.Sprintf("Hi %s,\n\nYour booking #%s for %s is %s.\n\nThank you.",
			ev.Name, ev.Data["booking_id"], ev.Data["slot_time"], ev.Data["status"])
	default:
		subject = "Update on your booking"
		body = fmt.Sprintf("Hi %s,\n\nThere is an update on your booking #%s.",
			ev.Name, ev.Data["booking_id"])
	}
	return subject, body
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
