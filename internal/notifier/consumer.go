package notifier

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/siriwat/tickethub/internal/models"
)

// Notifier consumes booking lifecycle messages and emits the customer-facing
// confirmation. Actual mail transport is out of scope; the rendered
// notification is logged.
type Notifier struct{}

func New() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			n.handleMessage(msg)
		}
		log.Println("[notifier] channel closed, stopping consumer")
	}()
}

func (n *Notifier) handleMessage(msg amqp.Delivery) {
	var booking models.Booking
	if err := json.Unmarshal(msg.Body, &booking); err != nil {
		log.Printf("[notifier] failed to unmarshal: %v", err)
		msg.Nack(false, false) // malformed, drop
		return
	}

	switch msg.RoutingKey {
	case "booking.confirmed":
		ticketCount := 0
		for _, d := range booking.Details {
			ticketCount += d.Quantity
		}
		log.Printf("[notifier] to customer %s: booking %s confirmed, %d ticket(s), total %.2f",
			booking.CustomerID, booking.ReferenceCode, ticketCount, booking.FinalAmount)
	case "booking.cancelled":
		log.Printf("[notifier] to customer %s: booking %s cancelled",
			booking.CustomerID, booking.ReferenceCode)
	default:
		log.Printf("[notifier] ignoring routing key %s", msg.RoutingKey)
	}

	msg.Ack(false)
}
