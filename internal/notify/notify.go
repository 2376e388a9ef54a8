// Package notify pushes billing events to customers' devices.
package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"

	"billingBack/internal/billing"
)

// Notifier delivers customer-facing messages. Implementations are best effort.
type Notifier interface {
	InvoiceIssued(ctx context.Context, customerID, invoiceID int64, grandTotal string) error
	PaymentReceived(ctx context.Context, r billing.Receipt) error
}

// Nop drops every message.
type Nop struct{}

func (Nop) InvoiceIssued(context.Context, int64, int64, string) error { return nil }
func (Nop) PaymentReceived(context.Context, billing.Receipt) error    { return nil }

type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier publishes to the per-customer topic the mobile app subscribes to.
type FCMNotifier struct {
	client sender
}

func NewFCMNotifier(ctx context.Context, credentialsFile string) (*FCMNotifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return &FCMNotifier{client: client}, nil
}

func Topic(customerID int64) string {
	return fmt.Sprintf("customer_%d", customerID)
}

func (n *FCMNotifier) InvoiceIssued(ctx context.Context, customerID, invoiceID int64, grandTotal string) error {
	return n.send(ctx, customerID, "New invoice",
		fmt.Sprintf("Invoice #%d for %s has been issued", invoiceID, grandTotal),
		map[string]string{"type": "invoice", "invoiceId": fmt.Sprint(invoiceID)})
}

func (n *FCMNotifier) PaymentReceived(ctx context.Context, r billing.Receipt) error {
	return n.send(ctx, r.CustomerID, "Payment received",
		fmt.Sprintf("%s received for invoice #%d. Status: %s", r.AmountPaid.StringFixed(2), r.InvoiceID, r.InvoiceStatus),
		map[string]string{"type": "payment", "invoiceId": fmt.Sprint(r.InvoiceID), "paymentId": fmt.Sprint(r.PaymentID)})
}

func (n *FCMNotifier) send(ctx context.Context, customerID int64, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Topic: Topic(customerID),
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
	if _, err := n.client.Send(ctx, message); err != nil {
		return fmt.Errorf("fcm send to %s: %w", message.Topic, err)
	}
	return nil
}
