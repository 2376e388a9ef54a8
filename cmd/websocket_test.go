package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"billingBack/internal/billing"
)

func TestPaymentHubDropsWhenFull(t *testing.T) {
	hub := NewPaymentHub(log.New(io.Discard, "", 0))
	for i := 0; i < hubBuffer+5; i++ {
		hub.PaymentRecorded(billing.Receipt{PaymentID: int64(i)})
	}
	if got := len(hub.broadcast); got != hubBuffer {
		t.Errorf("queued = %d, want %d", got, hubBuffer)
	}
}

func TestPaymentHubDeliversToSubscribers(t *testing.T) {
	hub := NewPaymentHub(log.New(io.Discard, "", 0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &hubClient{send: make(chan paymentEvent, 1)}
	hub.register <- c
	hub.PaymentRecorded(billing.Receipt{PaymentID: 7})

	select {
	case ev := <-c.send:
		if ev.Receipt.PaymentID != 7 || ev.Type != "payment.recorded" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("send channel should be closed on shutdown")
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not shut down")
	}
}

func TestPaymentHubDisconnectsSlowSubscriber(t *testing.T) {
	hub := NewPaymentHub(log.New(io.Discard, "", 0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &hubClient{send: make(chan paymentEvent)}
	hub.register <- c
	hub.PaymentRecorded(billing.Receipt{PaymentID: 1})

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("unbuffered subscriber should have been dropped, got an event")
		}
	case <-time.After(time.Second):
		t.Fatal("slow subscriber was not disconnected")
	}
}

func TestServeWSStreamsReceipts(t *testing.T) {
	hub := NewPaymentHub(log.New(io.Discard, "", 0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	got := make(chan paymentEvent, 1)
	go func() {
		var ev paymentEvent
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if err := conn.ReadJSON(&ev); err == nil {
			got <- ev
		}
		close(got)
	}()

	// The subscriber registers asynchronously after the handshake, so keep
	// publishing until the first frame arrives.
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-got:
			if !ok {
				t.Fatal("no frame received")
			}
			if ev.Type != "payment.recorded" || ev.Receipt.PaymentID != 11 || ev.Receipt.InvoiceID != 31 {
				t.Errorf("event = %+v", ev)
			}
			return
		case <-ticker.C:
			hub.PaymentRecorded(billing.Receipt{PaymentID: 11, InvoiceID: 31})
		}
	}
}
