package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"homeclean-be/internal/config"
	"homeclean-be/pkg/events"
	pktNats "homeclean-be/pkg/nats"

	"github.com/fatih/color"
)

// Tails lifecycle events off the NATS bus for operators. Run it next to a
// local stack to watch reservations move through their states in real time.
func main() {
	cfg := config.Load()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Unable to connect to NATS at %s: %v", cfg.App.NatsURL, err)
	}
	defer sub.Close()

	subjectColor := map[string]*color.Color{
		"events." + events.TypeReservationStatusChanged: color.New(color.FgCyan),
		"events." + events.TypePaymentConfirmed:         color.New(color.FgGreen),
		"events." + events.TypeRefundRequested:          color.New(color.FgYellow),
	}

	err = sub.Subscribe("events.>", "eventtail", func(ctx context.Context, ev events.Event) error {
		body, err := json.Marshal(ev.Payload())
		if err != nil {
			return err
		}
		c, ok := subjectColor[ev.EventType()]
		if !ok {
			c = color.New(color.FgWhite)
		}
		c.Printf("%s  %s %s\n", ev.Timestamp().Format("15:04:05"), ev.EventType(), body)
		return nil
	})
	if err != nil {
		log.Fatalf("Subscribe failed: %v", err)
	}

	color.New(color.Bold).Println("Tailing events.> — Ctrl+C to stop")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}
