// Command ledgertail prints ledger events forwarded to NATS as they happen.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"project-ledger-be/internal/pkg/logger"
	"project-ledger-be/pkg/events"
	pktNats "project-ledger-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("NATS_URL")
	if defaultURL == "" {
		defaultURL = "nats://localhost:4222"
	}

	url := flag.String("url", defaultURL, "NATS server url")
	subject := flag.String("subject", events.SubjectPrefix+">", "subject filter")
	replay := flag.Bool("replay", false, "replay events already in the stream")
	flag.Parse()

	sub, err := pktNats.NewSubscriber(*url, logger.NewNopLogger())
	if err != nil {
		color.Red("Failed to connect to %s: %v", *url, err)
		os.Exit(1)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cc, err := sub.Subscribe(ctx, pktNats.SubscribeOptions{Subject: *subject, DeliverAll: *replay}, func(ctx context.Context, evt events.Event) error {
		printEvent(evt)
		return nil
	})
	if err != nil {
		color.Red("Failed to subscribe: %v", err)
		os.Exit(1)
	}
	defer cc.Stop()

	color.Cyan("Tailing %s on %s (Ctrl+C to stop)", *subject, *url)
	<-ctx.Done()
}

func printEvent(evt events.Event) {
	data := evt.Payload()
	ts := evt.Timestamp().Local().Format("15:04:05")

	var typeColor func(format string, a ...interface{}) string
	switch evt.EventType() {
	case "LEDGER_FINGERPRINT":
		typeColor = color.GreenString
	case "LEDGER_RESTORED":
		typeColor = color.MagentaString
	default:
		typeColor = color.YellowString
	}

	fmt.Printf("%s %-20s seq=%v", color.HiBlackString(ts), typeColor(evt.EventType()), data["seq"])
	if fp, ok := data["fingerprint"].(string); ok && fp != "" {
		fmt.Printf(" fingerprint=%s", color.New(color.Bold).Sprint(fp))
	}
	fmt.Printf(" notebooks=%v notes=%v\n", data["notebookCount"], data["noteCount"])
}
