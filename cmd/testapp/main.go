// Tracekit Go SDK test application.
//
// Runs a small checkout loop that calls agent.Capture at a few labeled
// points, so breakpoints created in the backend dashboard can be
// exercised locally.
//
// Usage:
//
//	go run ./cmd/testapp --api-key test-key-123 --base-url http://localhost:8080 --debug
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracekit/agent-go/pkg/agent"
)

type order struct {
	OrderID  string
	Amount   float64
	Customer string
}

func main() {
	var (
		apiKey      string
		baseURL     string
		liveURL     string
		serviceName string
		iterations  int
		debug       bool
	)

	root := &cobra.Command{
		Use:   "testapp",
		Short: "Exercises Tracekit snapshot capture against a backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent.Init(
				agent.WithAPIKey(apiKey),
				agent.WithServiceName(serviceName),
				agent.WithBaseURL(baseURL),
				agent.WithLiveURL(liveURL),
				agent.WithDebug(debug),
			)
			defer agent.Shutdown()

			fmt.Println("Waiting for initial breakpoint fetch...")
			time.Sleep(2 * time.Second)

			for i := 0; i < iterations; i++ {
				processOrder(order{
					OrderID:  fmt.Sprintf("ord-%04d", i),
					Amount:   19.99 * float64(i+1),
					Customer: "tester@example.com",
				})
				time.Sleep(time.Second)
			}

			fmt.Println("Done. Flushing pending snapshots...")
			return nil
		},
	}

	root.Flags().StringVar(&apiKey, "api-key", os.Getenv("TRACEKIT_API_KEY"), "backend API key")
	root.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "backend API root")
	root.Flags().StringVar(&liveURL, "live-url", "", "optional websocket URL for live breakpoint pushes")
	root.Flags().StringVar(&serviceName, "service", "testapp", "service name")
	root.Flags().IntVar(&iterations, "iterations", 5, "number of orders to process")
	root.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func processOrder(o order) {
	agent.Capture("order-received", map[string]any{
		"orderId":  o.OrderID,
		"amount":   o.Amount,
		"customer": o.Customer,
	})

	total := o.Amount * 1.19 // VAT

	// Deliberately sensitive-looking data to demonstrate sanitizing.
	agent.Capture("order-charged", map[string]any{
		"orderId":    o.OrderID,
		"total":      total,
		"cardNumber": "4532015112830366",
		"apiSecret":  "sk_live_51H3qI2Abc123xyz456789",
	})

	fmt.Printf("processed %s: %.2f\n", o.OrderID, total)
}
