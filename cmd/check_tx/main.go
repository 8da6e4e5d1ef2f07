package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vitos/lighter_connector/internal/config"
	"github.com/vitos/lighter_connector/internal/infrastructure/exchange"
	"github.com/vitos/lighter_connector/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: check_tx <tx_hash>")
		os.Exit(1)
	}
	txHash := os.Args[1]

	// 1. Load Config
	_ = godotenv.Load()

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	client := exchange.NewLighterClient(cfg.Venue.RESTEndpoint, nil)
	ctx := context.Background()

	fmt.Printf("Checking Transaction...\n")
	fmt.Printf("Endpoint: %s\n", cfg.Venue.RESTEndpoint)
	fmt.Printf("Hash: %s\n", txHash)

	// 2. Single lookup first
	status, found, err := client.GetTransaction(ctx, txHash)
	if err != nil {
		fmt.Printf("❌ Lookup failed: %v\n", err)
		os.Exit(1)
	}
	if !found {
		fmt.Printf("⏳ Transaction not indexed yet, polling until settled or timeout (%s)...\n", cfg.FillTimeout())
	} else {
		fmt.Printf("✅ Status: %d (block %d)\n", status.Status, status.BlockHeight)
	}

	// 3. Poll to a terminal state
	tracker := usecase.NewFillTracker(client, cfg.PollInterval(), cfg.FillTimeout(), nil)
	result, err := tracker.WaitForFill(ctx, txHash, 0)
	if err != nil {
		fmt.Printf("❌ Fill not confirmed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Settled at block %d\n", result.BlockHeight)
	if result.ActualPrice != nil {
		fmt.Printf("✅ Fill price: %f, size: %f\n", *result.ActualPrice, result.ActualSize)
	} else {
		fmt.Printf("⚠️ Settled without a decodable fill event\n")
	}
}
