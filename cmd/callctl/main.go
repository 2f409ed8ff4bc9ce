// callctl is a small terminal client for the call-analytics API: it validates
// and uploads a call-event file, saves or prints manual graph snapshots, and
// renders the hourly conversion series for an email.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sachinottawa/call-agent-backend/internal/dashboard"
	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/validation"
)

func main() {
	apiBase := flag.String("api", "http://localhost:8080", "API base URL")
	email := flag.String("email", "", "identity to operate on")
	uploadPath := flag.String("upload", "", "path to a JSON call-event file to upload")
	showGraph := flag.Bool("graph", false, "print the saved manual graph snapshot instead of chart data")
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "-email is required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := dashboard.NewAPIClient(*apiBase, log)

	if *uploadPath != "" {
		if err := upload(ctx, client, *email, *uploadPath); err != nil {
			fmt.Fprintf(os.Stderr, "upload: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("upload ok")
	}

	if *showGraph {
		if err := printGraphSnapshot(ctx, client, *email); err != nil {
			fmt.Fprintf(os.Stderr, "graph: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := printHourlyConversion(ctx, client, log, *email); err != nil {
		fmt.Fprintf(os.Stderr, "chart: %v\n", err)
		os.Exit(1)
	}
}

func upload(ctx context.Context, client *dashboard.APIClient, email, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Validate locally before the round trip, same rules as the server.
	if _, err := validation.ValidateCallEvents(json.RawMessage(raw)); err != nil {
		return err
	}
	return client.UploadCalls(ctx, email, json.RawMessage(raw))
}

func printGraphSnapshot(ctx context.Context, client *dashboard.APIClient, email string) error {
	exists, points, err := client.UserGraphData(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		fmt.Println("no saved graph data")
		return nil
	}
	for _, p := range points {
		fmt.Printf("%-6s %6.2f%%\n", p.Hour, p.Conversion)
	}
	return nil
}

// printHourlyConversion drives the dashboard orchestrator through one
// selection and renders the terminal state it lands in.
func printHourlyConversion(ctx context.Context, client *dashboard.APIClient, log *logger.Logger, email string) error {
	done := make(chan dashboard.Snapshot, 1)
	orch := dashboard.NewOrchestrator(&dashboard.ChartLoader{Client: client}, log, func(s dashboard.Snapshot) {
		if s.State != dashboard.StateLoading {
			select {
			case done <- s:
			default:
			}
		}
	})

	orch.Select(ctx, email)

	var snap dashboard.Snapshot
	select {
	case snap = <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	switch snap.State {
	case dashboard.StateLoadFailed:
		return snap.Err
	case dashboard.StateLoadedEmpty:
		fmt.Println("no data yet")
		return nil
	default:
		for _, p := range snap.Points {
			fmt.Printf("%-6s %6.2f%%\n", p.Hour, p.Conversion)
		}
		return nil
	}
}
