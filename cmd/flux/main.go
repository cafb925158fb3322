// Command flux is a terminal client for NDJSON generation streams with
// typewriter-paced output.
//
// Usage:
//
//	FLUX_API_KEY=sk-... flux -base-url https://api.example.com [flags]
//
// Flags:
//
//	-base-url string  Service base URL (or FLUX_BASE_URL)
//	-api-key string   API key (or FLUX_API_KEY)
//	-model string     Model ID (default: service default)
//	-smooth           Coalesce and pace streamed text (default true)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/MurphyLo/flux"
	bt "github.com/MurphyLo/flux/bubbletea"
	"github.com/MurphyLo/flux/pipeline"
	"github.com/MurphyLo/flux/remote"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "flux: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		baseURL = flag.String("base-url", "", "Service base URL (or FLUX_BASE_URL)")
		apiKey  = flag.String("api-key", "", "API key (or FLUX_API_KEY)")
		model   = flag.String("model", "", "Model ID (service-specific)")
		smooth  = flag.Bool("smooth", true, "Coalesce and pace streamed text")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Resolve endpoint. Env vars are read here and passed as values.
	ep, err := resolveEndpoint(*baseURL, *apiKey,
		os.Getenv("FLUX_BASE_URL"), os.Getenv("FLUX_API_KEY"))
	if err != nil {
		return err
	}

	var opts []remote.Option
	if ep.apiKey != "" {
		opts = append(opts, remote.WithAPIKey(ep.apiKey))
	}
	client := remote.New(ep.baseURL, opts...)

	generate := generateFunc(client, *model, *smooth)

	tuiModel := bt.New(generate, flux.DefaultTheme())
	if err := bt.Run(ctx, tuiModel); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// generateFunc builds the TUI's generate callback: one request per turn,
// streamed through the smoothing pipeline and drained into onUpdate.
func generateFunc(client *remote.Client, model string, smooth bool) bt.GenerateFunc {
	return func(ctx context.Context, messages []flux.Message, onUpdate func(flux.Update)) error {
		upstream, err := client.Stream(ctx, flux.Request{Model: model, Messages: messages})
		if err != nil {
			return err
		}
		s := pipeline.New(upstream, pipeline.Config{Smooth: smooth})
		defer s.Close()

		for {
			u, err := s.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			onUpdate(u)
		}
	}
}
