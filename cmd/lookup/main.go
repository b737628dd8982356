// Command lookup prints the most important active weather alert for a
// location, or for a list of SAME codes.
//
// Usage:
//
//	go run ./cmd/lookup Austin TX
//	go run ./cmd/lookup -same 045019,048453
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/weatherbox/internal/adapter/arcgis"
	"github.com/couchcryptid/weatherbox/internal/adapter/nws"
	"github.com/couchcryptid/weatherbox/internal/config"
	"github.com/couchcryptid/weatherbox/internal/domain"
	"github.com/couchcryptid/weatherbox/internal/observability"
	"github.com/couchcryptid/weatherbox/internal/pipeline"
)

func main() {
	same := flag.String("same", "", "comma-separated SAME codes to query instead of a city/state")
	timeout := flag.Duration("timeout", 30*time.Second, "deadline for the whole lookup")
	flag.Parse()

	if *same == "" && flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*same, *timeout, flag.Args()); code != 0 {
		os.Exit(code)
	}
}

func run(same string, timeout time.Duration, args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	geocoder := arcgis.NewCachedGeocoder(
		arcgis.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderTimeout, logger, metrics),
		cfg.GeocodeCacheSize,
		metrics,
	)
	weather := nws.NewClient(cfg.NWSBaseURL, cfg.NWSUserAgent, cfg.NWSTimeout, logger, metrics)
	svc := pipeline.New(geocoder, weather, weather, logger, metrics)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if same != "" {
		return lookupSAMECodes(ctx, svc, same)
	}
	return lookupLocation(ctx, svc, args[0], args[1])
}

func lookupLocation(ctx context.Context, svc *pipeline.Service, city, state string) int {
	coords, err := svc.Coordinates(ctx, city, state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting coordinates: %v\n", err)
		return 1
	}

	alert, err := svc.MostImportantForLocation(ctx, city, state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching alerts: %v\n", err)
		return 1
	}

	fmt.Println("\n=== Weather Alerts ===")
	fmt.Println()
	fmt.Printf("Location: %s, %s\n", city, state)
	fmt.Printf("Coordinates: %g, %g\n", coords.Lat, coords.Lon)

	printAlert(alert)

	fmt.Println("\n" + strings.Repeat("-", 50))
	return 0
}

func lookupSAMECodes(ctx context.Context, svc *pipeline.Service, same string) int {
	var codes []string
	for _, code := range strings.Split(same, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no SAME codes given")
		return 1
	}

	results, err := svc.MostImportantPerCode(ctx, codes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching alerts: %v\n", err)
		return 1
	}

	for _, code := range codes {
		fmt.Printf("\n=== SAME code %s ===\n\n", code)
		printAlert(results[code])
	}

	fmt.Println("\n" + strings.Repeat("-", 50))
	return 0
}

func printAlert(alert *domain.Alert) {
	if alert == nil {
		fmt.Println("No active alerts for this area.")
		return
	}

	fmt.Printf("Alert: %s\n", alert.Headline)
	fmt.Printf("Event: %s\n", alert.Event)
	fmt.Printf("Severity: %s\n", alert.Severity)
	fmt.Printf("Urgency: %s\n", alert.Urgency)
	fmt.Printf("Expires: %s\n", alert.Expires.Format("2006-01-02 15:04:05"))
	fmt.Printf("Description: %s\n", truncate(alert.Description, 200))
	if alert.Instruction != "" {
		fmt.Printf("Instructions: %s\n", truncate(alert.Instruction, 200))
	}
}

// truncate shortens long alert prose to keep terminal output readable.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
