package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"

	"github.com/ryansname/gridsizer/src/portfolio"
	"github.com/ryansname/gridsizer/src/searchspace"
)

// SafeGo launches a goroutine with panic recovery and retry logic.
// On panic, retries with exponential backoff (max 10 retries).
// Retry count resets if worker ran for 2+ minutes before failing.
// After exhausting retries, cancels context to trigger shutdown.
func SafeGo(
	ctx context.Context,
	cancel context.CancelFunc,
	name string,
	fn func(ctx context.Context),
) {
	const maxRetries = 10
	const maxDelay = 10 * time.Minute
	const resetAfter = 2 * time.Minute

	go func() {
		retries := 0
		delay := time.Second

		for {
			startTime := time.Now()
			var panicValue any

			func() {
				defer func() {
					panicValue = recover()
				}()
				fn(ctx)
			}()

			// Returned normally, either cancelled or done
			if panicValue == nil {
				return
			}

			if time.Since(startTime) >= resetAfter {
				retries = 0
				delay = time.Second
			}

			retries++
			log.Printf("Panic in %s (attempt %d/%d): %v\n", name, retries, maxRetries, panicValue)

			if retries >= maxRetries {
				log.Printf("%s failed after %d retries, shutting down\n", name, maxRetries)
				cancel()
				return
			}

			log.Printf("%s will retry in %v\n", name, delay)
			select {
			case <-time.After(delay):
				delay = min(delay*2, maxDelay)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// loadSeed returns the snapshot every new session starts from
func loadSeed(path string) (portfolio.Snapshot, error) {
	if path == "" {
		return portfolio.DefaultSnapshot(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return portfolio.Snapshot{}, err
	}
	defer func() { _ = f.Close() }()
	return portfolio.LoadPreset(f)
}

func main() {
	log.Println("Starting gridsizer...")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	settings := LoadSettings()
	if !settings.Console && !settings.MQTTEnabled() {
		log.Fatal("Nothing to do: set MQTT_BROKER or enable GRIDSIZER_CONSOLE")
	}

	seed, err := loadSeed(settings.PresetPath)
	if err != nil {
		log.Fatalf("Failed to load preset %s: %v", settings.PresetPath, err)
	}
	if settings.PresetPath != "" {
		log.Printf("Loaded preset %s\n", settings.PresetPath)
	}
	report := searchspace.BuildReport(seed)
	log.Printf("Initial search space: %d combinations (%s)\n", report.Total, report.Band)

	// Create context for lifecycle management
	ctx, cancel := context.WithCancel(context.Background())

	commandChan := make(chan Command, 10)
	updateChan := make(chan SessionUpdate, 10)

	var updateOutputs []chan<- SessionUpdate

	if settings.MQTTEnabled() {
		publisherUpdates := make(chan SessionUpdate, 10)
		updateOutputs = append(updateOutputs, publisherUpdates)

		mqttOutgoing := make(chan MQTTMessage, 100)
		mqttClientChan := make(chan mqtt.Client, 1)
		sender := NewMQTTSender(mqttOutgoing, settings.TopicPrefix)

		SafeGo(ctx, cancel, "mqtt-sender", func(ctx context.Context) {
			mqttSenderWorker(ctx, mqttOutgoing, mqttClientChan)
		})
		SafeGo(ctx, cancel, "mqtt-worker", func(ctx context.Context) {
			mqttWorker(ctx, settings, commandChan, mqttClientChan)
		})
		SafeGo(ctx, cancel, "report-publisher", func(ctx context.Context) {
			reportPublisher(ctx, publisherUpdates, sender)
		})
	}

	if settings.Console {
		consoleUpdates := make(chan SessionUpdate, 10)
		updateOutputs = append(updateOutputs, consoleUpdates)

		SafeGo(ctx, cancel, "console", func(ctx context.Context) {
			consoleWorker(ctx, cancel, commandChan, consoleUpdates)
		})
	}

	SafeGo(ctx, cancel, "session-worker", func(ctx context.Context) {
		sessionWorker(ctx, commandChan, updateChan, seed)
	})
	SafeGo(ctx, cancel, "broadcast", func(ctx context.Context) {
		broadcastWorker(ctx, updateChan, updateOutputs)
	})

	// Wait for interrupt signal or context cancellation (from panic or quit)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("\nShutting down...")
	case <-ctx.Done():
		log.Println("\nShutting down...")
	}
	cancel()
}
