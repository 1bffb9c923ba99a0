// One-shot classification CLI: feed it a message or a receipt image and get
// the extracted transaction fields as JSON. Useful for prompt tuning without
// running the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/d4-dhiraj/SpendWise-AI/internal/classifier"
	"github.com/d4-dhiraj/SpendWise-AI/internal/config"
	"github.com/d4-dhiraj/SpendWise-AI/internal/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "message":
		runMessage(log)
	case "receipt":
		runReceipt(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("SpendWise classification CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  classify <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  message   Classify a free-text payment message")
	fmt.Println("  receipt   Classify a receipt image file")
	fmt.Println("  help      Show this help message")
}

func runMessage(log zerolog.Logger) {
	fs := flag.NewFlagSet("message", flag.ExitOnError)
	text := fs.String("text", "", "Message text to classify")
	fs.Parse(os.Args[2:])

	if *text == "" {
		log.Fatal().Msg("-text is required")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := classifier.NewGemini(cfg.FastModel).ClassifyMessage(ctx, *text)
	if err != nil {
		log.Fatal().Err(err).Msg("Classification failed")
	}

	printResult(result)
}

func runReceipt(log zerolog.Logger) {
	fs := flag.NewFlagSet("receipt", flag.ExitOnError)
	file := fs.String("file", "", "Path to the receipt image")
	mimeType := fs.String("mime-type", "image/jpeg", "Image MIME type")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}

	image, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read image")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := classifier.NewGemini(cfg.FastModel).ClassifyReceipt(ctx, image, *mimeType)
	if err != nil {
		log.Fatal().Err(err).Msg("Classification failed")
	}

	printResult(result)
}

func printResult(result classifier.Result) {
	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
