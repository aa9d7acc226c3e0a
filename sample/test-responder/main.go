package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xavierca1/zapvendas/internal/infra/catalog"
	"github.com/xavierca1/zapvendas/internal/infra/integration/ollama"
	"github.com/xavierca1/zapvendas/internal/usecase"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ollamaURL := flag.String("ollama", envOr("OLLAMA_URL", "http://localhost:11434"), "Ollama base URL")
	model := flag.String("model", envOr("OLLAMA_MODEL", "llama3.2"), "model name")
	catalogPath := flag.String("catalog", os.Getenv("CATALOG_PATH"), "catalog file (empty for the bundled one)")
	flag.Parse()

	message := strings.Join(flag.Args(), " ")
	if message == "" {
		message = "Hi, I'm John from Austin. Do you have any hoodies?"
	}

	products, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ failed to load catalog")
	}

	client := ollama.NewClient(ollama.Config{BaseURL: *ollamaURL, Model: *model, Temperature: 0.7, Timeout: 2 * time.Minute})
	responder := usecase.NewResponder(products, client, usecase.ResponderOptions{StoreName: envOr("STORE_NAME", "our store")})

	fmt.Printf("🔄 Asking %s...\n", client.Model())
	fmt.Printf("👤 %s\n\n", message)

	reply := responder.Respond(context.Background(), message, nil)

	fmt.Printf("🤖 %s\n\n", reply.Text)
	fmt.Printf("📋 Metadata:\n")
	if info := reply.Metadata.ExtractedInfo; info != nil {
		if info.Name != nil {
			fmt.Printf("   Name: %s\n", *info.Name)
		}
		if info.City != nil {
			fmt.Printf("   City: %s\n", *info.City)
		}
	}
	fmt.Printf("   Relevant products: %v\n", reply.Metadata.RelevantProducts)
	fmt.Printf("   Handoff: %v\n", reply.Metadata.AgentRequested)
	fmt.Printf("   Error: %v\n", reply.Metadata.Error)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
