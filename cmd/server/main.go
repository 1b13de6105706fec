package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"techtoday.app/daily-digest/internal/api"
	"techtoday.app/daily-digest/internal/config"
	"techtoday.app/daily-digest/internal/core"
	"techtoday.app/daily-digest/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	ingestFlag := flag.String("ingest", "", "Ingest products from the given JSON file and exit")
	chatFlag := flag.Bool("chat", false, "Open an interactive discussion session on the terminal")
	flag.Parse()

	// Initialize catalog store
	catalog, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer catalog.Close()

	if *ingestFlag != "" {
		log.Printf("Starting catalog ingestion from %s...", *ingestFlag)
		numIngested, err := catalog.IngestFromFile(*ingestFlag)
		if err != nil {
			log.Fatalf("Catalog ingestion failed: %v", err)
		}
		log.Printf("Catalog ingestion complete. Ingested %d products. Exiting.", numIngested)
		os.Exit(0)
	}

	// Initialize answer service
	llmService := core.NewLLMService()
	defer llmService.Close()

	discussionService := core.NewDiscussionService(llmService)

	if *chatFlag {
		runInteractiveChat(catalog, discussionService)
		return
	}

	// Initialize API handler and router
	apiHandler := api.NewAPIHandler(catalog, discussionService)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}

// runInteractiveChat drives the product feed and a discussion session
// from the terminal. Switching products opens a fresh session; there
// is no conversation continuity across products, same as closing and
// reopening the assistant panel.
func runInteractiveChat(catalog core.CatalogProvider, discussionService *core.DiscussionService) {
	ctx := context.Background()

	feed := core.NewFeed()
	if err := feed.Load(ctx, catalog); err != nil {
		log.Fatalf("Failed to load product feed: %v", err)
	}
	if feed.State() == core.FeedEmpty {
		log.Fatal("Catalog is empty. Run with -ingest first.")
	}

	product, err := feed.Current()
	if err != nil {
		log.Fatalf("Failed to select a product: %v", err)
	}

	session := core.NewDiscussionSession(product, discussionService)
	printLastMessage(session)
	fmt.Println("(commands: /next, /prev, /jump N, /quit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%d/%d %s] > ", feed.Cursor()+1, feed.Len(), session.Product().Name)
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()

		switch {
		case input == "/quit":
			session.Close()
			return
		case input == "/next" || input == "/prev" || strings.HasPrefix(input, "/jump "):
			if err := navigate(feed, input); err != nil {
				fmt.Printf("! %v\n", err)
				continue
			}
			session.Close()
			product, _ := feed.Current()
			session = core.NewDiscussionSession(product, discussionService)
			printLastMessage(session)
		default:
			if err := session.Submit(ctx, input); err != nil {
				fmt.Printf("! %v\n", err)
				continue
			}
			printLastMessage(session)
		}
	}
}

func navigate(feed *core.Feed, command string) error {
	switch {
	case command == "/next":
		return feed.Next()
	case command == "/prev":
		return feed.Previous()
	default:
		i, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(command, "/jump ")))
		if err != nil {
			return fmt.Errorf("usage: /jump N (1-based)")
		}
		return feed.JumpTo(i - 1)
	}
}

func printLastMessage(session *core.DiscussionSession) {
	messages := session.Messages()
	if len(messages) == 0 {
		return
	}
	fmt.Printf("assistant: %s\n", messages[len(messages)-1].Content)
}
