package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealmind/internal/api"
	"mealmind/internal/config"
	"mealmind/internal/database"
	"mealmind/internal/evaluation"
	"mealmind/internal/household"
	"mealmind/internal/llm"
	"mealmind/internal/planner"
	"mealmind/internal/recipe"
	"mealmind/internal/shopping"
	"mealmind/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Two generator temperatures: conservative for first drafts, hotter for
	// regeneration where the user already rejected the obvious answer.
	freshGen, err := newTextGenerator(ctx, cfg, 0.7)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}
	defer closeIfCloser(freshGen)

	regenGen, err := newTextGenerator(ctx, cfg, 0.9)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}
	defer closeIfCloser(regenGen)

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	householdRepo := household.NewRepository(db.SQL)
	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := planner.NewRepository(db.SQL)
	listRepo := shopping.NewRepository(db.SQL)
	evalStore := evaluation.NewStore(db.SQL)

	shoppingSvc := shopping.NewService(listRepo, recipeRepo)
	generator := planner.NewGenerator(freshGen, regenGen)
	planSvc := planner.NewService(planRepo, recipeRepo, householdRepo, generator, shoppingSvc)
	importer := recipe.NewImporter(freshGen)

	mux := http.NewServeMux()

	var signer *telegram.LinkSigner
	if cfg.TelegramBotToken != "" {
		signer = telegram.NewLinkSigner(cfg.LinkTokenSecret)
		bot, err := telegram.NewBot(cfg, telegram.NewChatRepository(db.SQL), signer,
			planSvc, shoppingSvc, recipeRepo, householdRepo, importer)
		if err != nil {
			log.Fatalf("Failed to initialize Telegram bot: %v", err)
		}
		bot.RegisterHandlers(mux)
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, running without the bot")
	}

	server := api.NewServer(householdRepo, recipeRepo, importer, planSvc, shoppingSvc, evalStore, signer)
	server.RegisterHandlers(mux)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		log.Printf("MealMind listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func newTextGenerator(ctx context.Context, cfg *config.Config, temperature float32) (llm.TextGenerator, error) {
	if cfg.LLMProvider == "groq" {
		return llm.NewGroqClient(cfg.GroqAPIKey, temperature), nil
	}
	return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, temperature)
}

func closeIfCloser(gen llm.TextGenerator) {
	if c, ok := gen.(llm.Closer); ok {
		c.Close()
	}
}
