package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mealmind/internal/config"
	"mealmind/internal/household"
	"mealmind/internal/planner"
	"mealmind/internal/recipe"
	"mealmind/internal/shopping"
)

const helpText = `🥘 *MealMind Bot*

/link <token> - connect this chat to your household
/plan - show this week's meal plan
/list - show this week's shopping list
/help - this message

Send a recipe URL to save it, or just ask "what can I make with chicken?"`

// Bot wires the Telegram webhook to the planning, shopping, and recipe
// services.
type Bot struct {
	api        *tgbotapi.BotAPI
	cfg        *config.Config
	chats      *ChatRepository
	signer     *LinkSigner
	plans      *planner.Service
	shopping   *shopping.Service
	recipes    *recipe.Repository
	households *household.Repository
	importer   *recipe.Importer
}

// NewBot initializes the Telegram bot and sets the webhook.
func NewBot(
	cfg *config.Config,
	chats *ChatRepository,
	signer *LinkSigner,
	plans *planner.Service,
	shoppingSvc *shopping.Service,
	recipes *recipe.Repository,
	households *household.Repository,
	importer *recipe.Importer,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:        api,
		cfg:        cfg,
		chats:      chats,
		signer:     signer,
		plans:      plans,
		shopping:   shoppingSvc,
		recipes:    recipes,
		households: households,
		importer:   importer,
	}, nil
}

// RegisterHandlers registers the webhook handler on the given mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
}

// handleWebhook always returns 200: Telegram retries non-2xx responses and a
// poisoned update would otherwise be redelivered forever.
func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch msg.Command() {
	case "start", "link":
		b.handleLink(ctx, msg)
		return
	case "help":
		b.reply(msg.Chat.ID, helpText)
		return
	}

	householdID, err := b.chats.HouseholdFor(ctx, msg.Chat.ID)
	if err != nil {
		log.Printf("Error resolving chat %d: %v", msg.Chat.ID, err)
		return
	}
	if householdID == "" {
		b.reply(msg.Chat.ID, "This chat isn't linked to a household yet. Use /link <token> with a token from the app.")
		return
	}

	switch msg.Command() {
	case "plan":
		b.handlePlan(ctx, msg.Chat.ID, householdID)
	case "list":
		b.handleList(ctx, msg.Chat.ID, householdID)
	default:
		if strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://") {
			b.handleImport(ctx, msg.Chat.ID, householdID, msg.Text)
			return
		}
		b.handleQuery(ctx, msg.Chat.ID, householdID, msg.Text)
	}
}

func (b *Bot) handleLink(ctx context.Context, msg *tgbotapi.Message) {
	token := strings.TrimSpace(msg.CommandArguments())
	if token == "" {
		b.reply(msg.Chat.ID, helpText)
		return
	}

	householdID, err := b.signer.Verify(token)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ That link token is invalid or expired. Grab a fresh one from the app.")
		return
	}
	if err := b.chats.Link(ctx, msg.Chat.ID, householdID, msg.Chat.Type); err != nil {
		log.Printf("Error linking chat %d: %v", msg.Chat.ID, err)
		b.reply(msg.Chat.ID, "❌ Something went wrong linking this chat. Try again.")
		return
	}
	b.reply(msg.Chat.ID, "✅ *Linked!* This chat now talks to your household. Try /plan or /list.")
}

func (b *Bot) handlePlan(ctx context.Context, chatID int64, householdID string) {
	plan, err := b.plans.GetPlanForWeek(ctx, householdID, time.Now())
	if err != nil {
		log.Printf("Error fetching plan for household %s: %v", householdID, err)
		b.reply(chatID, "❌ Couldn't fetch your plan. Try again.")
		return
	}
	if plan == nil {
		b.reply(chatID, "No plan for this week yet. Create one in the app.")
		return
	}
	b.reply(chatID, formatPlan(plan))
}

func (b *Bot) handleList(ctx context.Context, chatID int64, householdID string) {
	list, err := b.shopping.GetActiveList(ctx, householdID)
	if err != nil {
		log.Printf("Error fetching shopping list for household %s: %v", householdID, err)
		b.reply(chatID, "❌ Couldn't fetch your shopping list. Try again.")
		return
	}
	if list == nil {
		b.reply(chatID, "No active shopping list. Approve a meal plan first.")
		return
	}
	b.reply(chatID, formatShoppingList(list))
}

func (b *Bot) handleImport(ctx context.Context, chatID int64, householdID, url string) {
	status := b.replyAndKeep(chatID, "✂️ *Saving recipe...*")

	rec, err := b.importer.ImportFromURL(ctx, householdID, url)
	if err != nil {
		log.Printf("Error importing recipe from %s: %v", url, err)
		b.edit(chatID, status, "❌ Couldn't extract a recipe from that page.")
		return
	}
	if err := b.recipes.Save(ctx, rec); err != nil {
		log.Printf("Error saving imported recipe: %v", err)
		b.edit(chatID, status, "❌ Extracted the recipe but failed to save it. Try again.")
		return
	}

	text := fmt.Sprintf("✅ *Saved!* %s (%d ingredients)", rec.Name, len(rec.Ingredients))
	if hh, err := b.households.Get(ctx, householdID); err == nil && hh != nil {
		if violations := recipe.CheckRestrictions(rec, hh.Restrictions()); len(violations) > 0 {
			text += fmt.Sprintf("\n⚠️ Heads up: contains %q, which conflicts with %q. It won't be suggested for your plans.",
				violations[0].MatchedKeyword, violations[0].Restriction)
		}
	}
	b.edit(chatID, status, text)
}

// handleQuery answers "what can I make" questions from saved recipes only.
func (b *Bot) handleQuery(ctx context.Context, chatID int64, householdID, query string) {
	recipes, err := b.recipes.ListByHousehold(ctx, householdID)
	if err != nil {
		log.Printf("Error listing recipes for household %s: %v", householdID, err)
		b.reply(chatID, "❌ Couldn't search your recipes. Try again.")
		return
	}

	var restrictions []household.DietaryRestriction
	var prefs household.UserPreferences
	if hh, err := b.households.Get(ctx, householdID); err == nil && hh != nil {
		restrictions = hh.Restrictions()
		prefs = hh.Preferences
	}

	candidates := recipe.MatchQuery(query, recipes, restrictions, prefs)
	if len(candidates) == 0 {
		b.reply(chatID, "Nothing in your saved recipes matches that. Try the app to generate something new.")
		return
	}
	b.reply(chatID, formatCandidates(candidates))
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

// replyAndKeep sends a status message and returns its ID for later editing.
func (b *Bot) replyAndKeep(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
		return 0
	}
	return sent.MessageID
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	if messageID == 0 {
		b.reply(chatID, text)
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to edit message %d in chat %d: %v", messageID, chatID, err)
	}
}
