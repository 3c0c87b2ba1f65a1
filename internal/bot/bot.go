// Package bot provides the Telegram chat surface: free-text reminder
// commands in, due-event notifications out.
package bot

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"user-reminders/internal/events"
	"user-reminders/internal/model"
	"user-reminders/internal/repository"
	"user-reminders/internal/service"
)

const dueTimeFormat = "Monday Jan 2 at 15:04"

// Bot aggregates the Telegram API with the reminder service.
type Bot struct {
	api       *tgbotapi.BotAPI
	users     *repository.UserRepository
	reminders *service.ReminderService
	logger    *slog.Logger
}

func New(token string, users *repository.UserRepository, reminders *service.ReminderService, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	logger.Info("bot authorized", "account", api.Self.UserName)

	return &Bot{
		api:       api,
		users:     users,
		reminders: reminders,
		logger:    logger.With("component", "bot"),
	}, nil
}

// SubscribeDueEvents wires the bot as the notification sink for
// due-events: the owning user gets a chat message per firing.
func (b *Bot) SubscribeDueEvents(bus *events.Bus) {
	bus.Subscribe(events.ReminderDue, func(ctx context.Context, payload events.Payload) {
		userID, _ := payload["user_id"].(string)
		summary, _ := payload["summary"].(string)

		user, err := b.users.FindByID(ctx, userID)
		if err != nil {
			b.logger.Error("due event for unknown user", "user_id", userID, "error", err)
			return
		}
		if user.ChatID == 0 {
			b.logger.Warn("user has no chat to notify", "user_id", userID)
			return
		}

		text := fmt.Sprintf("⏰ <b>Reminder:</b> %s", html.EscapeString(summary))
		if err := b.sendText(user.ChatID, text); err != nil {
			b.logger.Error("failed to send due notification", "user_id", userID, "error", err)
		}
	})
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.logger.Error("handle message", "error", err)
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		b.logger.Debug("command received", "from", msg.From.ID, "command", msg.Command())
		return b.handleCommand(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "Try /remind &lt;text with a date&gt;, or /help for the full list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "remind":
		return b.handleRemind(ctx, msg)
	case "list":
		return b.handleList(ctx, msg)
	case "done", "delete":
		return b.handleComplete(ctx, msg)
	case "update":
		return b.handleUpdate(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command, see /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Hi %s!\n<b>I keep your reminders and ping you when they are due.</b>\n\nCommands:\n"+
			"• /remind &lt;text with a date&gt; — create a reminder\n"+
			"• /list — show your reminders\n"+
			"• /done &lt;text&gt; — complete a reminder\n"+
			"• /update &lt;text&gt; | &lt;new text or date&gt; — change a reminder\n"+
			"• /help — hints",
		html.EscapeString(name),
	)
	b.logger.Debug("user registered", "user_id", user.ID, "list_id", user.ListID)

	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Hints</b>\n" +
		"• /remind buy milk tomorrow at 3pm\n" +
		"• /remind call mom in 20 minutes\n" +
		"• /remind pay rent march 3rd\n" +
		"• /list — show reminders with due times\n" +
		"• /done buy milk — complete by matching text\n" +
		"• /delete buy milk — same as /done\n" +
		"• /update buy milk | buy oat milk — new text\n" +
		"• /update buy milk | friday evening — new due time"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleRemind(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg)
	if err != nil {
		return err
	}

	slots, summary := ExtractSlots(msg.CommandArguments())
	if summary == "" {
		return b.sendText(msg.Chat.ID, "What should I remind you about? Try /remind buy milk tomorrow at 3pm")
	}

	due := service.ResolveDue(time.Now(), slots)

	item, err := b.reminders.Create(ctx, service.Actor{UserID: user.ID}, service.CreateInput{
		ListID:  user.ListID,
		Summary: summary,
		Due:     due.Format(time.RFC3339),
	})
	if err != nil {
		b.logger.Error("create reminder", "error", err)
		return b.sendText(msg.Chat.ID, "Sorry, I couldn't create that reminder.")
	}

	text := fmt.Sprintf("I've created a reminder to %s at %s",
		html.EscapeString(item.Summary), item.Due.Format(dueTimeFormat))
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleList(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg)
	if err != nil {
		return err
	}

	items, err := b.reminders.Get(ctx, service.Actor{UserID: user.ID}, user.ListID, nil)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return b.sendText(msg.Chat.ID, "You have no reminders.")
	}

	var sb strings.Builder
	plural := "s"
	if len(items) == 1 {
		plural = ""
	}
	fmt.Fprintf(&sb, "You have %d reminder%s:\n", len(items), plural)
	for _, item := range items {
		fmt.Fprintf(&sb, "• %s <i>(due %s)</i>\n",
			html.EscapeString(item.Summary), item.Due.Format(dueTimeFormat))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleComplete(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		return b.sendText(msg.Chat.ID, "Which reminder? Try /done buy milk")
	}

	match, err := b.reminders.MatchBySummary(ctx, service.Actor{UserID: user.ID}, user.ListID, text)
	if err != nil {
		return err
	}
	if match == nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("I couldn't find a reminder matching %s", html.EscapeString(text)))
	}

	if err := b.reminders.Remove(ctx, service.Actor{UserID: user.ID}, user.ListID, []string{match.UID}); err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("I've completed the reminder to %s", html.EscapeString(match.Summary)))
}

func (b *Bot) handleUpdate(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg)
	if err != nil {
		return err
	}

	parts := strings.SplitN(msg.CommandArguments(), "|", 2)
	if len(parts) != 2 {
		return b.sendText(msg.Chat.ID, "Try /update &lt;text&gt; | &lt;new text or date&gt;")
	}
	matchText := strings.TrimSpace(parts[0])

	match, err := b.reminders.MatchBySummary(ctx, service.Actor{UserID: user.ID}, user.ListID, matchText)
	if err != nil {
		return err
	}
	if match == nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("I couldn't find a reminder matching %s", html.EscapeString(matchText)))
	}

	patch, due, ok := updatePatch(match.UID, parts[1], time.Now())
	if !ok {
		return b.sendText(msg.Chat.ID, "Try /update &lt;text&gt; | &lt;new text or date&gt;")
	}

	var reply string
	if due == nil {
		reply = fmt.Sprintf("I've updated the reminder %s to %s",
			html.EscapeString(match.Summary), html.EscapeString(patch.Summary))
	} else {
		reply = fmt.Sprintf("I've updated the reminder %s to be due at %s",
			html.EscapeString(match.Summary), due.Format(dueTimeFormat))
	}

	if err := b.reminders.Update(ctx, service.Actor{UserID: user.ID}, user.ListID, patch); err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, reply)
}

// updatePatch parses the new-value half of an /update command into a
// patch: time phrases change the due date, anything else renames the
// reminder. Text that yields neither is rejected.
func updatePatch(uid, text string, now time.Time) (service.ItemPatch, *time.Time, bool) {
	slots, summary := ExtractSlots(text)
	if slots.Empty() {
		if summary == "" {
			return service.ItemPatch{}, nil, false
		}
		return service.ItemPatch{UID: uid, Summary: summary}, nil, true
	}
	due := service.ResolveDue(now, slots)
	return service.ItemPatch{UID: uid, Due: due.Format(time.RFC3339)}, &due, true
}

func (b *Bot) ensureUser(ctx context.Context, msg *tgbotapi.Message) (*model.User, error) {
	name := strings.TrimSpace(strings.TrimSpace(msg.From.FirstName) + " " + strings.TrimSpace(msg.From.LastName))
	if name == "" {
		name = msg.From.UserName
	}
	return b.users.UpsertFromTelegram(ctx, msg.From.ID, msg.Chat.ID, name)
}

func (b *Bot) sendText(chatID int64, text string) error {
	message := tgbotapi.NewMessage(chatID, text)
	message.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(message); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
