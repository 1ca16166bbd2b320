package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/app"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/catalog"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/config"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/metrics"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/render"
)

const (
	metricsDays   = 7
	generateLimit = 30 * time.Second
)

// PlanGenerator is the part of the application the bot drives.
type PlanGenerator interface {
	Generate(ctx context.Context, in app.PlanInput) (*app.PlanOutput, error)
	Locations() []string
}

// MetricsReader serves the admin /metrics report.
type MetricsReader interface {
	GetDailyRuns(ctx context.Context, days int) ([]metrics.DailyRuns, error)
	GetDailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
	GetTopLocations(ctx context.Context, days, limit int) ([]metrics.LocationCount, error)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot answers plan requests over a Telegram webhook.
type Bot struct {
	api     sender
	planner PlanGenerator
	metrics MetricsReader
	logger  *zap.Logger

	allowed []int64
	adminID int64
	dbPath  string
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, planner PlanGenerator, reader MetricsReader, logger *zap.Logger) (*Bot, error) {
	if err := cfg.RequireTelegram(); err != nil {
		return nil, err
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook for %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", zap.String("description", resp.Description))

	return newBot(api, planner, reader, cfg, logger), nil
}

func newBot(api sender, planner PlanGenerator, reader MetricsReader, cfg *config.Config, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:     api,
		planner: planner,
		metrics: reader,
		logger:  logger,
		allowed: cfg.TelegramAllowedUserIDs,
		adminID: cfg.AdminTelegramID,
		dbPath:  cfg.DatabasePath,
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhook", b.handleWebhook)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.logger.Warn("error parsing update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !slices.Contains(b.allowed, msg.From.ID) {
		b.logger.Warn("unauthorized access attempt",
			zap.Int64("user_id", msg.From.ID),
			zap.String("username", msg.From.UserName),
		)
		return
	}

	go b.processMessage(msg)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "plan":
		b.handlePlanRequest(msg)
	case "metrics":
		b.handleMetricsRequest(msg)
	case "cities":
		b.reply(msg.Chat.ID, b.citiesText())
	default:
		b.reply(msg.Chat.ID, usageText)
	}
}

func (b *Bot) handlePlanRequest(msg *tgbotapi.Message) {
	in, err := ParsePlanCommand(msg.CommandArguments())
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ %s\n\n%s", escape(err.Error()), usageText))
		return
	}
	in.Tips = true
	in.Shopping = true

	status := tgbotapi.NewMessage(msg.Chat.ID, "🧑‍🍳 *Thinking...*\n(Building your meal plan)")
	status.ParseMode = tgbotapi.ModeMarkdown
	sent, err := b.api.Send(status)
	if err != nil {
		b.logger.Error("failed to send initial reply", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), generateLimit)
	defer cancel()

	out, err := b.planner.Generate(ctx, in)
	if err != nil {
		b.logger.Error("error generating plan", zap.Error(err), zap.String("request", msg.Text))
		b.edit(msg.Chat.ID, sent.MessageID, b.planErrorText(err, in.Location))
		if !errors.Is(err, app.ErrInvalidRequest) && !errors.Is(err, catalog.ErrUnknownLocation) {
			b.sendAdminAlert(fmt.Sprintf("⚠️ *Plan generation failed*\nUser: %d\n`%s`", msg.From.ID, strings.ReplaceAll(err.Error(), "`", "'")))
		}
		return
	}

	parts := formatPlanMarkdownParts(out, in.Location, in.Meals)
	b.edit(msg.Chat.ID, sent.MessageID, parts[0])
	for _, p := range parts[1:] {
		b.reply(msg.Chat.ID, p)
	}
	if out.Shopping != nil && len(out.Shopping.Items) > 0 {
		b.reply(msg.Chat.ID, formatShopping(out.Shopping))
	}
	if len(out.Tips) > 0 {
		b.reply(msg.Chat.ID, formatTips(out.Tips))
	}
}

func (b *Bot) planErrorText(err error, location string) string {
	switch {
	case errors.Is(err, catalog.ErrUnknownLocation):
		return fmt.Sprintf("❌ Unsupported city: *%s*\n\n%s", escape(location), b.citiesText())
	case errors.Is(err, app.ErrInvalidRequest):
		return fmt.Sprintf("❌ %s\n\n%s", escape(err.Error()), usageText)
	default:
		return "❌ *Error generating plan.* Please try again later."
	}
}

func (b *Bot) citiesText() string {
	var sb strings.Builder
	sb.WriteString("📍 *Supported cities*\n")
	for _, loc := range b.planner.Locations() {
		sb.WriteString(fmt.Sprintf("• `%s` (%s)\n", loc, escape(render.CityLabel(loc))))
	}
	return sb.String()
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if b.adminID == 0 || msg.From.ID != b.adminID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}
	if b.metrics == nil {
		b.reply(msg.Chat.ID, "❌ Metrics are not enabled.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		runs  []metrics.DailyRuns
		usage []metrics.DailyUsage
		top   []metrics.LocationCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { runs, err = b.metrics.GetDailyRuns(gctx, metricsDays); return })
	g.Go(func() (err error) { usage, err = b.metrics.GetDailyUsage(gctx, metricsDays); return })
	g.Go(func() (err error) { top, err = b.metrics.GetTopLocations(gctx, metricsDays, 5); return })
	if err := g.Wait(); err != nil {
		b.logger.Error("failed to fetch metrics", zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}

	b.reply(msg.Chat.ID, formatMetrics(runs, usage, top, metrics.GetSysHealth(b.dbPath)))
}

func (b *Bot) sendAdminAlert(text string) {
	if b.adminID == 0 {
		return
	}
	b.reply(b.adminID, text)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("failed to edit message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
