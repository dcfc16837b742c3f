package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/trivia_bot/internal/config"
	"github.com/mroshb/trivia_bot/internal/handlers"
	"github.com/mroshb/trivia_bot/internal/middleware"
	"github.com/mroshb/trivia_bot/internal/quiz"
	"github.com/mroshb/trivia_bot/pkg/logger"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	config   *config.Config
	handlers *handlers.HandlerManager
	limiter  *middleware.RateLimiter

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
	wg          sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// InitBot authorizes the token. Updates are not received until Start.
func InitBot(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		api:         api,
		config:      cfg,
		limiter:     middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.GetRateLimitWindow()),
		workerChans: make([]chan tgbotapi.Update, cfg.WorkerCount),
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Start launches the workers and the update listener.
func (b *Bot) Start(h *handlers.HandlerManager) {
	b.handlers = h

	for i := range b.workerChans {
		b.workerChans[i] = make(chan tgbotapi.Update, 100)
		b.wg.Add(1)
		go b.startWorker(b.workerChans[i])
	}

	go b.limiter.Run(b.ctx, time.Minute)

	b.wg.Add(1)
	go b.startUpdateListener()
}

func (b *Bot) startUpdateListener() {
	defer b.wg.Done()
	defer func() {
		for _, ch := range b.workerChans {
			close(ch)
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			// Find userID for hashing
			var userID int64
			if update.Message != nil && update.Message.From != nil {
				userID = update.Message.From.ID
			} else if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
				userID = update.CallbackQuery.From.ID
			}

			if userID == 0 {
				continue
			}

			// Hashed dispatch to workers to ensure per-user ordered processing
			workerIdx := userID % int64(len(b.workerChans))
			if workerIdx < 0 {
				workerIdx = -workerIdx
			}
			b.workerChans[workerIdx] <- update
		}

		if b.ctx.Err() != nil {
			return
		}
		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		select {
		case <-b.ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	defer b.wg.Done()
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if !message.IsCommand() {
		return
	}

	userID := message.From.ID
	chatID := message.Chat.ID
	logger.Debug("Received command", "user_id", userID, "chat_id", chatID, "command", message.Command())

	if !b.limiter.Allow(userID) {
		logger.Debug("Rate limited", "user_id", userID)
		return
	}

	switch message.Command() {
	case "quiz":
		b.handlers.HandleQuizCommand(b.ctx, chatID, userID, b)
	case "score":
		b.handlers.HandleScoreCommand(b.ctx, chatID, userID, b)
	case "help", "start":
		b.sendMessage(chatID, MsgHelp, nil)
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	logger.Debug("Callback query", "data", query.Data, "user_id", userID)

	if !b.limiter.Allow(userID) {
		b.AnswerCallbackQuery(query.ID, MsgSlowDown, false)
		return
	}

	event, err := parseCallback(query.Data, userID)
	if err != nil {
		logger.Warn("Rejected callback data", "user_id", userID, "error", err)
		b.AnswerCallbackQuery(query.ID, "", false)
		return
	}

	switch ev := event.(type) {
	case quiz.JoinEvent:
		var chatID int64
		var messageID int
		if query.Message != nil {
			chatID = query.Message.Chat.ID
			messageID = query.Message.MessageID
		}
		b.handlers.HandleJoin(b.ctx, query.ID, chatID, messageID, ev, b)
	case quiz.AnswerEvent:
		b.handlers.HandleAnswer(b.ctx, query.ID, ev, b)
	}
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if kb, ok := keyboard.(tgbotapi.InlineKeyboardMarkup); ok {
		msg.ReplyMarkup = kb
	}

	var err error
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		var sentMsg tgbotapi.Message
		sentMsg, err = b.api.Send(msg)
		if err == nil {
			return sentMsg.MessageID, nil
		}
		logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

		// If it's a network error, wait and retry
		if !isTransient(err) {
			return 0, err
		}
		select {
		case <-b.ctx.Done():
			return 0, b.ctx.Err()
		case <-time.After(time.Duration(i+1) * time.Second):
		}
	}
	return 0, err
}

func isTransient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "network is unreachable")
}

func (b *Bot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	id, _ := b.sendMessage(chatID, text, keyboard)
	return id
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string, keyboard interface{}) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if keyboard != nil {
		if kb, ok := keyboard.(tgbotapi.InlineKeyboardMarkup); ok {
			msg.ReplyMarkup = &kb
		}
	}

	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

func (b *Bot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

func (b *Bot) GetJoinKeyboard(key quiz.SessionKey) interface{} {
	return JoinKeyboard(key)
}

// Stop ends update polling and waits for in-flight updates to finish.
func (b *Bot) Stop() {
	b.cancel()
	b.api.StopReceivingUpdates()
	b.wg.Wait()
	logger.Info("Bot stopped receiving updates")
}
