package main

import (
	"flag"
	"fmt"
	"html"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"tourcat/analytics"
	"tourcat/catalog"
	"tourcat/config"
	"tourcat/debounce"
	"tourcat/filter"
	"tourcat/models"
	"tourcat/pricebucket"
	"tourcat/render"
	"tourcat/sheets"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	// Parse command line arguments
	catalogSource := flag.String("catalog", "", "Catalog JSON URL or file path (optional, if provided, runs in CLI mode)")
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	activity := flag.String("activity", "", "Activity category filter (CLI mode)")
	price := flag.String("price", "", "Price bucket filter, e.g. 0-50 (CLI mode)")
	search := flag.String("search", "", "Free-text search filter (CLI mode)")
	flag.Parse()

	// If a catalog source is provided, run in CLI mode
	if *catalogSource != "" {
		state := filter.State{
			Activity: *activity,
			Bucket:   pricebucket.Bucket(*price),
			Search:   *search,
		}
		runCLIMode(*catalogSource, state)
		return
	}

	// Otherwise, run as Telegram bot
	runTelegramBot(*configPath)
}

// runCLIMode loads the catalog once, runs the filter pipeline and prints
// the card view to stdout
func runCLIMode(source string, state filter.State) {
	tours, err := catalog.NewLoader(source).Load()
	if err != nil {
		log.Printf("Failed to load catalog: %v\n", err)
		fmt.Println(render.LoadErrorMessage)
		return
	}

	displayed := filter.SortByQuality(filter.Apply(tours, state))
	fmt.Print(render.ConsoleView(displayed))
}

// loadConfig loads configuration from file or returns defaults
func loadConfig(configPath string) *config.Config {
	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			log.Printf("Warning: Failed to load config file: %v. Using defaults.\n", err)
			cfg = config.GetDefaultConfig()
		}
	} else {
		log.Println("Config file not found. Using default configuration.")
		cfg = config.GetDefaultConfig()
	}
	return cfg
}

// session is one chat's browsing state: the current filter selections, the
// message used as the results container, and the search debouncer.
type session struct {
	resultMsgID int
	state       filter.State
	debouncer   *debounce.Debouncer
}

// browser owns the working set and the per-chat sessions. The working set
// is assigned once at startup and never mutated; every displayed set is a
// fresh recomputation over it.
type browser struct {
	bot     *tgbotapi.BotAPI
	tours   []models.Tour
	loadErr error
	tracker analytics.Tracker
	writer  *sheets.Writer
	window  time.Duration

	mu       sync.Mutex
	sessions map[int64]*session
}

// runTelegramBot runs the catalog browser as a Telegram bot
func runTelegramBot(configPath string) {
	cfg := loadConfig(configPath)

	botToken := os.Getenv("TOURCAT_TG_KEY")
	if botToken == "" {
		log.Fatalf("Error: TOURCAT_TG_KEY environment variable is not set")
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v\n", err)
	}
	log.Printf("Authorized on account %s\n", bot.Self.UserName)

	// One-shot catalog load. A failure is kept, not fatal: sessions get the
	// fixed error view instead of cards.
	tours, loadErr := catalog.NewLoader(cfg.Catalog.Source).Load()
	if loadErr != nil {
		log.Printf("Failed to load catalog from %s: %v\n", cfg.Catalog.Source, loadErr)
	} else {
		log.Printf("Loaded %d tours from %s\n", len(tours), cfg.Catalog.Source)
	}

	tracker := analytics.NewTracker(cfg.Analytics.Endpoint, cfg.Analytics.PropertyID)

	// Sheets export is optional: missing configuration or credentials just
	// disables /export.
	var writer *sheets.Writer
	if cfg.Export.SpreadsheetURL != "" {
		spreadsheetID := sheets.ExtractSpreadsheetID(cfg.Export.SpreadsheetURL)
		if spreadsheetID == "" {
			log.Printf("Warning: Could not extract spreadsheet ID from URL: %s\n", cfg.Export.SpreadsheetURL)
		} else {
			writer, err = sheets.NewWriter(spreadsheetID, "")
			if err != nil {
				log.Printf("Warning: Sheets export disabled: %v\n", err)
				writer = nil
			}
		}
	}

	b := &browser{
		bot:      bot,
		tours:    tours,
		loadErr:  loadErr,
		tracker:  tracker,
		writer:   writer,
		window:   time.Duration(cfg.Search.DebounceMs) * time.Millisecond,
		sessions: make(map[int64]*session),
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := bot.GetUpdatesChan(updateConfig)

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message == nil {
			continue
		}
		b.handleMessage(update.Message)
	}
}

// handleMessage routes commands and treats any other text as search input.
func (b *browser) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.startSession(chatID)
		case "help":
			helpText := "Commands:\n/start - Browse the tour catalog\n/filters - Choose activity and price filters\n/clear - Reset all filters\n/export - Export the current results to Google Sheets\n/help - Show this help\n\nJust type to search tours by name, operator or description."
			b.send(tgbotapi.NewMessage(chatID, helpText))
		case "filters":
			b.sendFilterKeyboards(chatID)
		case "clear":
			b.updateState(chatID, func(s *filter.State) { *s = filter.State{} })
			b.recompute(chatID)
		case "export":
			b.exportDisplayed(chatID)
		default:
			b.send(tgbotapi.NewMessage(chatID, "Unknown command. Use /help for available commands."))
		}
		return
	}

	// Free text is the search input. The state is updated immediately but
	// the recompute waits for a quiet period; a burst of messages results
	// in a single recompute using the final text.
	sess := b.getSession(chatID)
	if sess == nil {
		b.startSession(chatID)
		sess = b.getSession(chatID)
	}

	query := strings.TrimSpace(msg.Text)
	b.updateState(chatID, func(s *filter.State) { s.Search = query })
	sess.debouncer.Trigger(func() { b.recompute(chatID) })
}

// handleCallback routes inline keyboard presses: filter selections
// recompute immediately, booking buttons fire the tracking hook and
// deliver the link.
func (b *browser) handleCallback(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Acknowledge the button press
	if _, err := b.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error answering callback: %v\n", err)
	}

	switch {
	case strings.HasPrefix(data, "act:"):
		category := strings.TrimPrefix(data, "act:")
		b.updateState(chatID, func(s *filter.State) { s.Activity = category })
		b.recompute(chatID)
	case strings.HasPrefix(data, "price:"):
		bucket := pricebucket.Bucket(strings.TrimPrefix(data, "price:"))
		b.updateState(chatID, func(s *filter.State) { s.Bucket = bucket })
		b.recompute(chatID)
	case strings.HasPrefix(data, "book:"):
		b.handleBooking(chatID, strings.TrimPrefix(data, "book:"))
	}
}

// handleBooking fires the analytics event for a tour's call-to-action and
// then sends the booking link.
func (b *browser) handleBooking(chatID int64, tourID string) {
	var tour *models.Tour
	for i := range b.tours {
		if b.tours[i].ID == tourID {
			tour = &b.tours[i]
			break
		}
	}
	if tour == nil {
		log.Printf("Booking callback for unknown tour id %q\n", tourID)
		return
	}

	b.tracker.TrackBookingClick(tour.Name, tour.ID, tour.PriceOrZero())

	if tour.BookingLink == "" {
		b.send(tgbotapi.NewMessage(chatID, "No booking link is available for this tour."))
		return
	}

	text := fmt.Sprintf("🎟 Book <b>%s</b>:\n%s", html.EscapeString(tour.Name), html.EscapeString(tour.BookingLink))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	b.send(msg)
}

// startSession creates (or resets) the chat's session and sends the
// initial unfiltered view plus the filter keyboards.
func (b *browser) startSession(chatID int64) {
	b.mu.Lock()
	if old, ok := b.sessions[chatID]; ok {
		old.debouncer.Stop()
	}
	sess := &session{debouncer: debounce.New(b.window)}
	b.sessions[chatID] = sess
	b.mu.Unlock()

	text, keyboard := b.renderDisplayed(filter.State{})
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	sent, err := b.bot.Send(msg)
	if err != nil {
		log.Printf("Error sending initial view: %v\n", err)
		return
	}

	b.mu.Lock()
	sess.resultMsgID = sent.MessageID
	b.mu.Unlock()

	b.sendFilterKeyboards(chatID)
}

// sendFilterKeyboards sends the activity and price selector keyboards.
func (b *browser) sendFilterKeyboards(chatID int64) {
	activityMsg := tgbotapi.NewMessage(chatID, "🐊 Choose an activity:")
	activityMsg.ReplyMarkup = activityKeyboard()
	b.send(activityMsg)

	priceMsg := tgbotapi.NewMessage(chatID, "💰 Choose a price range:")
	priceMsg.ReplyMarkup = priceKeyboard()
	b.send(priceMsg)
}

// getSession returns the chat's session, or nil if /start has not run yet.
func (b *browser) getSession(chatID int64) *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions[chatID]
}

// updateState applies fn to the chat's filter state. Chats without a
// session are ignored; /start creates one.
func (b *browser) updateState(chatID int64, fn func(*filter.State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sess, ok := b.sessions[chatID]; ok {
		fn(&sess.state)
	}
}

// recompute reads the session state fresh, reruns filter -> sort -> render
// and edits the results message in place.
func (b *browser) recompute(chatID int64) {
	b.mu.Lock()
	sess, ok := b.sessions[chatID]
	if !ok {
		b.mu.Unlock()
		return
	}
	state := sess.state
	msgID := sess.resultMsgID
	b.mu.Unlock()

	text, keyboard := b.renderDisplayed(state)

	if msgID == 0 {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = "HTML"
		if keyboard != nil {
			msg.ReplyMarkup = keyboard
		}
		sent, err := b.bot.Send(msg)
		if err != nil {
			log.Printf("Error sending result view: %v\n", err)
			return
		}
		b.mu.Lock()
		sess.resultMsgID = sent.MessageID
		b.mu.Unlock()
		return
	}

	var edit tgbotapi.EditMessageTextConfig
	if keyboard != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, *keyboard)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, msgID, text)
	}
	edit.ParseMode = "HTML"
	if _, err := b.bot.Send(edit); err != nil {
		log.Printf("Error editing result view: %v\n", err)
	}
}

// renderDisplayed computes the displayed set for a filter state and renders
// the view text plus the per-card booking buttons. A failed catalog load
// renders the fixed error view instead.
func (b *browser) renderDisplayed(state filter.State) (string, *tgbotapi.InlineKeyboardMarkup) {
	if b.loadErr != nil {
		return render.LoadErrorMessage, nil
	}

	displayed := filter.SortByQuality(filter.Apply(b.tours, state))
	text := render.View(displayed)
	keyboard := bookingKeyboard(displayed)
	return text, keyboard
}

// exportDisplayed writes the chat's current displayed set to Google Sheets.
func (b *browser) exportDisplayed(chatID int64) {
	if b.writer == nil {
		b.send(tgbotapi.NewMessage(chatID, "Export is not configured."))
		return
	}
	if b.loadErr != nil {
		b.send(tgbotapi.NewMessage(chatID, render.LoadErrorMessage))
		return
	}

	sess := b.getSession(chatID)
	state := filter.State{}
	if sess != nil {
		b.mu.Lock()
		state = sess.state
		b.mu.Unlock()
	}

	displayed := filter.SortByQuality(filter.Apply(b.tours, state))
	filterInfo := fmt.Sprintf("Activity: %s, Price: %s, Search: %s", state.Activity, state.Bucket.Label(), state.Search)
	sheetName := fmt.Sprintf("Tours_%s", time.Now().Format("20060102_150405"))

	name, _, err := b.writer.CreateSheetAndWriteTours(sheetName, displayed, filterInfo)
	if err != nil {
		log.Printf("Error exporting to Google Sheets: %v\n", err)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Export failed: %v", err)))
		return
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Exported %d tours to sheet '%s'", len(displayed), name)))
}

// send sends a chattable and logs failures. Bot traffic is
// fire-and-forget; a failed send never aborts the event loop.
func (b *browser) send(c tgbotapi.Chattable) {
	if _, err := b.bot.Send(c); err != nil {
		log.Printf("Error sending message: %v\n", err)
	}
}

// activityKeyboard builds the category selector.
func activityKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Any activity", "act:"),
	}
	for _, category := range filter.Categories() {
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
		label := strings.ToUpper(category[:1]) + category[1:]
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "act:"+category))
	}
	rows = append(rows, row)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// priceKeyboard builds the price bucket selector.
func priceKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, bucket := range pricebucket.Buckets() {
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(bucket.Label(), "price:"+string(bucket)))
	}
	rows = append(rows, row)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// bookingKeyboard builds one "Book" button per displayed card. Returns nil
// for an empty set so the no-results block carries no buttons.
func bookingKeyboard(tours []models.Tour) *tgbotapi.InlineKeyboardMarkup {
	if len(tours) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range tours {
		label := "Book: " + t.Name
		if runes := []rune(label); len(runes) > 40 {
			label = string(runes[:40])
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "book:"+t.ID),
		))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}
