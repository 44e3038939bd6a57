// Package handlers turns Telegram updates into thumbnail-studio actions:
// a small wizard collects the form fields, a photo upload becomes the
// normalized reference image, and /generate, /refine, and /ideas drive the
// studio.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"thumbstudio-ai/internal/imgutil"
	"thumbstudio-ai/internal/mediagroup"
	"thumbstudio-ai/internal/session"
	"thumbstudio-ai/internal/studio"
	"thumbstudio-ai/internal/telegram"
	"thumbstudio-ai/internal/thumbnail"
)

type Options struct {
	Telegram *telegram.Client
	Studio   *studio.Studio
	Drafts   *session.Store
	Logger   *slog.Logger
}

type Handler struct {
	tg         *telegram.Client
	studio     *studio.Studio
	drafts     *session.Store
	logger     *slog.Logger
	aggregator *mediagroup.Aggregator
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Handler{
		tg:     opts.Telegram,
		studio: opts.Studio,
		drafts: opts.Drafts,
		logger: logger,
	}
}

func (h *Handler) SetMediaGroupAggregator(a *mediagroup.Aggregator) {
	h.aggregator = a
}

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(ctx, update.CallbackQuery)
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}

	chatID := msg.Chat.ID
	userID := msg.From.ID

	if len(msg.Photo) > 0 {
		return h.handlePhoto(ctx, chatID, userID, msg)
	}
	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, userID, msg)
	}
	if text := strings.TrimSpace(msg.Text); text != "" {
		return h.handleText(ctx, chatID, userID, text)
	}
	return nil
}

// HandleAlbum processes a debounced media group: the first photo becomes
// the subject reference, the rest are ignored.
func (h *Handler) HandleAlbum(ctx context.Context, album mediagroup.Album) {
	if len(album.FileIDs) == 0 {
		return
	}
	if len(album.FileIDs) > 1 {
		_ = h.tg.SendText(album.ChatID, "Albums carry one subject: using the first photo.")
	}
	if err := h.acceptPhoto(ctx, album.ChatID, album.UserID, album.FileIDs[0]); err != nil {
		h.logger.Error("album photo failed", "err", err)
	}
}

func (h *Handler) handlePhoto(ctx context.Context, chatID, userID int64, msg *tgbotapi.Message) error {
	photo := msg.Photo[len(msg.Photo)-1]

	if msg.MediaGroupID != "" && h.aggregator != nil {
		h.aggregator.Add(mediagroup.Item{
			ChatID:       chatID,
			UserID:       userID,
			MediaGroupID: msg.MediaGroupID,
			Caption:      msg.Caption,
			FileID:       photo.FileID,
		})
		return nil
	}

	return h.acceptPhoto(ctx, chatID, userID, photo.FileID)
}

func (h *Handler) acceptPhoto(ctx context.Context, chatID, userID int64, fileID string) error {
	h.tg.SendTyping(chatID)

	data, _, err := h.tg.DownloadFileBytes(ctx, fileID)
	if err != nil {
		h.logger.Error("photo download failed", "err", err)
		return h.tg.SendText(chatID, "Could not download that photo, please try again.")
	}

	normalized, err := imgutil.Normalize(data)
	if err != nil {
		h.logger.Error("photo normalize failed", "err", err)
		return h.tg.SendText(chatID, "That file does not look like an image I can decode.")
	}

	h.drafts.Update(userID, func(d *session.Draft) {
		d.ImageData = normalized
		d.ImageMime = imgutil.MimeJPEG
		d.LastResult = nil
		d.LastResultMime = ""
	})

	return h.tg.SendText(chatID,
		"Photo locked onto the 1280x720 canvas.\n"+
			"Set /title, /concept and /background, then send /generate.")
}

func (h *Handler) handleCommand(ctx context.Context, chatID, userID int64, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		return h.tg.SendText(chatID, helpText)

	case "new":
		h.drafts.Reset(userID)
		return h.tg.SendText(chatID, "Fresh draft. Send me a photo of your subject to begin.")

	case "status":
		return h.tg.SendText(chatID, draftSummary(h.drafts.Get(userID)))

	case "title":
		return h.setTextField(chatID, userID, session.AwaitingTitle, args, "Send me the thumbnail title.")

	case "concept":
		return h.setTextField(chatID, userID, session.AwaitingConcept, args, "Send me the core concept of the video.")

	case "background":
		return h.setTextField(chatID, userID, session.AwaitingBackground, args, "Send me the background concept.")

	case "mood":
		return h.tg.SendTextWithKeyboard(chatID, "Pick a mood:", optionKeyboard("mood", thumbnail.MoodOptions()))

	case "reaction":
		return h.tg.SendTextWithKeyboard(chatID, "Pick the subject's expression:", optionKeyboard("reaction", thumbnail.ReactionOptions()))

	case "style":
		return h.tg.SendTextWithKeyboard(chatID, "Pick an artistic style:", optionKeyboard("style", thumbnail.StyleOptions()))

	case "brightness":
		return h.tg.SendTextWithKeyboard(chatID, "Refinement brightness:", optionKeyboard("bright", thumbnail.BrightnessOptions()))

	case "color":
		return h.setTextField(chatID, userID, session.AwaitingColor, args, "Send me the refinement color palette (or \"-\" to clear).")

	case "layout":
		return h.setTextField(chatID, userID, session.AwaitingLayout, args, "Send me the refinement layout instruction (or \"-\" to clear).")

	case "generate":
		return h.runGeneration(ctx, chatID, userID, false)

	case "refine":
		if !h.drafts.Get(userID).HasResult() {
			return h.tg.SendText(chatID, "Nothing to refine yet: run /generate first.")
		}
		return h.runGeneration(ctx, chatID, userID, true)

	case "ideas":
		if args == "" {
			h.drafts.Update(userID, func(d *session.Draft) {
				d.Awaiting = session.AwaitingDescription
			})
			return h.tg.SendText(chatID, "Describe your video and I'll brainstorm thumbnail ideas.")
		}
		return h.runSuggest(ctx, chatID, userID, args)

	case "download":
		return h.sendDownloads(chatID, userID)
	}

	return h.tg.SendText(chatID, "Unknown command. Send /help for the list.")
}

func (h *Handler) handleText(ctx context.Context, chatID, userID int64, text string) error {
	draft := h.drafts.Get(userID)

	switch draft.Awaiting {
	case session.AwaitingTitle:
		h.applyText(userID, func(d *session.Draft) { d.Title = text })
		return h.tg.SendText(chatID, fmt.Sprintf("Title set to %q.", text))

	case session.AwaitingConcept:
		h.applyText(userID, func(d *session.Draft) { d.Concept = text })
		return h.tg.SendText(chatID, "Core concept updated.")

	case session.AwaitingBackground:
		h.applyText(userID, func(d *session.Draft) { d.BackgroundConcept = text })
		return h.tg.SendText(chatID, "Background concept updated.")

	case session.AwaitingColor:
		value := clearable(text)
		h.applyText(userID, func(d *session.Draft) { d.Refinements.Color = value })
		return h.tg.SendText(chatID, "Refinement color updated.")

	case session.AwaitingLayout:
		value := clearable(text)
		h.applyText(userID, func(d *session.Draft) { d.Refinements.Layout = value })
		return h.tg.SendText(chatID, "Refinement layout updated.")

	case session.AwaitingDescription:
		h.applyText(userID, nil)
		return h.runSuggest(ctx, chatID, userID, text)
	}

	return h.tg.SendText(chatID, "Send a photo or use /help to see what I can do.")
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.Message == nil || cb.From == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	kind, value, ok := strings.Cut(cb.Data, ":")
	if !ok {
		h.tg.AnswerCallback(cb.ID, "")
		return nil
	}

	switch kind {
	case "mood":
		m := thumbnail.Mood(value)
		if !m.Valid() {
			h.tg.AnswerCallback(cb.ID, "Unknown mood")
			return nil
		}
		h.drafts.Update(userID, func(d *session.Draft) { d.Mood = m })
		h.tg.AnswerCallback(cb.ID, string(m))
		return h.tg.SendText(chatID, fmt.Sprintf("Mood: %s.", m))

	case "reaction":
		r := thumbnail.ImageReaction(value)
		if !r.Valid() {
			h.tg.AnswerCallback(cb.ID, "Unknown reaction")
			return nil
		}
		h.drafts.Update(userID, func(d *session.Draft) { d.ImageReaction = r })
		h.tg.AnswerCallback(cb.ID, string(r))
		return h.tg.SendText(chatID, fmt.Sprintf("Expression: %s.", r))

	case "style":
		st := thumbnail.ThumbnailStyle(value)
		if !st.Valid() {
			h.tg.AnswerCallback(cb.ID, "Unknown style")
			return nil
		}
		h.drafts.Update(userID, func(d *session.Draft) { d.ThumbnailStyle = st })
		h.tg.AnswerCallback(cb.ID, string(st))
		return h.tg.SendText(chatID, fmt.Sprintf("Style: %s.", st))

	case "bright":
		b := thumbnail.Brightness(value)
		h.drafts.Update(userID, func(d *session.Draft) { d.Refinements.Brightness = b })
		h.tg.AnswerCallback(cb.ID, string(b))
		return h.tg.SendText(chatID, fmt.Sprintf("Refinement brightness: %s.", b))

	case "idea":
		idx, err := strconv.Atoi(value)
		draft := h.drafts.Get(userID)
		if err != nil || idx < 0 || idx >= len(draft.Suggestions) {
			h.tg.AnswerCallback(cb.ID, "That idea is gone")
			return nil
		}
		pick := draft.Suggestions[idx]
		h.drafts.Update(userID, func(d *session.Draft) {
			d.Title = pick.Title
			d.BackgroundConcept = pick.BackgroundConcept
			d.Mood = pick.Mood
			d.ImageReaction = pick.ImageReaction
			d.ThumbnailStyle = pick.ThumbnailStyle
		})
		h.tg.AnswerCallback(cb.ID, "Idea applied")
		return h.tg.SendText(chatID, "Idea applied to your draft. Send /status to review, /generate to run.")
	}

	h.tg.AnswerCallback(cb.ID, "")
	return nil
}

func (h *Handler) runGeneration(ctx context.Context, chatID, userID int64, refinement bool) error {
	draft := h.drafts.Get(userID)
	h.tg.SendUploadingPhoto(chatID)

	result, err := h.studio.Generate(ctx, draft.Request(refinement))
	if err != nil {
		return h.tg.SendText(chatID, generationErrorText(err))
	}

	h.drafts.Update(userID, func(d *session.Draft) {
		d.LastResult = result.Data
		d.LastResultMime = result.MimeType
	})

	caption := "Here is your thumbnail. /refine to adjust, /download for full quality."
	if err := h.tg.SendPhotoBytes(chatID, result.Data, result.MimeType, caption); err != nil {
		return err
	}
	return nil
}

func (h *Handler) runSuggest(ctx context.Context, chatID, userID int64, description string) error {
	h.tg.SendTyping(chatID)

	suggestions, err := h.studio.Suggest(ctx, description)
	if err != nil {
		if errors.Is(err, thumbnail.ErrInvalidSuggestionFormat) {
			return h.tg.SendText(chatID, "The brainstorm came back in a shape I could not read. Try again.")
		}
		return h.tg.SendText(chatID, generationErrorText(err))
	}

	h.drafts.Update(userID, func(d *session.Draft) {
		d.Suggestions = suggestions
	})

	var b strings.Builder
	b.WriteString("Thumbnail ideas:\n")
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(suggestions))
	for i, s := range suggestions {
		b.WriteString(fmt.Sprintf("\n%d. %q\n   Background: %s\n   %s / %s / %s\n",
			i+1, s.Title, s.BackgroundConcept, s.Mood, s.ImageReaction, s.ThumbnailStyle))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Use idea %d", i+1), fmt.Sprintf("idea:%d", i)),
		))
	}

	return h.tg.SendTextWithKeyboard(chatID, b.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (h *Handler) sendDownloads(chatID, userID int64) error {
	draft := h.drafts.Get(userID)
	if !draft.HasResult() {
		return h.tg.SendText(chatID, "Nothing to download yet: run /generate first.")
	}

	if err := h.tg.SendDocumentBytes(chatID, draft.LastResult, draft.LastResultMime, "PNG, as generated"); err != nil {
		return err
	}

	jpegData, err := imgutil.ExportJPEG(draft.LastResult)
	if err != nil {
		h.logger.Error("jpeg export failed", "err", err)
		return h.tg.SendText(chatID, "JPEG export failed; the PNG above is intact.")
	}
	return h.tg.SendDocumentBytes(chatID, jpegData, imgutil.MimeJPEG, "JPEG, flattened at maximum quality")
}

func (h *Handler) setTextField(chatID, userID int64, awaiting, args, ask string) error {
	if args == "" {
		h.drafts.Update(userID, func(d *session.Draft) { d.Awaiting = awaiting })
		return h.tg.SendText(chatID, ask)
	}

	h.drafts.Update(userID, func(d *session.Draft) {
		d.Awaiting = session.AwaitingNothing
		switch awaiting {
		case session.AwaitingTitle:
			d.Title = args
		case session.AwaitingConcept:
			d.Concept = args
		case session.AwaitingBackground:
			d.BackgroundConcept = args
		case session.AwaitingColor:
			d.Refinements.Color = clearable(args)
		case session.AwaitingLayout:
			d.Refinements.Layout = clearable(args)
		}
	})
	return h.tg.SendText(chatID, "Saved.")
}

func (h *Handler) applyText(userID int64, fn func(*session.Draft)) {
	h.drafts.Update(userID, func(d *session.Draft) {
		d.Awaiting = session.AwaitingNothing
		if fn != nil {
			fn(d)
		}
	})
}

func optionKeyboard(kind string, options []thumbnail.NamedOption) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, opt := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt.Name, kind+":"+opt.Key),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func generationErrorText(err error) string {
	if studio.IsValidation(err) {
		return err.Error()
	}
	return "Failed to generate thumbnail. Reason: " + err.Error()
}

func clearable(text string) string {
	if text == "-" {
		return ""
	}
	return text
}

func draftSummary(d session.Draft) string {
	var b strings.Builder
	b.WriteString("Current draft:\n")
	b.WriteString(fmt.Sprintf("- Title: %q\n", d.Title))
	b.WriteString(fmt.Sprintf("- Concept: %q\n", d.Concept))
	b.WriteString(fmt.Sprintf("- Background: %q\n", d.BackgroundConcept))
	b.WriteString(fmt.Sprintf("- Mood: %s | Expression: %s | Style: %s\n", d.Mood, d.ImageReaction, d.ThumbnailStyle))
	if d.Refinements.IsNoop() {
		b.WriteString("- Refinements: none\n")
	} else {
		b.WriteString(fmt.Sprintf("- Refinements: brightness=%s color=%q layout=%q\n",
			d.Refinements.Brightness, d.Refinements.Color, d.Refinements.Layout))
	}
	if len(d.ImageData) > 0 {
		b.WriteString("- Photo: uploaded\n")
	} else {
		b.WriteString("- Photo: missing (send one!)\n")
	}
	if d.HasResult() {
		b.WriteString("- Last result: ready (/download)\n")
	}
	return b.String()
}

const helpText = `I turn your photo into a YouTube thumbnail.

1. Send a photo of your subject.
2. Fill in the draft:
   /title - thumbnail title text
   /concept - what the video is about
   /background - the scene behind the subject
   /mood /reaction /style - pick from presets
3. /generate - create the thumbnail.
4. /brightness /color /layout then /refine - adjust the result.

More:
/ideas <description> - brainstorm three thumbnail ideas
/status - show the draft
/download - PNG and max-quality JPEG
/new - start over`
