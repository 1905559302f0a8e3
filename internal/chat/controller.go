// Package chat drives a conversation turn end to end: staging attachments,
// persisting the transcript, titling new sessions, windowing history, and
// streaming the assistant reply back out.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"github.com/fbarret/chatter/internal/i18n"
	"github.com/fbarret/chatter/internal/ingest"
	"github.com/fbarret/chatter/internal/llm"
	"github.com/fbarret/chatter/internal/models"
	"github.com/fbarret/chatter/internal/persona"
	"github.com/fbarret/chatter/internal/speech"
	"github.com/fbarret/chatter/internal/store"
	"github.com/fbarret/chatter/internal/summary"
)

var (
	// ErrNothingToSend is returned for a blank message with no staged files.
	ErrNothingToSend = errors.New("nothing to send")
	// ErrBusy is returned while a turn is already streaming for the session.
	ErrBusy = errors.New("session is busy")
)

// historyWindow is how many prior transcript turns travel with each request,
// on top of the system prompt and the new user message.
const historyWindow = 10

// CompletionClient is the streaming completion surface the controller needs.
type CompletionClient interface {
	StreamChat(ctx context.Context, messages []llm.ChatMessage, publish func(partial string)) (string, error)
}

type Controller struct {
	store    *store.Store
	client   CompletionClient
	personas *persona.Registry
	ingestor *ingest.Adapter
	speaker  speech.Speaker
	clock    func() time.Time
	logger   *zap.Logger

	mu      sync.Mutex
	busy    map[string]bool
	staged  []models.AttachedFile
	fileErr string

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

type Config struct {
	Store    *store.Store
	Client   CompletionClient
	Personas *persona.Registry
	Ingestor *ingest.Adapter
	Speaker  speech.Speaker
	Clock    func() time.Time
	Logger   *zap.Logger
}

func New(cfg Config) *Controller {
	if cfg.Speaker == nil {
		cfg.Speaker = speech.Nop{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Controller{
		store:    cfg.Store,
		client:   cfg.Client,
		personas: cfg.Personas,
		ingestor: cfg.Ingestor,
		speaker:  cfg.Speaker,
		clock:    cfg.Clock,
		logger:   cfg.Logger,
		busy:     make(map[string]bool),
	}
}

// IngestAndStage decodes uploaded files and stages the results for the next
// send. The batch error message, if any, replaces the previous one.
func (c *Controller) IngestAndStage(files []ingest.File, lang string) {
	attached, errMsg := c.ingestor.Ingest(files, lang)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staged = append(c.staged, attached...)
	c.fileErr = errMsg
}

// Staged returns a copy of the currently staged attachments.
func (c *Controller) Staged() []models.AttachedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.AttachedFile, len(c.staged))
	copy(out, c.staged)
	return out
}

// Unstage drops the first staged attachment with the given name.
func (c *Controller) Unstage(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, f := range c.staged {
		if f.Name == name {
			c.staged = append(c.staged[:i], c.staged[i+1:]...)
			return
		}
	}
}

// FileError returns the error message from the last ingest batch, or "".
func (c *Controller) FileError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileErr
}

type SendRequest struct {
	SessionID string
	Persona   string
	Language  string
	Text      string
}

// Send runs one conversation turn: the user message (with any staged
// attachments) is appended to the transcript, the windowed request is
// streamed, and the assistant reply is appended once complete. publish
// receives each growing partial of the reply. Provider failures do not fail
// the turn; a localized error message becomes the assistant reply instead.
func (c *Controller) Send(ctx context.Context, req SendRequest, publish func(partial string)) (models.Message, error) {
	text := strings.TrimSpace(req.Text)
	t := i18n.T(req.Language)

	c.mu.Lock()
	if text == "" && len(c.staged) == 0 {
		c.mu.Unlock()
		return models.Message{}, ErrNothingToSend
	}
	if c.busy[req.SessionID] {
		c.mu.Unlock()
		return models.Message{}, ErrBusy
	}
	files := c.staged
	c.staged = nil
	c.fileErr = ""
	c.busy[req.SessionID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.busy, req.SessionID)
		c.mu.Unlock()
	}()

	msgs, err := c.store.LoadMessages(req.SessionID)
	if err != nil {
		return models.Message{}, err
	}

	// The first user turn names the session.
	if countRole(msgs, models.RoleUser) == 0 {
		if err := c.store.SetTitle(req.SessionID, summary.Summarize(text)); err != nil {
			return models.Message{}, err
		}
	}

	userMsg := models.Message{Role: models.RoleUser, Content: text, Files: files}
	msgs = append(msgs, userMsg)
	if err := c.store.SaveMessages(req.SessionID, msgs); err != nil {
		return models.Message{}, err
	}

	prompt := c.personas.Prompt(req.Persona, req.Language)
	if prompt == "" {
		c.logger.Error("no persona prompt configured",
			zap.String("persona", req.Persona),
			zap.String("language", req.Language))
		return c.appendAssistant(req.SessionID, msgs, t.ErrorPersona)
	}

	outgoing := buildWindow(prompt, msgs[:len(msgs)-1], prefixed(t, files, text))
	c.logTokenEstimate(req.SessionID, outgoing)

	start := c.clock()
	final, err := c.client.StreamChat(ctx, outgoing, publish)
	if err != nil {
		c.logger.Error("completion request failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		return c.appendAssistant(req.SessionID, msgs, t.ErrorAPI)
	}

	c.logger.Info("completion finished",
		zap.String("session_id", req.SessionID),
		zap.Duration("elapsed", c.clock().Sub(start)),
		zap.Int("reply_chars", len(final)))

	reply, err := c.appendAssistant(req.SessionID, msgs, final)
	if err != nil {
		return models.Message{}, err
	}

	if muted, mErr := c.store.Muted(); mErr == nil && !muted {
		go func() {
			_ = c.speaker.Speak(context.Background(), final, req.Language)
		}()
	}
	return reply, nil
}

func (c *Controller) appendAssistant(sessionID string, msgs []models.Message, content string) (models.Message, error) {
	reply := models.Message{Role: models.RoleAssistant, Content: content}
	if err := c.store.SaveMessages(sessionID, append(msgs, reply)); err != nil {
		return models.Message{}, err
	}
	return reply, nil
}

// prefixed builds the outgoing message text. When files are attached, a
// localized notice and each file's name and extracted content precede the
// typed text. The transcript keeps the unprefixed text; only the request
// carries the file contents inline.
func prefixed(t i18n.Strings, files []models.AttachedFile, text string) string {
	if len(files) == 0 {
		return text
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d %s\n\n", t.AttachNoticeBefore, len(files), t.AttachNoticeAfter)
	for i, f := range files {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%s %q\n%s\n%s", t.FileLabel, f.Name, t.ContentLabel, f.Content)
	}
	sb.WriteString("\n\n")
	sb.WriteString(text)
	return sb.String()
}

// buildWindow assembles the request: the system prompt, the most recent
// transcript turns, and the new user message.
func buildWindow(prompt string, history []models.Message, userText string) []llm.ChatMessage {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	out := make([]llm.ChatMessage, 0, len(history)+2)
	out = append(out, llm.ChatMessage{Role: models.RoleSystem, Content: prompt})
	for _, m := range history {
		out = append(out, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}
	out = append(out, llm.ChatMessage{Role: models.RoleUser, Content: userText})
	return out
}

// logTokenEstimate logs a rough prompt size. Encoder setup can fail (it
// loads a vocabulary file); in that case the estimate is simply skipped.
func (c *Controller) logTokenEstimate(sessionID string, window []llm.ChatMessage) {
	c.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			c.logger.Warn("token encoder unavailable", zap.Error(err))
			return
		}
		c.enc = enc
	})
	if c.enc == nil {
		return
	}
	total := 0
	for _, m := range window {
		total += len(c.enc.Encode(m.Content, nil, nil))
	}
	c.logger.Debug("prompt token estimate",
		zap.String("session_id", sessionID),
		zap.Int("messages", len(window)),
		zap.Int("tokens", total))
}

// ExportTranscript renders a session as plain text for download.
func (c *Controller) ExportTranscript(sessionID string) (string, error) {
	msgs, err := c.store.LoadMessages(sessionID)
	if err != nil {
		return "", err
	}
	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		blocks = append(blocks, strings.ToUpper(m.Role)+":\n"+m.Content+"\n")
	}
	return strings.Join(blocks, "\n"), nil
}

func countRole(msgs []models.Message, role string) int {
	n := 0
	for _, m := range msgs {
		if m.Role == role {
			n++
		}
	}
	return n
}
