package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"pdf_quiz_backend/internal/config"
	"pdf_quiz_backend/internal/util"
	"pdf_quiz_backend/pkg/logger"
	"pdf_quiz_backend/pkg/monitoring"
	"pdf_quiz_backend/pkg/tracing"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// QuizPrompt is sent with the extracted text appended on the last line.
const QuizPrompt = "Create 5 questions with 3 incorrect and 1 correct multiple choice answers based on the information found in the text. " +
	"List the answer choices (a,b,c,d), then list the correct answer. Don't leave any spaces between new lines. " +
	"The first line should be the question, the second through fifth lines should be answer choices, and the sixth line should show " +
	"the correct answer and the reason why it is correct, in the format of \"The correct answer is\" followed by the correct letter " +
	"and the reason why it is correct, all on one line. Separate each question from the next with one blank line:\n"

func BuildPrompt(text string) string {
	return QuizPrompt + text
}

// QuestionGenerator turns source text into raw question blocks.
type QuestionGenerator interface {
	Generate(ctx context.Context, text string) (string, error)
	Name() string
}

// GeminiGenerator calls Google Gemini through generative-ai-go.
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{
		client: client,
		model:  client.GenerativeModel(modelName),
		name:   modelName,
	}, nil
}

func (g *GeminiGenerator) Name() string { return util.ProviderGemini + "/" + g.name }

func (g *GeminiGenerator) Generate(ctx context.Context, text string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(BuildPrompt(text)))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// OpenAIGenerator calls any OpenAI compatible chat completion endpoint.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, baseURL, model string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(cfg), model: model}
}

func (g *OpenAIGenerator) Name() string { return util.ProviderOpenAI + "/" + g.model }

func (g *OpenAIGenerator) Generate(ctx context.Context, text string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(text)},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// NewGenerator builds the generator selected by cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (QuestionGenerator, error) {
	if cfg.APIKey == "" {
		return nil, util.ErrGeneratorNotReady
	}
	switch cfg.Provider {
	case util.ProviderGemini, "":
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	case util.ProviderOpenAI:
		return NewOpenAIGenerator(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}

// instrumentedGenerator adds logging, metrics and a span around each call.
// It also counts calls in flight so a reload can close it without cutting one off.
type instrumentedGenerator struct {
	next QuestionGenerator

	mu       sync.Mutex
	inflight int
	closing  bool
}

func Instrument(g QuestionGenerator) QuestionGenerator {
	if g == nil {
		return nil
	}
	return &instrumentedGenerator{next: g}
}

func (g *instrumentedGenerator) Name() string { return g.next.Name() }

// Close stops new calls at once; the wrapped client is closed when the last call in flight returns.
func (g *instrumentedGenerator) Close() error {
	g.mu.Lock()
	if g.closing {
		g.mu.Unlock()
		return nil
	}
	g.closing = true
	idle := g.inflight == 0
	g.mu.Unlock()

	if idle {
		return g.closeNext()
	}
	return nil
}

func (g *instrumentedGenerator) acquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closing {
		return false
	}
	g.inflight++
	return true
}

func (g *instrumentedGenerator) release() {
	g.mu.Lock()
	g.inflight--
	done := g.closing && g.inflight == 0
	g.mu.Unlock()

	if done {
		if err := g.closeNext(); err != nil {
			logger.Log.Warn("Failed to close question generator", zap.String("generator", g.next.Name()), zap.Error(err))
		}
	}
}

func (g *instrumentedGenerator) closeNext() error {
	if c, ok := g.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (g *instrumentedGenerator) Generate(ctx context.Context, text string) (string, error) {
	if !g.acquire() {
		return "", util.ErrGeneratorClosed
	}
	defer g.release()

	ctx, span := tracing.Tracer.Start(ctx, "QuestionGenerator.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("generator", g.next.Name()),
		attribute.Int("input.chars", len(text)),
	)

	start := time.Now()
	out, err := g.next.Generate(ctx, text)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Log.Error("Question generation failed",
			zap.String("generator", g.next.Name()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	} else {
		logger.Log.Info("Question generation finished",
			zap.String("generator", g.next.Name()),
			zap.Duration("elapsed", elapsed),
			zap.Int("output_chars", len(out)),
		)
	}
	monitoring.GenerationDuration.WithLabelValues(g.next.Name(), outcome).Observe(elapsed.Seconds())
	return out, err
}
