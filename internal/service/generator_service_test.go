package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"pdf_quiz_backend/internal/config"
	"pdf_quiz_backend/internal/util"
	"strings"
	"testing"
	"time"
)

func TestBuildPromptAppendsText(t *testing.T) {
	p := BuildPrompt("SOURCE TEXT")
	if !strings.HasPrefix(p, "Create 5 questions") || !strings.HasSuffix(p, "\nSOURCE TEXT") {
		t.Fatalf("prompt = %q", p)
	}
	if !strings.Contains(p, `"The correct answer is"`) {
		t.Fatal("prompt must ask for the answer marker")
	}
}

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()
	if _, err := NewGenerator(ctx, config.AIConfig{Provider: "gemini"}); !errors.Is(err, util.ErrGeneratorNotReady) {
		t.Fatalf("missing key: %v", err)
	}
	if _, err := NewGenerator(ctx, config.AIConfig{Provider: "claude", APIKey: "k"}); err == nil {
		t.Fatal("unknown provider should fail")
	}
	g, err := NewGenerator(ctx, config.AIConfig{Provider: "openai", APIKey: "k", Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatal(err)
	}
	if g.Name() != "openai/gpt-4o-mini" {
		t.Fatalf("name = %q", g.Name())
	}
}

func TestOpenAIGeneratorReturnsContentVerbatim(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) > 0 {
			gotPrompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": twoGoodOneShort},
			}},
		})
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("k", srv.URL+"/v1", "test-model")
	out, err := Instrument(g).Generate(context.Background(), "photosynthesis notes")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != twoGoodOneShort {
		t.Fatalf("output altered: %q", out)
	}
	if !strings.HasSuffix(gotPrompt, "photosynthesis notes") {
		t.Fatalf("prompt sent = %q", gotPrompt)
	}
}

func TestInstrumentPassesErrorsThrough(t *testing.T) {
	fake := &fakeGenerator{err: errors.New("503")}
	g := Instrument(fake)
	if _, err := g.Generate(context.Background(), "x"); err == nil || err.Error() != "503" {
		t.Fatalf("err = %v", err)
	}
	if g.Name() != "fake" || Instrument(nil) != nil {
		t.Fatal("Instrument wiring")
	}
}

type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
	closed  chan struct{}
}

func newBlockingGenerator() *blockingGenerator {
	return &blockingGenerator{
		started: make(chan struct{}),
		release: make(chan struct{}),
		closed:  make(chan struct{}),
	}
}

func (b *blockingGenerator) Name() string { return "blocking" }

func (b *blockingGenerator) Generate(ctx context.Context, text string) (string, error) {
	close(b.started)
	<-b.release
	return twoGoodOneShort, nil
}

func (b *blockingGenerator) Close() error {
	close(b.closed)
	return nil
}

func TestInstrumentCloseWaitsForCallsInFlight(t *testing.T) {
	inner := newBlockingGenerator()
	g := Instrument(inner).(io.Closer)

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := g.(QuestionGenerator).Generate(context.Background(), "x")
		done <- result{out, err}
	}()
	<-inner.started

	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case <-inner.closed:
		t.Fatal("client closed while a call was still running")
	default:
	}

	if _, err := g.(QuestionGenerator).Generate(context.Background(), "y"); !errors.Is(err, util.ErrGeneratorClosed) {
		t.Fatalf("call after Close: %v", err)
	}

	close(inner.release)
	res := <-done
	if res.err != nil || res.out != twoGoodOneShort {
		t.Fatalf("in-flight call = %q, %v", res.out, res.err)
	}
	select {
	case <-inner.closed:
	case <-time.After(time.Second):
		t.Fatal("client not closed after the last call returned")
	}
	if err := g.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestInstrumentCloseIdleClosesAtOnce(t *testing.T) {
	inner := newBlockingGenerator()
	if err := Instrument(inner).(io.Closer).Close(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-inner.closed:
	default:
		t.Fatal("idle generator should close immediately")
	}
}
