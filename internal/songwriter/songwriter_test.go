package songwriter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"songcraft/internal/apierr"
	"songcraft/internal/llm"
	"songcraft/internal/song"
	"songcraft/internal/usage"
	"songcraft/pkg/prompts"
)

type fakeBackend struct {
	mu sync.Mutex

	text  string
	err   error
	delay time.Duration

	textCalls int
	jsonCalls int
	prompt    string
	schema    *llm.Schema
}

func (f *fakeBackend) GenerateText(_ context.Context, prompt string) (string, error) {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.textCalls++
	f.prompt = prompt
	return f.text, f.err
}

func (f *fakeBackend) GenerateJSON(_ context.Context, prompt string, schema *llm.Schema) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jsonCalls++
	f.prompt = prompt
	f.schema = schema
	return f.text, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testParams() song.Parameters {
	p := song.DefaultParameters()
	p.Topic = "rain on a tin roof"
	return p
}

func newTestClient(b llm.Backend, opts ...Option) *Client {
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(b, prompts.Default(), opts...)
}

func TestGenerateSong(t *testing.T) {
	const unexpected = "Failed to generate song details. The AI service encountered an issue. Please try again."

	tests := []struct {
		name         string
		text         string
		err          error
		want         *song.Result
		wantCategory apierr.Category
		wantMessage  string
	}{
		{
			name: "validResponse",
			text: "{\"title\":\"X\",\"lyrics\":\"[Verse 1]\\nhi\",\"soundPrompt\":\"p1\",\"imagePrompt\":\"p2\"}",
			want: &song.Result{Title: "X", Lyrics: "[Verse 1]\nhi", SoundPrompt: "p1", ImagePrompt: "p2"},
		},
		{
			name: "surroundingWhitespace",
			text: "\n  {\"title\":\"X\",\"lyrics\":\"l\",\"soundPrompt\":\"s\",\"imagePrompt\":\"i\"}  \n",
			want: &song.Result{Title: "X", Lyrics: "l", SoundPrompt: "s", ImagePrompt: "i"},
		},
		{
			name: "extraKeysIgnored",
			text: `{"title":"X","lyrics":"l","soundPrompt":"s","imagePrompt":"i","mood":"blue"}`,
			want: &song.Result{Title: "X", Lyrics: "l", SoundPrompt: "s", ImagePrompt: "i"},
		},
		{
			name: "emptyStringsAccepted",
			text: `{"title":"","lyrics":"","soundPrompt":"","imagePrompt":""}`,
			want: &song.Result{},
		},
		{
			name:         "missingLyrics",
			text:         `{"title":"X","soundPrompt":"p1","imagePrompt":"p2"}`,
			wantCategory: apierr.Unexpected,
			wantMessage:  unexpected,
		},
		{
			name:         "nullValue",
			text:         `{"title":"X","lyrics":null,"soundPrompt":"p1","imagePrompt":"p2"}`,
			wantCategory: apierr.Unexpected,
			wantMessage:  unexpected,
		},
		{
			name:         "nonStringValue",
			text:         `{"title":7,"lyrics":"l","soundPrompt":"p1","imagePrompt":"p2"}`,
			wantCategory: apierr.Unexpected,
			wantMessage:  unexpected,
		},
		{
			name:         "malformedJSON",
			text:         `{"title":"X",`,
			wantCategory: apierr.Unexpected,
			wantMessage:  unexpected,
		},
		{
			name:         "markdownFenceNotStripped",
			text:         "```json\n{\"title\":\"X\",\"lyrics\":\"l\",\"soundPrompt\":\"s\",\"imagePrompt\":\"i\"}\n```",
			wantCategory: apierr.Unexpected,
			wantMessage:  unexpected,
		},
		{
			name:         "arrayResponse",
			text:         `[]`,
			wantCategory: apierr.Unexpected,
			wantMessage:  unexpected,
		},
		{
			name:         "nullResponse",
			text:         `null`,
			wantCategory: apierr.Unexpected,
			wantMessage:  unexpected,
		},
		{
			name:         "authenticationFailure",
			err:          errors.New("generate: Error 400, Message: API key not valid"),
			wantCategory: apierr.Authentication,
			wantMessage:  "Authentication failed. Please ensure your API key is valid, active, and correctly configured.",
		},
		{
			name:         "rateLimited",
			err:          errors.New("Error: 429 Too Many Requests"),
			wantCategory: apierr.RateLimit,
			wantMessage:  "You have exceeded your request limit for the day. Please try again later.",
		},
		{
			name:         "blocked",
			err:          errors.New("candidate was blocked due to safety"),
			wantCategory: apierr.ContentSafety,
			wantMessage:  "The request was blocked due to the content safety policy. Please modify the topic and try again.",
		},
		{
			name:         "otherFailure",
			err:          errors.New("internal error"),
			wantCategory: apierr.Unexpected,
			wantMessage:  unexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{text: tt.text, err: tt.err}
			client := newTestClient(backend)

			got, err := client.GenerateSong(context.Background(), testParams())

			if backend.jsonCalls != 1 || backend.textCalls != 0 {
				t.Errorf("calls: json=%d text=%d, want exactly one JSON call", backend.jsonCalls, backend.textCalls)
			}

			if tt.want == nil {
				if got != nil {
					t.Errorf("GenerateSong() = %+v, want nil result", got)
				}
				var classified *apierr.Error
				if !errors.As(err, &classified) {
					t.Fatalf("GenerateSong() error = %v, want *apierr.Error", err)
				}
				if classified.Category != tt.wantCategory {
					t.Errorf("Category = %v, want %v", classified.Category, tt.wantCategory)
				}
				if err.Error() != tt.wantMessage {
					t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMessage)
				}
				return
			}

			if err != nil {
				t.Fatalf("GenerateSong() unexpected error: %v", err)
			}
			if *got != *tt.want {
				t.Errorf("GenerateSong() = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestGenerateSongRequest(t *testing.T) {
	backend := &fakeBackend{text: `{"title":"X","lyrics":"l","soundPrompt":"s","imagePrompt":"i"}`}
	client := newTestClient(backend)
	params := testParams()

	if _, err := client.GenerateSong(context.Background(), params); err != nil {
		t.Fatal(err)
	}

	want, err := prompts.Default().RenderSong(params)
	if err != nil {
		t.Fatal(err)
	}
	if backend.prompt != want {
		t.Errorf("prompt = %q, want %q", backend.prompt, want)
	}
	if backend.schema != llm.SongSchema {
		t.Error("GenerateSong() did not send the song schema")
	}
}

func TestGenerateSongRoundTrip(t *testing.T) {
	backend := &fakeBackend{text: `{"title":"Tin \"Roof\"","lyrics":"[Verse 1]\nrain\n\n[Chorus]\ndrip","soundPrompt":"folk, 90 bpm","imagePrompt":"rusty roof, Photorealistic"}`}
	client := newTestClient(backend)

	got, err := client.GenerateSong(context.Background(), testParams())
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	again, err := parseSong(string(data))
	if err != nil {
		t.Fatalf("parseSong() error = %v", err)
	}
	if *again != *got {
		t.Errorf("round trip = %+v, want %+v", *again, *got)
	}
}

func TestGenerateRandomTopic(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		err          error
		want         string
		wantCategory apierr.Category
		wantMessage  string
	}{
		{
			name: "quotedTopic",
			text: "\"A lighthouse keeper's lonely vigil\"",
			want: "A lighthouse keeper's lonely vigil",
		},
		{
			name: "whitespaceAndQuotes",
			text: "  \" The last message from a dying star \"\n",
			want: "The last message from a dying star",
		},
		{
			name: "embeddedQuotes",
			text: `The "last" dance`,
			want: "The last dance",
		},
		{
			name: "plainTopic",
			text: "Neon rain in Tokyo",
			want: "Neon rain in Tokyo",
		},
		{
			name:         "onlyQuotes",
			text:         `""`,
			wantCategory: apierr.Unexpected,
			wantMessage:  "Failed to generate a random topic. The AI service encountered an issue. Please try again.",
		},
		{
			name:         "networkFailure",
			err:          errors.New("dial tcp: network is unreachable"),
			wantCategory: apierr.Network,
			wantMessage:  "A network error occurred. Please check your internet connection and try again.",
		},
		{
			name:         "quota",
			err:          errors.New("Quota exceeded"),
			wantCategory: apierr.RateLimit,
			wantMessage:  "You have exceeded your request limit for the day. Please try again later.",
		},
		{
			name:         "otherFailure",
			err:          errors.New("boom"),
			wantCategory: apierr.Unexpected,
			wantMessage:  "Failed to generate a random topic. The AI service encountered an issue. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{text: tt.text, err: tt.err}
			client := newTestClient(backend)

			got, err := client.GenerateRandomTopic(context.Background())

			if backend.textCalls != 1 || backend.jsonCalls != 0 {
				t.Errorf("calls: text=%d json=%d, want exactly one text call", backend.textCalls, backend.jsonCalls)
			}
			if backend.prompt != prompts.Default().Topic() {
				t.Errorf("prompt = %q", backend.prompt)
			}

			if tt.wantMessage != "" {
				category, ok := apierr.CategoryOf(err)
				if !ok {
					t.Fatalf("GenerateRandomTopic() error = %v, want *apierr.Error", err)
				}
				if category != tt.wantCategory {
					t.Errorf("Category = %v, want %v", category, tt.wantCategory)
				}
				if err.Error() != tt.wantMessage {
					t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMessage)
				}
				if got != "" {
					t.Errorf("GenerateRandomTopic() = %q, want empty on error", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("GenerateRandomTopic() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("GenerateRandomTopic() = %q, want %q", got, tt.want)
			}
			if strings.Contains(got, `"`) {
				t.Errorf("GenerateRandomTopic() = %q still has quotes", got)
			}
		})
	}
}

func TestUsageLimit(t *testing.T) {
	tracker := usage.NewTracker(filepath.Join(t.TempDir(), "usage"), 1)
	backend := &fakeBackend{text: "Neon rain"}
	client := newTestClient(backend, WithUsage(tracker))

	if _, err := client.GenerateRandomTopic(context.Background()); err != nil {
		t.Fatalf("first call error = %v", err)
	}

	_, err := client.GenerateRandomTopic(context.Background())
	if !errors.Is(err, apierr.ErrRateLimit) {
		t.Fatalf("second call error = %v, want rate limit", err)
	}
	if backend.textCalls != 1 {
		t.Errorf("backend calls = %d, want 1 (limit reached before calling)", backend.textCalls)
	}
}

func TestFailedCallNotCounted(t *testing.T) {
	tracker := usage.NewTracker(filepath.Join(t.TempDir(), "usage"), 5)
	backend := &fakeBackend{err: errors.New("boom")}
	client := newTestClient(backend, WithUsage(tracker))

	_, _ = client.GenerateSong(context.Background(), testParams())

	if got := tracker.Count(client.now()); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}

func TestUsageLimitConcurrent(t *testing.T) {
	const limit = 1
	tracker := usage.NewTracker(filepath.Join(t.TempDir(), "usage"), limit)
	backend := &fakeBackend{text: "Neon rain", delay: 20 * time.Millisecond}
	client := newTestClient(backend, WithUsage(tracker))

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.GenerateRandomTopic(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	limited := 0
	for err := range errs {
		if errors.Is(err, apierr.ErrRateLimit) {
			limited++
		}
	}

	if backend.textCalls != limit {
		t.Errorf("backend calls = %d, want %d", backend.textCalls, limit)
	}
	if limited != 5-limit {
		t.Errorf("rate limited calls = %d, want %d", limited, 5-limit)
	}
	if got := tracker.Count(client.now()); got != limit {
		t.Errorf("Count() = %d, want %d", got, limit)
	}
}

func TestBrokenTemplate(t *testing.T) {
	backend := &fakeBackend{}
	client := New(backend, &prompts.Prompts{Song: "{{.Nope}}"}, WithLogger(quietLogger()))

	_, err := client.GenerateSong(context.Background(), testParams())
	if !errors.Is(err, apierr.ErrUnexpected) {
		t.Errorf("error = %v, want unexpected", err)
	}
	if backend.jsonCalls != 0 {
		t.Error("backend should not be called when the prompt cannot be rendered")
	}
}

func TestConcurrentCalls(t *testing.T) {
	backend := &fakeBackend{text: `{"title":"X","lyrics":"l","soundPrompt":"s","imagePrompt":"i"}`}
	client := newTestClient(backend)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := client.GenerateSong(context.Background(), testParams())
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := client.GenerateRandomTopic(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent call error = %v", err)
		}
	}
	if backend.jsonCalls != 10 || backend.textCalls != 10 {
		t.Errorf("calls: json=%d text=%d, want 10 each", backend.jsonCalls, backend.textCalls)
	}
}
