package apierr

import (
	"errors"
	"fmt"
	"testing"
)

type emptyError struct{}

func (emptyError) Error() string { return "" }

func TestClassify(t *testing.T) {
	const action = "generate song details"

	tests := []struct {
		name         string
		err          error
		wantCategory Category
		wantMessage  string
	}{
		{
			name:         "nilError",
			err:          nil,
			wantCategory: Unexpected,
			wantMessage:  "Failed to generate song details. An unexpected error occurred.",
		},
		{
			name:         "emptyMessage",
			err:          emptyError{},
			wantCategory: Unexpected,
			wantMessage:  "Failed to generate song details. The AI service encountered an issue. Please try again.",
		},
		{
			name:         "apiKey",
			err:          errors.New("API key not valid. Please pass a valid API key."),
			wantCategory: Authentication,
			wantMessage:  "Authentication failed. Please ensure your API key is valid, active, and correctly configured.",
		},
		{
			name:         "tooManyRequests",
			err:          errors.New("Error: 429 Too Many Requests"),
			wantCategory: RateLimit,
			wantMessage:  "You have exceeded your request limit for the day. Please try again later.",
		},
		{
			name:         "quota",
			err:          errors.New("RESOURCE_EXHAUSTED: Quota exceeded for metric"),
			wantCategory: RateLimit,
			wantMessage:  "You have exceeded your request limit for the day. Please try again later.",
		},
		{
			name:         "network",
			err:          errors.New("Network unreachable"),
			wantCategory: Network,
			wantMessage:  "A network error occurred. Please check your internet connection and try again.",
		},
		{
			name:         "fetch",
			err:          errors.New("failed to fetch"),
			wantCategory: Network,
			wantMessage:  "A network error occurred. Please check your internet connection and try again.",
		},
		{
			name:         "candidateBlocked",
			err:          errors.New("Candidate was blocked due to SAFETY"),
			wantCategory: ContentSafety,
			wantMessage:  "The request was blocked due to the content safety policy. Please modify the topic and try again.",
		},
		{
			name:         "safety",
			err:          errors.New("response flagged by safety filters"),
			wantCategory: ContentSafety,
			wantMessage:  "The request was blocked due to the content safety policy. Please modify the topic and try again.",
		},
		{
			name:         "other",
			err:          errors.New("internal server error"),
			wantCategory: Unexpected,
			wantMessage:  "Failed to generate song details. The AI service encountered an issue. Please try again.",
		},
		{
			name:         "wrapped",
			err:          fmt.Errorf("generate: %w", errors.New("dial tcp: network is unreachable")),
			wantCategory: Network,
			wantMessage:  "A network error occurred. Please check your internet connection and try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, action)
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %v, want %v", got.Category, tt.wantCategory)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	err := errors.New("api key rejected with 429 and network safety issues")
	if got := Classify(err, "x").Category; got != Authentication {
		t.Errorf("Category = %v, want Authentication", got)
	}

	err = errors.New("429 after network fetch")
	if got := Classify(err, "x").Category; got != RateLimit {
		t.Errorf("Category = %v, want RateLimit", got)
	}

	err = errors.New("network error while checking safety")
	if got := Classify(err, "x").Category; got != Network {
		t.Errorf("Category = %v, want Network", got)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	upper := Message(errors.New("API KEY invalid"), "generate song details")
	lower := Message(errors.New("api key invalid"), "generate song details")
	if upper != lower {
		t.Errorf("Message() differs by case: %q vs %q", upper, lower)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	err := errors.New("something odd")
	first := Message(err, "generate a random topic")
	second := Message(err, "generate a random topic")
	if first != second {
		t.Errorf("Message() not stable: %q vs %q", first, second)
	}
	want := "Failed to generate a random topic. The AI service encountered an issue. Please try again."
	if first != want {
		t.Errorf("Message() = %q, want %q", first, want)
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Classify(errors.New("quota exceeded"), "x"))

	if !errors.Is(err, ErrRateLimit) {
		t.Error("errors.Is(err, ErrRateLimit) = false, want true")
	}
	if errors.Is(err, ErrAuthentication) {
		t.Error("errors.Is(err, ErrAuthentication) = true, want false")
	}

	category, ok := CategoryOf(err)
	if !ok || category != RateLimit {
		t.Errorf("CategoryOf() = %v, %v", category, ok)
	}

	if _, ok := CategoryOf(errors.New("plain")); ok {
		t.Error("CategoryOf(plain) reported a classified error")
	}
}

func TestErrorHidesCause(t *testing.T) {
	raw := errors.New("api key AIza-secret leaked")
	classified := Classify(raw, "x")
	if errors.Is(classified, raw) {
		t.Error("classified error must not wrap the raw cause")
	}
	if classified.Error() != authenticationMessage {
		t.Errorf("Error() = %q", classified.Error())
	}
}

func TestCategoryString(t *testing.T) {
	tests := map[Category]string{
		Authentication: "authentication",
		RateLimit:      "rate_limit",
		Network:        "network",
		ContentSafety:  "content_safety",
		Unexpected:     "unexpected",
	}
	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", c, got, want)
		}
	}
}
