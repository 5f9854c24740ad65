// Package apierr turns failures from the generation service into the
// short messages shown to users.
package apierr

import (
	"errors"
	"fmt"
	"strings"
)

type Category int

const (
	Unexpected Category = iota
	Authentication
	RateLimit
	Network
	ContentSafety
)

func (c Category) String() string {
	switch c {
	case Authentication:
		return "authentication"
	case RateLimit:
		return "rate_limit"
	case Network:
		return "network"
	case ContentSafety:
		return "content_safety"
	default:
		return "unexpected"
	}
}

const (
	authenticationMessage = "Authentication failed. Please ensure your API key is valid, active, and correctly configured."
	rateLimitMessage      = "You have exceeded your request limit for the day. Please try again later."
	networkMessage        = "A network error occurred. Please check your internet connection and try again."
	contentSafetyMessage  = "The request was blocked due to the content safety policy. Please modify the topic and try again."
)

// Sentinels for errors.Is against a classified *Error.
var (
	ErrAuthentication = &Error{Category: Authentication}
	ErrRateLimit      = &Error{Category: RateLimit}
	ErrNetwork        = &Error{Category: Network}
	ErrContentSafety  = &Error{Category: ContentSafety}
	ErrUnexpected     = &Error{Category: Unexpected}
)

// Error carries only the user-facing message; the raw cause is not wrapped.
type Error struct {
	Category Category
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Category == e.Category && (t.Message == "" || t.Message == e.Message)
}

var rules = []struct {
	category Category
	needles  []string
	message  string
}{
	{Authentication, []string{"api key"}, authenticationMessage},
	{RateLimit, []string{"429", "quota"}, rateLimitMessage},
	{Network, []string{"network", "fetch"}, networkMessage},
	{ContentSafety, []string{"candidate was blocked", "safety"}, contentSafetyMessage},
}

// Classify maps err to a category. action describes what was attempted,
// e.g. "generate song details".
func Classify(err error, action string) *Error {
	if err == nil {
		return &Error{Category: Unexpected, Message: defaultMessage(action)}
	}

	msg := strings.ToLower(err.Error())
	for _, r := range rules {
		for _, needle := range r.needles {
			if strings.Contains(msg, needle) {
				return &Error{Category: r.category, Message: r.message}
			}
		}
	}
	return NewUnexpected(action)
}

func Message(err error, action string) string {
	return Classify(err, action).Message
}

// NewUnexpected is the failure used when the service answered but the
// answer could not be used.
func NewUnexpected(action string) *Error {
	return &Error{
		Category: Unexpected,
		Message:  fmt.Sprintf("Failed to %s. The AI service encountered an issue. Please try again.", action),
	}
}

func CategoryOf(err error) (Category, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Category, true
	}
	return Unexpected, false
}

func defaultMessage(action string) string {
	return fmt.Sprintf("Failed to %s. An unexpected error occurred.", action)
}
