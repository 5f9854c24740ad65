package usage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const dateLayout = "2006-01-02"

// Tracker counts requests per day in a small file so a local daily
// limit survives restarts. A nil Tracker or a zero limit allows everything.
type Tracker struct {
	path  string
	limit int

	mu sync.Mutex
}

func NewTracker(path string, limit int) *Tracker {
	return &Tracker{path: path, limit: limit}
}

// DefaultPath is the usage file in the user's home directory.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".songcraft_usage")
}

// Reserve claims one request for the day of now, failing when the daily
// limit is reached. The check and the claim happen under one lock so
// concurrent callers cannot overshoot the limit. Call release(false) to
// give the request back when the call it was reserved for failed.
func (t *Tracker) Reserve(now time.Time) (release func(ok bool), err error) {
	if t == nil || t.limit <= 0 {
		return func(bool) {}, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	today := now.Format(dateLayout)
	date, count := t.read()
	if date != today {
		count = 0
	}
	if count >= t.limit {
		return nil, fmt.Errorf("daily quota of %d requests reached, resets tomorrow", t.limit)
	}
	if err := t.write(today, count+1); err != nil {
		return nil, err
	}

	return func(ok bool) {
		if ok {
			return
		}
		t.mu.Lock()
		defer t.mu.Unlock()

		date, count := t.read()
		if date != today || count == 0 {
			return
		}
		_ = t.write(today, count-1)
	}, nil
}

// Count returns the number of requests recorded for the day of now.
func (t *Tracker) Count(now time.Time) int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	date, count := t.read()
	if date != now.Format(dateLayout) {
		return 0
	}
	return count
}

func (t *Tracker) write(date string, count int) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("create usage directory: %w", err)
	}
	if err := os.WriteFile(t.path, []byte(fmt.Sprintf("%s:%d", date, count)), 0644); err != nil {
		return fmt.Errorf("write usage file: %w", err)
	}
	return nil
}

func (t *Tracker) read() (string, int) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return "", 0
	}
	parts := strings.Split(strings.TrimSpace(string(data)), ":")
	if len(parts) != 2 {
		return "", 0
	}
	count, _ := strconv.Atoi(parts[1])
	return parts[0], count
}
