package logger

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

const bufferCapacity = 1000

// Entry is one captured log line
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// ringBuffer keeps the most recent log entries in memory so they can be
// served over the admin API without tailing files.
type ringBuffer struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

var buffer = &ringBuffer{
	entries: make([]Entry, bufferCapacity),
}

// Write implements io.Writer over zerolog's JSON output
func (b *ringBuffer) Write(p []byte) (int, error) {
	var line struct {
		Time    string `json:"time"`
		Level   string `json:"level"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(p, &line); err != nil {
		// Non-JSON output (console mode) is not captured
		return len(p), nil
	}

	b.mu.Lock()
	b.entries[b.next] = Entry{
		Timestamp: line.Time,
		Level:     line.Level,
		Message:   line.Message,
	}
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
	b.mu.Unlock()

	return len(p), nil
}

// Recent returns up to n of the latest entries at or above minLevel,
// oldest first.
func Recent(n int, minLevel string) []Entry {
	min := parseLogLevel(minLevel)

	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	size := buffer.next
	if buffer.full {
		size = len(buffer.entries)
	}

	out := make([]Entry, 0, n)
	// Walk backwards from the newest entry
	for i := 0; i < size && len(out) < n; i++ {
		idx := (buffer.next - 1 - i + len(buffer.entries)) % len(buffer.entries)
		entry := buffer.entries[idx]

		if lvl, err := zerolog.ParseLevel(entry.Level); err == nil && lvl < min {
			continue
		}
		out = append(out, entry)
	}

	// Reverse into chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}
