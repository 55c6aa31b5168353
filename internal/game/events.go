package game

import (
	"fmt"
	"sort"
	"strings"
)

// maxEventEntries caps the in-memory log; the oldest entries are dropped
// beyond it. Len and Since work in absolute indices so a reader holding a
// cursor survives the trimming.
const maxEventEntries = 4096

// Event is one recorded simulation event.
type Event struct {
	Tick     int
	Category string  // food, powerup, obstacle, score, game, snake
	Key      string  // event name within the category
	Value    string  // human-readable detail
	Num      float64 // optional numeric payload for threshold checks
}

// String formats the event as a fixed-width log line:
//
//	[T=0042] food      eaten              (6,5)
func (e Event) String() string {
	return fmt.Sprintf("[T=%04d] %-9s %-18s %s", e.Tick, e.Category, e.Key, e.Value)
}

// EventLog collects structured events during a run. It is deliberately
// machine-readable: the run report, the audio triggers, the headless
// driver and the tests all consume it. Not safe for concurrent use; the
// engine and its callers share one goroutine.
type EventLog struct {
	entries []Event
	dropped int // entries trimmed from the front, keeps indices absolute
	verbose bool
}

func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// SetVerbose toggles recording of per-tick chatter (snake head positions).
// Key events are always recorded.
func (l *EventLog) SetVerbose(v bool) {
	l.verbose = v
}

// Add appends an event and trims the front if the cap is exceeded.
func (l *EventLog) Add(tick int, category, key, value string, num float64) {
	l.entries = append(l.entries, Event{Tick: tick, Category: category, Key: key, Value: value, Num: num})
	if over := len(l.entries) - maxEventEntries; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
		l.dropped += over
	}
}

// AddVerbose records only when verbose mode is on.
func (l *EventLog) AddVerbose(tick int, category, key, value string, num float64) {
	if !l.verbose {
		return
	}
	l.Add(tick, category, key, value, num)
}

// Entries returns the retained events, oldest first. The slice is shared;
// callers must not mutate it.
func (l *EventLog) Entries() []Event {
	return l.entries
}

// Len is the absolute count of events ever added, including trimmed ones.
func (l *EventLog) Len() int {
	return l.dropped + len(l.entries)
}

// Since returns the events from absolute index i onward. Indices older
// than the retained window yield the whole window.
func (l *EventLog) Since(i int) []Event {
	rel := i - l.dropped
	if rel < 0 {
		rel = 0
	}
	if rel > len(l.entries) {
		rel = len(l.entries)
	}
	return l.entries[rel:]
}

// Filter returns the retained events matching category and key. Empty
// strings match anything.
func (l *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count counts the retained events matching category and key. Empty
// strings match anything.
func (l *EventLog) Count(category, key string) int {
	n := 0
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		n++
	}
	return n
}

// First returns the oldest retained event matching category and key.
func (l *EventLog) First(category, key string) (Event, bool) {
	for _, e := range l.entries {
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return Event{}, false
}

// Last returns the newest retained event matching category and key.
func (l *EventLog) Last(category, key string) (Event, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return Event{}, false
}

// HasEntry reports whether any retained event matches category, key and a
// substring of its value. Empty strings match anything.
func (l *EventLog) HasEntry(category, key, valueSubstring string) bool {
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstring != "" && !strings.Contains(e.Value, valueSubstring) {
			continue
		}
		return true
	}
	return false
}

// Format renders the newest max events as log lines, oldest first. max <= 0
// renders the whole retained window.
func (l *EventLog) Format(max int) string {
	start := 0
	if max > 0 && len(l.entries) > max {
		start = len(l.entries) - max
	}
	var b strings.Builder
	for _, e := range l.entries[start:] {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary renders per-category counts on one line, e.g.
// "food=12 game=2 obstacle=10 powerup=3".
func (l *EventLog) Summary() string {
	counts := make(map[string]int)
	for _, e := range l.entries {
		counts[e.Category]++
	}
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		parts = append(parts, fmt.Sprintf("%s=%d", c, counts[c]))
	}
	return strings.Join(parts, " ")
}
