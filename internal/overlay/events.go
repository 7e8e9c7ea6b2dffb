package overlay

import (
	"bufio"
	"log"
	"os"
	"strings"
	"time"

	"lostark-market/internal/gametime"
)

// Event is a named one-off date loaded from the event log.
type Event struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

// LoadEvents parses the flat event log: one `"name": YYYY-MM-DD` entry per
// line. Malformed lines are skipped with a log line; they never abort the
// rest of the file. A missing file simply means no events.
func LoadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		event, ok := parseEventLine(line)
		if !ok {
			log.Printf("[overlay] %s:%d: skipping malformed event line %q", path, lineNo, line)
			continue
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}

func parseEventLine(line string) (Event, bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return Event{}, false
	}
	name := strings.Trim(strings.TrimSpace(line[:idx]), `"`)
	dateStr := strings.TrimSpace(line[idx+1:])
	if name == "" || dateStr == "" {
		return Event{}, false
	}
	at, err := time.ParseInLocation("2006-01-02", dateStr, gametime.KST)
	if err != nil {
		return Event{}, false
	}
	return Event{Name: name, At: at}, true
}

// EventMarkers filters events down to those whose calendar date falls
// inside the observed range; each surviving event renders as a
// point-in-time marker at midnight of its date.
func EventMarkers(events []Event, from, to time.Time) []Event {
	firstDate := calendarDate(from)
	lastDate := calendarDate(to)
	var markers []Event
	for _, e := range events {
		if e.At.Before(firstDate) || e.At.After(lastDate) {
			continue
		}
		markers = append(markers, e)
	}
	return markers
}

func calendarDate(t time.Time) time.Time {
	in := t.In(gametime.KST)
	return time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, gametime.KST)
}
