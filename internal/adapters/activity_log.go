package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"project-upgrader/internal/ports"
)

const DefaultActivityLogFile = "Logs.txt"

const activityTimestampLayout = "2006-01-02 15:04:05"

// ActivityLogAdapter appends the human-readable run log to a text file.
// Existing content is never truncated. Write failures are reported through
// zerolog and otherwise ignored.
type ActivityLogAdapter struct {
	Path  string
	Clock func() time.Time

	mu sync.Mutex
}

func NewActivityLogAdapter(path string) *ActivityLogAdapter {
	if strings.TrimSpace(path) == "" {
		path = DefaultActivityLogFile
	}
	return &ActivityLogAdapter{Path: path, Clock: time.Now}
}

func (a *ActivityLogAdapter) PrintData(line string) {
	a.append(line)
}

func (a *ActivityLogAdapter) LogInformation(message string) {
	a.append(a.timestamp(), message)
}

func (a *ActivityLogAdapter) LogWarning(message string) {
	a.append(a.timestamp(), "WARNING: "+message)
}

func (a *ActivityLogAdapter) LogError(message string) {
	a.append(a.timestamp(), "ERROR: "+message)
}

func (a *ActivityLogAdapter) timestamp() string {
	now := time.Now
	if a.Clock != nil {
		now = a.Clock
	}
	return now().Format(activityTimestampLayout)
}

func (a *ActivityLogAdapter) append(lines ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if dir := filepath.Dir(a.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", a.Path).Msg("failed to create activity log directory")
			return
		}
	}
	file, err := os.OpenFile(a.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Warn().Err(err).Str("path", a.Path).Msg("failed to open activity log")
		return
	}
	defer file.Close()
	if _, err := file.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		log.Warn().Err(err).Str("path", a.Path).Msg("failed to write activity log")
	}
}

var _ ports.ActivityLogPort = (*ActivityLogAdapter)(nil)
