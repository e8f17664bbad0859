// Package logging wires up the daemon's structured logger: charmbracelet/log
// for level-tinted console output exposed through the standard log/slog
// interface the rest of the daemon is written against.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// humanTimestampPattern is the strftime pattern Banner stamps onto the
// connect/reload notices; the supervisor then logs the stamped text as an
// Info message through the structured logger.
const humanTimestampPattern = "%Y-%m-%d %H:%M:%S"

// New builds the daemon's logger. verbose raises the level to Debug;
// otherwise Info and above are shown, matching spec §9 "ambient logging is
// always on, verbosity is the only knob".
func New(verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           level,
	})

	return slog.New(handler)
}

// Banner formats msg prefixed with a strftime-rendered timestamp, the style
// used for the two fixed banner lines the source prints directly to
// stdout: the SIGUSR1 reload notice and the per-device connect notice
// (spec §4.G, §6).
func Banner(msg string) string {
	ts, err := strftime.Format(humanTimestampPattern, time.Now())
	if err != nil {
		ts = time.Now().Format(humanTimestampPattern)
	}

	return ts + " " + msg
}
