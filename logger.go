package match

import (
	"log/slog"
	"os"
)

// logger is the package-level default handed to every Book that doesn't
// supply its own via WithLogger. It tags every record with
// component=matchcore; every Book using it carries the same tag, so the
// tag tells this package's records apart from other components', not one
// Book from another. Its handler level is Info, so the Debug records the
// book writes (rejections, trades) are not emitted unless a logger with
// a lower level is supplied.
var logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelInfo,
})).With("component", "matchcore")

// SetLogger replaces the package-level default logger used by Books
// constructed without WithLogger. It does not affect Books that already
// set their own logger.
func SetLogger(l *slog.Logger) {
	logger = l
}
