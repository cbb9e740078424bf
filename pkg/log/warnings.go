package log

import (
	"os"

	"github.com/rs/zerolog"

	pengoerrors "github.com/YuminosukeSato/pengo/pkg/errors"
)

// CaptureWarnings routes library warnings (ConvergenceWarning,
// UndefinedMetricWarning, ...) through a zerolog logger so they appear as
// structured JSON instead of plain stderr lines.
//
// Warning types that implement zerolog.LogObjectMarshaler are logged with
// their structured fields; everything else falls back to the error message.
func CaptureWarnings() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	CaptureWarningsTo(logger)
}

// CaptureWarningsTo routes library warnings through the given zerolog logger.
func CaptureWarningsTo(logger zerolog.Logger) {
	pengoerrors.SetZerologWarnFunc(func(warning error) {
		event := logger.Warn()
		if marshaler, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event.Object("warning", marshaler).Msg("pengo warning")
			return
		}
		event.Err(warning).Msg("pengo warning")
	})
}
