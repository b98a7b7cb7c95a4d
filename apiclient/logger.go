package apiclient

import (
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// restyLogger routes resty's internal messages into zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

var _ resty.Logger = (*restyLogger)(nil)

func (l *restyLogger) Errorf(format string, v ...any) {
	l.logger.Error().Msgf(format, v...)
}

func (l *restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn().Msgf(format, v...)
}

func (l *restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}
