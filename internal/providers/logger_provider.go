package providers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"f2g/internal/structures"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
)

var logFiles = map[TypeEnum]string{
	TypeApp:  "app.log",
	TypeGet:  "get.log",
	TypePost: "post.log",
}

type Logger interface {
	Errorf(logType TypeEnum, format string, args ...interface{})
	Warnf(logType TypeEnum, format string, args ...interface{})
	Debugf(logType TypeEnum, format string, args ...interface{})
	Infof(logType TypeEnum, format string, args ...interface{})
	Fatalf(logType TypeEnum, format string, args ...interface{})
	Close()
}

// LogProvider keeps one zerolog.Logger per log type, each writing to its
// own file in the configured directory.
type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*os.File
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == http.MethodPost {
		return TypePost
	}
	return TypeGet
}

func (l *LogProvider) get(logType TypeEnum) *zerolog.Logger {
	lg, ok := l.loggers[logType]
	if !ok {
		lg = l.loggers[TypeApp]
	}
	return &lg
}

func (l *LogProvider) Errorf(logType TypeEnum, format string, args ...interface{}) {
	l.get(logType).Error().Msgf(format, args...)
}

func (l *LogProvider) Warnf(logType TypeEnum, format string, args ...interface{}) {
	l.get(logType).Warn().Msgf(format, args...)
}

func (l *LogProvider) Debugf(logType TypeEnum, format string, args ...interface{}) {
	l.get(logType).Debug().Msgf(format, args...)
}

func (l *LogProvider) Infof(logType TypeEnum, format string, args ...interface{}) {
	l.get(logType).Info().Msgf(format, args...)
}

func (l *LogProvider) Fatalf(logType TypeEnum, format string, args ...interface{}) {
	l.get(logType).Fatal().Msgf(format, args...)
}

func (l *LogProvider) Close() {
	for _, f := range l.files {
		_ = f.Sync()
		_ = f.Close()
	}
	l.files = nil
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("logger level: %w", err)
	}
	mode := os.FileMode(conf.Logger.Mode)
	if mode == 0 {
		mode = 0644
	}

	lp := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger, len(logFiles))}
	for logType, name := range logFiles {
		f, err := os.OpenFile(filepath.Join(conf.Logger.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
		if err != nil {
			lp.Close()
			return nil, fmt.Errorf("open log file: %w", err)
		}
		lp.files = append(lp.files, f)

		var w io.Writer = f
		if conf.Debug {
			w = zerolog.MultiLevelWriter(f, zerolog.ConsoleWriter{Out: os.Stderr})
		}
		lp.loggers[logType] = zerolog.New(w).Level(level).With().Timestamp().Str("log", name).Logger()
	}
	return lp, nil
}
