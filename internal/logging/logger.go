package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Level        string
	LogstashAddr string
	Service      string
	// Output defaults to stdout.
	Output io.Writer
}

// New builds the process logger. When a Logstash address is configured every
// line is mirrored there; the returned closer releases that connection.
func New(opts Options) (*zerolog.Logger, io.Closer, error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var closer io.Closer = nopCloser{}
	if strings.TrimSpace(opts.LogstashAddr) != "" {
		ls, err := NewLogstashWriter(opts.LogstashAddr)
		if err != nil {
			return nil, nil, err
		}
		out = zerolog.MultiLevelWriter(out, ls)
		closer = ls
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", opts.Service).
		Logger()
	return &logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
