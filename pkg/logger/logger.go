package logger

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger é a interface para logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// ZerologLogger implementa Logger sobre o zerolog
type ZerologLogger struct {
	log zerolog.Logger
}

// NewLogger cria um Logger em modo console com nível info
func NewLogger() Logger {
	l, _ := New("info", "console")
	return l
}

// New cria um Logger a partir do nível e do formato (json ou console)
func New(level, format string) (Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}

	var out io.Writer
	switch strings.ToLower(format) {
	case "json", "":
		out = os.Stdout
	case "console":
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	default:
		return nil, errors.New("formato de log não suportado")
	}

	return &ZerologLogger{
		log: zerolog.New(out).With().Timestamp().Logger().Level(lvl),
	}, nil
}

// NewWithWriter cria um Logger JSON escrevendo no writer informado
func NewWithWriter(w io.Writer) Logger {
	return &ZerologLogger{log: zerolog.New(w).With().Timestamp().Logger()}
}

// NewNop cria um Logger que descarta tudo
func NewNop() Logger {
	return &ZerologLogger{log: zerolog.Nop()}
}

// Info registra uma mensagem de informação
func (l *ZerologLogger) Info(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Info(), keysAndValues).Msg(msg)
}

// Error registra uma mensagem de erro
func (l *ZerologLogger) Error(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Error(), keysAndValues).Msg(msg)
}

// Debug registra uma mensagem de debug
func (l *ZerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Debug(), keysAndValues).Msg(msg)
}

// Warn registra uma mensagem de aviso
func (l *ZerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Warn(), keysAndValues).Msg(msg)
}

// withFields converte pares chave/valor em campos do evento
func withFields(e *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if i+1 >= len(keysAndValues) {
			e = e.Interface(key, nil)
			break
		}
		switch v := keysAndValues[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}
