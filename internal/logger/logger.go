package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup inicializa o logger global a partir de LOG_LEVEL e LOG_FORMAT.
// LOG_FORMAT=json emite JSON puro; qualquer outro valor usa o console writer.
func Setup() error {
	nivel := os.Getenv("LOG_LEVEL")
	if nivel == "" {
		nivel = "info"
	}
	level, err := zerolog.ParseLevel(strings.ToLower(nivel))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	if strings.ToLower(os.Getenv("LOG_FORMAT")) != "json" {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return nil
}

// ComComponente retorna um logger com o campo "component" preenchido.
func ComComponente(componente string) zerolog.Logger {
	return log.Logger.With().Str("component", componente).Logger()
}

// ComUsuario retorna um logger com o campo "usuario_id" preenchido.
func ComUsuario(usuarioID string) zerolog.Logger {
	return log.Logger.With().Str("usuario_id", usuarioID).Logger()
}
