package ia

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// ServicoAvatar gera um avatar de cliente a partir de uma descrição textual.
type ServicoAvatar struct {
	cliente *openai.Client
	log     zerolog.Logger
}

func NovoServicoAvatar(log zerolog.Logger) (*ServicoAvatar, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY", ErrChaveAusente)
	}
	return &ServicoAvatar{cliente: openai.NewClient(apiKey), log: log}, nil
}

// GerarAvatar devolve a URL da imagem gerada.
func (s *ServicoAvatar) GerarAvatar(ctx context.Context, descricao string) (string, error) {
	if strings.TrimSpace(descricao) == "" {
		descricao = "logotipo abstrato e amigável para uma pequena empresa"
	}
	resp, err := s.cliente.CreateImage(ctx, openai.ImageRequest{
		Prompt:         fmt.Sprintf("Avatar profissional, estilo flat, fundo liso: %s", descricao),
		Model:          openai.CreateImageModelDallE3,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", fmt.Errorf("geração de imagem: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", ErrRespostaInvalida
	}
	return resp.Data[0].URL, nil
}
