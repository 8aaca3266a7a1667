package ia

import (
	"bytes"
	"context"
	"fmt"
	"os"

	vision "cloud.google.com/go/vision/apiv1"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// ServicoOCR extrai texto de fotos de recibos e faturas via Google Cloud
// Vision. Puro request/response; não participa do agendamento.
type ServicoOCR struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// NovoServicoOCR cria o serviço com credenciais do ambiente:
// GOOGLE_CREDENTIALS (JSON inline) ou GOOGLE_APPLICATION_CREDENTIALS (arquivo),
// com fallback para as credenciais padrão da máquina.
func NovoServicoOCR(ctx context.Context, log zerolog.Logger) (*ServicoOCR, error) {
	var client *vision.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("cliente Vision: %w", err)
	}
	return &ServicoOCR{client: client, log: log}, nil
}

// ExtrairTexto roda o OCR de documento sobre a imagem e retorna o texto completo.
func (s *ServicoOCR) ExtrairTexto(ctx context.Context, imagem []byte) (string, error) {
	if len(imagem) == 0 {
		return "", ErrImagemInvalida
	}
	img, err := vision.NewImageFromReader(bytes.NewReader(imagem))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImagemInvalida, err)
	}
	annotation, err := s.client.DetectDocumentText(ctx, img, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOCRFalhou, err)
	}
	if annotation == nil || annotation.Text == "" {
		return "", ErrSemTexto
	}
	s.log.Debug().Int("bytes", len(imagem)).Int("caracteres", len(annotation.Text)).Msg("OCR concluído")
	return annotation.Text, nil
}

// Fechar libera o cliente gRPC subjacente.
func (s *ServicoOCR) Fechar() error {
	return s.client.Close()
}
