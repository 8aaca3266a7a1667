package ia

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
)

// ItemExtraido é uma linha de cobrança estruturada a partir de texto livre.
type ItemExtraido struct {
	Descricao     string          `json:"descricao"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valorUnitario"`
}

// ServicoExtracao transforma texto livre (digitado ou vindo do OCR) em itens
// de fatura estruturados usando chat completion.
type ServicoExtracao struct {
	cliente *openai.Client
	modelo  string
	log     zerolog.Logger
}

// NovoServicoExtracao cria o serviço a partir de OPENAI_API_KEY e OPENAI_MODEL.
func NovoServicoExtracao(log zerolog.Logger) (*ServicoExtracao, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY", ErrChaveAusente)
	}
	modelo := os.Getenv("OPENAI_MODEL")
	if modelo == "" {
		modelo = openai.GPT4oMini
	}
	return &ServicoExtracao{
		cliente: openai.NewClient(apiKey),
		modelo:  modelo,
		log:     log,
	}, nil
}

const promptExtracao = `Você extrai itens de cobrança de descrições em português.
Responda APENAS com um array JSON, sem markdown, no formato:
[{"descricao": string, "quantidade": número positivo, "valorUnitario": número não negativo}]
Se nenhuma quantidade for mencionada, use 1. Valores em reais, sem símbolo de moeda.`

// ExtrairItens envia o texto ao modelo e interpreta a resposta como itens.
func (s *ServicoExtracao) ExtrairItens(ctx context.Context, texto string) ([]ItemExtraido, error) {
	if strings.TrimSpace(texto) == "" {
		return nil, fmt.Errorf("%w: texto vazio", ErrRespostaInvalida)
	}
	resp, err := s.cliente.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.modelo,
		Temperature: 0.1,
		MaxTokens:   1000,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: promptExtracao},
			{Role: openai.ChatMessageRoleUser, Content: texto},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrRespostaInvalida
	}

	conteudo := limparCercaJSON(resp.Choices[0].Message.Content)
	var itens []ItemExtraido
	if err := json.Unmarshal([]byte(conteudo), &itens); err != nil {
		s.log.Warn().Str("conteudo", conteudo).Msg("resposta do modelo fora do formato esperado")
		return nil, fmt.Errorf("%w: %v", ErrRespostaInvalida, err)
	}
	for _, item := range itens {
		if item.Descricao == "" || !item.Quantidade.IsPositive() || item.ValorUnitario.IsNegative() {
			return nil, fmt.Errorf("%w: item fora das invariantes", ErrRespostaInvalida)
		}
	}
	return itens, nil
}

// limparCercaJSON remove cercas de markdown que alguns modelos insistem em devolver.
func limparCercaJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
