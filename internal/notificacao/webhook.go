package notificacao

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
)

// EnviarResumoGeracao publica o resumo de uma execução do agendador no
// webhook configurado em WEBHOOK_RESUMO_URL. Sem URL configurada, não faz
// nada. Falha de entrega é apenas logada; o resultado da execução já foi
// devolvido ao usuário.
func EnviarResumoGeracao(usuarioID string, geradas, erros int) {
	url := os.Getenv("WEBHOOK_RESUMO_URL")
	if url == "" {
		return
	}
	payload := map[string]interface{}{
		"usuarioId": usuarioID,
		"geradas":   geradas,
		"erros":     erros,
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Warn().Err(err).Msg("erro ao enviar webhook de resumo")
		return
	}
	defer resp.Body.Close()
}
