package ia

import (
	"encoding/json"
	"io"
	"net/http"
)

// Handler expõe os fluxos de IA. Qualquer serviço pode estar ausente quando a
// credencial correspondente não foi configurada; o endpoint responde 503.
type Handler struct {
	OCR      *ServicoOCR
	Extracao *ServicoExtracao
	Avatar   *ServicoAvatar
}

func NewHandler(ocr *ServicoOCR, extracao *ServicoExtracao, avatar *ServicoAvatar) *Handler {
	return &Handler{OCR: ocr, Extracao: extracao, Avatar: avatar}
}

type extrairItensRequest struct {
	Texto string `json:"texto"`
}

type avatarRequest struct {
	Descricao string `json:"descricao"`
}

// POST /ia/ocr — corpo é a imagem crua; resposta {"texto": ...}.
func (h *Handler) ExtrairTexto(w http.ResponseWriter, r *http.Request) {
	if h.OCR == nil {
		http.Error(w, "OCR não configurado", http.StatusServiceUnavailable)
		return
	}
	imagem, err := io.ReadAll(io.LimitReader(r.Body, 20<<20))
	if err != nil {
		http.Error(w, "Erro ao ler imagem", http.StatusBadRequest)
		return
	}
	texto, err := h.OCR.ExtrairTexto(r.Context(), imagem)
	if err != nil {
		http.Error(w, "Não foi possível extrair texto da imagem", http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"texto": texto})
}

// POST /ia/extrair-itens — {"texto": ...} vira itens estruturados.
func (h *Handler) ExtrairItens(w http.ResponseWriter, r *http.Request) {
	if h.Extracao == nil {
		http.Error(w, "Extração não configurada", http.StatusServiceUnavailable)
		return
	}
	var body extrairItensRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	itens, err := h.Extracao.ExtrairItens(r.Context(), body.Texto)
	if err != nil {
		http.Error(w, "Não foi possível estruturar os itens", http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(itens)
}

// POST /ia/avatar — {"descricao": ...} vira {"url": ...}.
func (h *Handler) GerarAvatar(w http.ResponseWriter, r *http.Request) {
	if h.Avatar == nil {
		http.Error(w, "Geração de avatar não configurada", http.StatusServiceUnavailable)
		return
	}
	var body avatarRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	url, err := h.Avatar.GerarAvatar(r.Context(), body.Descricao)
	if err != nil {
		http.Error(w, "Não foi possível gerar o avatar", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"url": url})
}
