package fatura

import (
	"encoding/json"
	"net/http"

	"github.com/FaturaSimples/api-faturamento/internal/auth"
	"github.com/gorilla/mux"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

type atualizarStatusRequest struct {
	Status string `json:"status"`
}

// GET /faturas
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	list, err := h.Repo.ListarPorUsuario(r.Context(), usuarioID)
	if err != nil {
		http.Error(w, "Erro ao listar faturas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GET /faturas/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	f, err := h.Repo.BuscarPorID(r.Context(), usuarioID, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Fatura não encontrada", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(f)
}

// PUT /faturas/{id}/status
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	var body atualizarStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	switch body.Status {
	case StatusPendente, StatusPaga, StatusCancelada:
	default:
		http.Error(w, "Status desconhecido", http.StatusBadRequest)
		return
	}
	if err := h.Repo.AtualizarStatus(r.Context(), usuarioID, mux.Vars(r)["id"], body.Status); err != nil {
		http.Error(w, "Fatura não encontrada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DELETE /faturas/{id}
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	if err := h.Repo.Deletar(r.Context(), usuarioID, mux.Vars(r)["id"]); err != nil {
		http.Error(w, "Fatura não encontrada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}
