package usuario

import (
	"encoding/json"
	"net/http"

	"github.com/FaturaSimples/api-faturamento/internal/auth"
	"github.com/FaturaSimples/api-faturamento/internal/utils"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

type registrarRequest struct {
	Nome      string `json:"nome"`
	Sobrenome string `json:"sobrenome"`
	Email     string `json:"email"`
	Telefone  string `json:"telefone"`
	Senha     string `json:"senha"`
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type loginResponse struct {
	Token   string   `json:"token"`
	Usuario *Usuario `json:"usuario"`
}

// POST /registrar
func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	var body registrarRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if body.Email == "" || len(body.Senha) < 8 {
		http.Error(w, "Email e senha (mínimo 8 caracteres) são obrigatórios", http.StatusBadRequest)
		return
	}
	hash, err := utils.HashSenha(body.Senha)
	if err != nil {
		http.Error(w, "Erro ao processar senha", http.StatusInternalServerError)
		return
	}
	u := &Usuario{
		Nome:      body.Nome,
		Sobrenome: body.Sobrenome,
		Email:     body.Email,
		Telefone:  body.Telefone,
		Senha:     hash,
	}
	if err := h.Repo.Criar(r.Context(), u); err != nil {
		http.Error(w, "Email já cadastrado", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(u)
}

// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	u, err := h.Repo.BuscarPorEmail(r.Context(), body.Email)
	if err != nil || !utils.VerificarSenha(u.Senha, body.Senha) {
		http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
		return
	}
	token, err := auth.GerarToken(u.ID)
	if err != nil {
		http.Error(w, "Erro ao gerar token", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{Token: token, Usuario: u})
}

// GET /perfil
func (h *Handler) Perfil(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	u, err := h.Repo.BuscarPorID(r.Context(), usuarioID)
	if err != nil {
		http.Error(w, "Usuário não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}
