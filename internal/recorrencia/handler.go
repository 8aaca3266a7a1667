package recorrencia

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/FaturaSimples/api-faturamento/internal/auth"
	"github.com/FaturaSimples/api-faturamento/internal/notificacao"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// Handler expõe o CRUD de recorrências e o gatilho "gerar pendentes".
type Handler struct {
	Repo      *Repository
	Agendador *Agendador
}

func NewHandler(repo *Repository, agendador *Agendador) *Handler {
	return &Handler{Repo: repo, Agendador: agendador}
}

/* ============================== DTOs ============================== */

type itemDTO struct {
	Descricao     string          `json:"descricao"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valorUnitario"`
}

type recorrenciaDTO struct {
	ClienteID   string     `json:"clienteId"`
	NomeCliente string     `json:"nomeCliente"`
	Itens       []itemDTO  `json:"itens"`
	Frequencia  Frequencia `json:"frequencia"`
	Intervalo   int        `json:"intervalo"`
	DataInicio  string     `json:"dataInicio"` // AAAA-MM-DD
	DataFim     *string    `json:"dataFim"`    // AAAA-MM-DD, opcional
}

func (dto *recorrenciaDTO) paraModelo(usuarioID string) (*Recorrencia, error) {
	inicio, err := time.Parse("2006-01-02", dto.DataInicio)
	if err != nil {
		return nil, errors.New("dataInicio inválida, use AAAA-MM-DD")
	}
	var fim *time.Time
	if dto.DataFim != nil && *dto.DataFim != "" {
		f, err := time.Parse("2006-01-02", *dto.DataFim)
		if err != nil {
			return nil, errors.New("dataFim inválida, use AAAA-MM-DD")
		}
		f = TruncarDia(f)
		fim = &f
	}
	itens := make([]ItemRecorrencia, len(dto.Itens))
	for i, it := range dto.Itens {
		itens[i] = ItemRecorrencia{
			Descricao:     it.Descricao,
			Quantidade:    it.Quantidade,
			ValorUnitario: it.ValorUnitario,
		}
	}
	intervalo := dto.Intervalo
	if intervalo == 0 {
		intervalo = 1
	}
	rec := &Recorrencia{
		UsuarioID:   usuarioID,
		ClienteID:   dto.ClienteID,
		NomeCliente: dto.NomeCliente,
		Itens:       itens,
		Frequencia:  dto.Frequencia,
		Intervalo:   intervalo,
		DataInicio:  TruncarDia(inicio),
		DataFim:     fim,
		Status:      StatusAtiva,
	}
	rec.RecalcularTotal()
	return rec, nil
}

/* ============================== Endpoints ============================== */

// POST /recorrencias
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	var dto recorrenciaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	rec, err := dto.paraModelo(usuarioID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := rec.Validar(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Repo.Criar(r.Context(), rec); err != nil {
		http.Error(w, "Erro ao salvar recorrência", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(rec)
}

// GET /recorrencias
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	list, err := h.Repo.ListarPorUsuario(r.Context(), usuarioID)
	if err != nil {
		http.Error(w, "Erro ao listar recorrências", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GET /recorrencias/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	rec, err := h.Repo.BuscarPorID(r.Context(), usuarioID, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Recorrência não encontrada", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rec)
}

// PUT /recorrencias/{id}
// Edição substitui itens e cadência; cursor e status não são tocados aqui.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	atual, err := h.Repo.BuscarPorID(r.Context(), usuarioID, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Recorrência não encontrada", http.StatusNotFound)
		return
	}
	var dto recorrenciaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	novo, err := dto.paraModelo(usuarioID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	novo.ID = atual.ID
	novo.Status = atual.Status
	novo.UltimaGeracao = atual.UltimaGeracao
	if err := novo.Validar(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Repo.Atualizar(r.Context(), novo); err != nil {
		http.Error(w, "Erro ao atualizar recorrência", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(novo)
}

// DELETE /recorrencias/{id}
// Faturas já geradas permanecem.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	if err := h.Repo.Deletar(r.Context(), usuarioID, mux.Vars(r)["id"]); err != nil {
		http.Error(w, "Recorrência não encontrada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PUT /recorrencias/{id}/pausar
func (h *Handler) Pausar(w http.ResponseWriter, r *http.Request) {
	h.transicionar(w, r, StatusAtiva, StatusPausada)
}

// PUT /recorrencias/{id}/retomar
func (h *Handler) Retomar(w http.ResponseWriter, r *http.Request) {
	h.transicionar(w, r, StatusPausada, StatusAtiva)
}

// PUT /recorrencias/{id}/concluir
// Conclusão manual; concluida é terminal.
func (h *Handler) Concluir(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	rec, err := h.Repo.BuscarPorID(r.Context(), usuarioID, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Recorrência não encontrada", http.StatusNotFound)
		return
	}
	if rec.Status == StatusConcluida {
		http.Error(w, "Recorrência já concluída", http.StatusConflict)
		return
	}
	if err := h.Repo.AtualizarStatus(r.Context(), rec.ID, StatusConcluida); err != nil {
		http.Error(w, "Erro ao atualizar status", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) transicionar(w http.ResponseWriter, r *http.Request, de, para string) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	rec, err := h.Repo.BuscarPorID(r.Context(), usuarioID, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Recorrência não encontrada", http.StatusNotFound)
		return
	}
	if rec.Status != de {
		http.Error(w, "Transição de status inválida", http.StatusConflict)
		return
	}
	if err := h.Repo.AtualizarStatus(r.Context(), rec.ID, para); err != nil {
		http.Error(w, "Erro ao atualizar status", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// POST /recorrencias/gerar
// Gatilho manual: executa o agendador para o usuário autenticado e devolve o
// relatório. Falhas por recorrência vêm no corpo; só a indisponibilidade do
// armazenamento aborta com 503.
func (h *Handler) Gerar(w http.ResponseWriter, r *http.Request) {
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return
	}
	relatorio, err := h.Agendador.Executar(r.Context(), usuarioID, time.Now())
	if err != nil {
		http.Error(w, "Armazenamento indisponível, nenhuma fatura gerada", http.StatusServiceUnavailable)
		return
	}
	notificacao.EnviarResumoGeracao(usuarioID, relatorio.Geradas, len(relatorio.Erros))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(relatorio)
}
