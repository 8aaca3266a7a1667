package recorrencia

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Frequencia é a unidade de calendário da cadência. Enumeração fechada;
// o mapeamento para a aritmética de datas está em calendario.go.
type Frequencia string

const (
	FrequenciaDiaria  Frequencia = "diaria"
	FrequenciaSemanal Frequencia = "semanal"
	FrequenciaMensal  Frequencia = "mensal"
	FrequenciaAnual   Frequencia = "anual"
)

func (f Frequencia) Valida() bool {
	switch f {
	case FrequenciaDiaria, FrequenciaSemanal, FrequenciaMensal, FrequenciaAnual:
		return true
	}
	return false
}

// Status do ciclo de vida. ativa↔pausada é reversível; concluida é terminal.
const (
	StatusAtiva     = "ativa"
	StatusPausada   = "pausada"
	StatusConcluida = "concluida"
)

// Recorrencia é um modelo de fatura que dispara em uma cadência:
// a cada Intervalo unidades de Frequencia a partir de DataInicio.
// UltimaGeracao é o cursor: a data de ocorrência da fatura mais recente
// materializada; nil significa que nunca gerou.
type Recorrencia struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	UsuarioID   string `gorm:"type:uuid;not null;index" json:"usuarioId"`
	ClienteID   string `gorm:"type:uuid;not null;index" json:"clienteId"`
	NomeCliente string `gorm:"size:255" json:"nomeCliente"`

	Itens      []ItemRecorrencia `gorm:"foreignKey:RecorrenciaID;constraint:OnDelete:CASCADE" json:"itens"`
	ValorTotal decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"valorTotal"`

	Frequencia Frequencia `gorm:"size:20;not null" json:"frequencia"`
	Intervalo  int        `gorm:"not null;default:1" json:"intervalo"`

	DataInicio    time.Time  `gorm:"type:date;not null" json:"dataInicio"`
	DataFim       *time.Time `gorm:"type:date" json:"dataFim,omitempty"`
	UltimaGeracao *time.Time `gorm:"type:date" json:"ultimaGeracao,omitempty"`

	Status string `gorm:"size:20;not null;default:'ativa';index" json:"status"`
}

// ItemRecorrencia é uma linha de cobrança do modelo.
type ItemRecorrencia struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	RecorrenciaID string          `gorm:"type:uuid;not null;index" json:"recorrenciaId"`
	Descricao     string          `gorm:"size:255;not null" json:"descricao"`
	Quantidade    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"quantidade"`
	ValorUnitario decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valorUnitario"`
}

func (r *Recorrencia) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (i *ItemRecorrencia) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// RecalcularTotal refaz ValorTotal = Σ quantidade × valor unitário.
// Deve ser chamado sempre que Itens mudar.
func (r *Recorrencia) RecalcularTotal() {
	total := decimal.Zero
	for _, item := range r.Itens {
		total = total.Add(item.Quantidade.Mul(item.ValorUnitario))
	}
	r.ValorTotal = total
}

var (
	ErrSemItens           = errors.New("recorrência sem itens")
	ErrIntervaloInvalido  = errors.New("intervalo deve ser maior ou igual a 1")
	ErrFrequenciaInvalida = errors.New("frequência desconhecida")
	ErrJanelaInvalida     = errors.New("data final anterior à data de início")
	ErrCursorInvalido     = errors.New("cursor anterior à data de início")
)

// Validar confere as invariantes da recorrência. O agendador chama antes de
// processar; violações viram erros por recorrência, nunca derrubam a execução.
func (r *Recorrencia) Validar() error {
	if len(r.Itens) == 0 {
		return ErrSemItens
	}
	if r.Intervalo < 1 {
		return ErrIntervaloInvalido
	}
	if !r.Frequencia.Valida() {
		return fmt.Errorf("%w: %q", ErrFrequenciaInvalida, r.Frequencia)
	}
	if r.DataFim != nil && r.DataFim.Before(r.DataInicio) {
		return ErrJanelaInvalida
	}
	if r.UltimaGeracao != nil && r.UltimaGeracao.Before(r.DataInicio) {
		return ErrCursorInvalido
	}
	for _, item := range r.Itens {
		if !item.Quantidade.IsPositive() {
			return fmt.Errorf("item %q com quantidade não positiva", item.Descricao)
		}
		if item.ValorUnitario.IsNegative() {
			return fmt.Errorf("item %q com valor unitário negativo", item.Descricao)
		}
	}
	return nil
}

// ProximaOcorrencia calcula a próxima data elegível. Sem cursor, a primeira
// ocorrência é a própria DataInicio, não DataInicio + intervalo.
func (r *Recorrencia) ProximaOcorrencia() time.Time {
	if r.UltimaGeracao == nil {
		return TruncarDia(r.DataInicio)
	}
	return AdicionarFrequencia(TruncarDia(*r.UltimaGeracao), r.Frequencia, r.Intervalo)
}

// Vencida informa se a recorrência tem uma ocorrência a gerar: o agora precisa
// ter passado estritamente da data elegível, e a data elegível precisa estar
// dentro da janela (antes de DataFim, quando definida).
func (r *Recorrencia) Vencida(agora time.Time) bool {
	ocorrencia := r.ProximaOcorrencia()
	if !agora.After(ocorrencia) {
		return false
	}
	if r.DataFim != nil && !ocorrencia.Before(TruncarDia(*r.DataFim)) {
		return false
	}
	return true
}

// Migrate cria as tabelas no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Recorrencia{}, &ItemRecorrencia{})
}
