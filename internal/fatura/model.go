package fatura

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status de faturas geradas. Toda fatura nasce pendente.
const (
	StatusPendente  = "pendente"
	StatusPaga      = "paga"
	StatusCancelada = "cancelada"
)

// Fatura é um registro independente: uma vez criada, a exclusão da
// recorrência de origem não a retrai.
type Fatura struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	UsuarioID   string `gorm:"type:uuid;not null;index" json:"usuarioId"`
	Numero      string `gorm:"size:32;not null;uniqueIndex" json:"numero"`
	ClienteID   string `gorm:"type:uuid;not null;index" json:"clienteId"`
	NomeCliente string `gorm:"size:255" json:"nomeCliente"`

	Data       time.Time       `gorm:"type:date;not null" json:"data"`
	Status     string          `gorm:"size:20;not null;default:'pendente';index" json:"status"`
	ValorTotal decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valorTotal"`

	Itens []ItemFatura `gorm:"foreignKey:FaturaID;constraint:OnDelete:CASCADE" json:"itens"`

	// Referência à recorrência que gerou esta fatura, quando houver.
	RecorrenciaID *string `gorm:"type:uuid;index" json:"recorrenciaId,omitempty"`
}

// ItemFatura é uma linha da fatura, copiada da recorrência no momento da geração.
type ItemFatura struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	FaturaID      string          `gorm:"type:uuid;not null;index" json:"faturaId"`
	Descricao     string          `gorm:"size:255;not null" json:"descricao"`
	Quantidade    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"quantidade"`
	ValorUnitario decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valorUnitario"`
}

func (f *Fatura) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

func (i *ItemFatura) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Migrate cria as tabelas no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Fatura{}, &ItemFatura{})
}
