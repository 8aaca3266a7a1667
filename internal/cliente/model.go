package cliente

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente representa um cliente faturável de um usuário.
type Cliente struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	UsuarioID string `gorm:"type:uuid;not null;index" json:"usuarioId"`

	Nome      string `gorm:"size:255;not null" json:"nome"`
	Documento string `gorm:"size:20" json:"documento"` // CPF ou CNPJ
	Email     string `gorm:"size:255" json:"email"`
	Telefone  string `gorm:"size:30" json:"telefone"`
	Endereco  string `gorm:"size:512" json:"endereco"`
	Foto      string `json:"foto"` // URL do avatar
}

func (c *Cliente) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Cliente{})
}
