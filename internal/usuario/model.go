package usuario

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Usuario é a identidade dona de clientes, faturas e recorrências.
type Usuario struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Nome      string `gorm:"size:100" json:"nome"`
	Sobrenome string `gorm:"size:100" json:"sobrenome"`
	Email     string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Telefone  string `gorm:"size:30" json:"telefone"`
	Foto      string `json:"foto"`
	Senha     string `gorm:"not null" json:"-"`
}

func (u *Usuario) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Usuario{})
}
