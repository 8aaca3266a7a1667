package fatura

import (
	"context"

	"github.com/FaturaSimples/api-faturamento/internal/consulta"
	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de faturas.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Criar insere uma nova fatura com seus itens.
func (r *Repository) Criar(ctx context.Context, f *Fatura) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

// ListarPorUsuario retorna as faturas do usuário, mais recentes primeiro.
func (r *Repository) ListarPorUsuario(ctx context.Context, usuarioID string) ([]Fatura, error) {
	var list []Fatura
	c := consulta.Nova().
		Igual("usuario_id", usuarioID).
		OrdenarPor("data", false)
	err := c.Aplicar(r.DB.WithContext(ctx)).Preload("Itens").Find(&list).Error
	return list, err
}

// BuscarPorID busca uma fatura do usuário pelo ID.
func (r *Repository) BuscarPorID(ctx context.Context, usuarioID, id string) (*Fatura, error) {
	var f Fatura
	c := consulta.Nova().
		Igual("id", id).
		Igual("usuario_id", usuarioID)
	if err := c.Aplicar(r.DB.WithContext(ctx)).Preload("Itens").First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// AtualizarStatus atualiza apenas o status de uma fatura do usuário.
func (r *Repository) AtualizarStatus(ctx context.Context, usuarioID, id, status string) error {
	res := r.DB.WithContext(ctx).Model(&Fatura{}).
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deletar remove a fatura do usuário; retorna gorm.ErrRecordNotFound se nada foi deletado.
func (r *Repository) Deletar(ctx context.Context, usuarioID, id string) error {
	res := r.DB.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Delete(&Fatura{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
