package usuario

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Criar(ctx context.Context, u *Usuario) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repository) BuscarPorEmail(ctx context.Context, email string) (*Usuario, error) {
	var u Usuario
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) BuscarPorID(ctx context.Context, id string) (*Usuario, error) {
	var u Usuario
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// AtualizarFoto grava apenas a URL do avatar.
func (r *Repository) AtualizarFoto(ctx context.Context, id, foto string) error {
	return r.DB.WithContext(ctx).Model(&Usuario{}).
		Where("id = ?", id).
		Update("foto", foto).Error
}
