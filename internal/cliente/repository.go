package cliente

import (
	"context"

	"github.com/FaturaSimples/api-faturamento/internal/consulta"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(ctx context.Context, c *Cliente) error
	ListarPorUsuario(ctx context.Context, usuarioID string) ([]Cliente, error)
	BuscarPorID(ctx context.Context, usuarioID, id string) (*Cliente, error)
	Atualizar(ctx context.Context, c *Cliente) error
	Deletar(ctx context.Context, usuarioID, id string) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Criar(ctx context.Context, c *Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repositoryImpl) ListarPorUsuario(ctx context.Context, usuarioID string) ([]Cliente, error) {
	var list []Cliente
	q := consulta.Nova().
		Igual("usuario_id", usuarioID).
		OrdenarPor("nome", true)
	err := q.Aplicar(r.db.WithContext(ctx)).Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPorID(ctx context.Context, usuarioID, id string) (*Cliente, error) {
	var c Cliente
	q := consulta.Nova().
		Igual("id", id).
		Igual("usuario_id", usuarioID)
	if err := q.Aplicar(r.db.WithContext(ctx)).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Atualizar(ctx context.Context, c *Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repositoryImpl) Deletar(ctx context.Context, usuarioID, id string) error {
	res := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Delete(&Cliente{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
