package recorrencia

import (
	"context"
	"time"

	"github.com/FaturaSimples/api-faturamento/internal/consulta"
	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de recorrências. Implementa
// ArmazenamentoRecorrencias para o agendador.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Criar insere uma nova recorrência com seus itens.
func (r *Repository) Criar(ctx context.Context, rec *Recorrencia) error {
	return r.DB.WithContext(ctx).Create(rec).Error
}

// ListarPorUsuario retorna as recorrências do usuário com itens,
// ordenadas por data de início ascendente.
func (r *Repository) ListarPorUsuario(ctx context.Context, usuarioID string) ([]Recorrencia, error) {
	var list []Recorrencia
	c := consulta.Nova().
		Igual("usuario_id", usuarioID).
		OrdenarPor("data_inicio", true)
	err := c.Aplicar(r.DB.WithContext(ctx)).Preload("Itens").Find(&list).Error
	return list, err
}

// BuscarPorID busca uma recorrência do usuário pelo ID.
func (r *Repository) BuscarPorID(ctx context.Context, usuarioID, id string) (*Recorrencia, error) {
	var rec Recorrencia
	c := consulta.Nova().
		Igual("id", id).
		Igual("usuario_id", usuarioID)
	if err := c.Aplicar(r.DB.WithContext(ctx)).Preload("Itens").First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Atualizar regrava a recorrência, substituindo os itens pelos informados.
func (r *Repository) Atualizar(ctx context.Context, rec *Recorrencia) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recorrencia_id = ?", rec.ID).Delete(&ItemRecorrencia{}).Error; err != nil {
			return err
		}
		for i := range rec.Itens {
			rec.Itens[i].ID = ""
			rec.Itens[i].RecorrenciaID = rec.ID
		}
		if err := tx.Omit("Itens").Save(rec).Error; err != nil {
			return err
		}
		if len(rec.Itens) > 0 {
			if err := tx.Create(&rec.Itens).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AvancarCursor grava o cursor (data da ocorrência faturada) e o status,
// sem tocar nos demais campos.
func (r *Repository) AvancarCursor(ctx context.Context, id string, dataOcorrencia time.Time, status string) error {
	return r.DB.WithContext(ctx).Model(&Recorrencia{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ultima_geracao": dataOcorrencia,
			"status":         status,
		}).Error
}

// AtualizarStatus grava apenas o status.
func (r *Repository) AtualizarStatus(ctx context.Context, id, status string) error {
	return r.DB.WithContext(ctx).Model(&Recorrencia{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Deletar remove a recorrência do usuário. Faturas já geradas não são
// retraídas. Retorna gorm.ErrRecordNotFound se nada foi deletado.
func (r *Repository) Deletar(ctx context.Context, usuarioID, id string) error {
	res := r.DB.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Delete(&Recorrencia{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
