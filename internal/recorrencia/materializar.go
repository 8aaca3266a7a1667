package recorrencia

import (
	"time"

	"github.com/FaturaSimples/api-faturamento/internal/fatura"
	"github.com/FaturaSimples/api-faturamento/internal/utils"
)

// Materializar converte a recorrência e uma data de ocorrência em uma fatura
// concreta. Função pura, sem I/O: copia itens e total, emite na data da
// ocorrência com status pendente e guarda a referência à recorrência de origem.
func Materializar(rec *Recorrencia, dataOcorrencia time.Time) *fatura.Fatura {
	itens := make([]fatura.ItemFatura, len(rec.Itens))
	for i, item := range rec.Itens {
		itens[i] = fatura.ItemFatura{
			Descricao:     item.Descricao,
			Quantidade:    item.Quantidade,
			ValorUnitario: item.ValorUnitario,
		}
	}
	recID := rec.ID
	return &fatura.Fatura{
		UsuarioID:     rec.UsuarioID,
		Numero:        utils.GerarNumeroFatura(),
		ClienteID:     rec.ClienteID,
		NomeCliente:   rec.NomeCliente,
		Data:          TruncarDia(dataOcorrencia),
		Status:        fatura.StatusPendente,
		ValorTotal:    rec.ValorTotal,
		Itens:         itens,
		RecorrenciaID: &recID,
	}
}
