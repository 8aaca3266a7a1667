package recorrencia

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FaturaSimples/api-faturamento/internal/fatura"
	"github.com/rs/zerolog"
)

// ErrStoreIndisponivel indica que as recorrências não puderam ser listadas.
// É fatal para a execução inteira: nada foi gerado, nada há para reconciliar.
var ErrStoreIndisponivel = errors.New("armazenamento de recorrências indisponível")

// ArmazenamentoRecorrencias é o acesso de que o agendador precisa sobre a
// coleção de recorrências.
type ArmazenamentoRecorrencias interface {
	// ListarPorUsuario retorna as recorrências do usuário, com itens,
	// ordenadas por data de início ascendente.
	ListarPorUsuario(ctx context.Context, usuarioID string) ([]Recorrencia, error)
	// AvancarCursor grava a data da ocorrência recém-faturada e o novo status.
	AvancarCursor(ctx context.Context, id string, dataOcorrencia time.Time, status string) error
	// AtualizarStatus grava apenas o status.
	AtualizarStatus(ctx context.Context, id, status string) error
}

// ArmazenamentoFaturas é o acesso de escrita à coleção de faturas.
type ArmazenamentoFaturas interface {
	Criar(ctx context.Context, f *fatura.Fatura) error
}

// ErroGeracao registra a falha de uma única recorrência dentro da execução.
type ErroGeracao struct {
	RecorrenciaID string `json:"recorrenciaId"`
	Mensagem      string `json:"mensagem"`
}

// RelatorioGeracao resume uma execução do agendador.
type RelatorioGeracao struct {
	Geradas int           `json:"geradas"`
	Erros   []ErroGeracao `json:"erros"`
}

// Agendador decide quais recorrências estão vencidas, materializa uma fatura
// para cada uma e avança o cursor correspondente.
type Agendador struct {
	recorrencias ArmazenamentoRecorrencias
	faturas      ArmazenamentoFaturas
	log          zerolog.Logger
}

func NovoAgendador(recs ArmazenamentoRecorrencias, fats ArmazenamentoFaturas, log zerolog.Logger) *Agendador {
	return &Agendador{recorrencias: recs, faturas: fats, log: log}
}

// Executar processa as recorrências do usuário no instante informado.
//
// Cada recorrência ativa é avaliada de forma independente: falha de
// persistência em uma vira erro no relatório e não bloqueia as demais. Por
// execução, no máximo uma ocorrência é gerada por recorrência, mesmo que
// vários intervalos tenham passado — a recuperação de períodos perdidos fica
// a cargo de execuções seguintes, uma ocorrência por vez (limitação
// conhecida, não corrigida aqui).
//
// O cursor só avança depois da fatura persistida. Se o processo cair entre as
// duas escritas, a próxima execução pode duplicar a fatura daquela ocorrência
// (semântica at-least-once, aceita neste escopo).
func (a *Agendador) Executar(ctx context.Context, usuarioID string, agora time.Time) (*RelatorioGeracao, error) {
	recs, err := a.recorrencias.ListarPorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreIndisponivel, err)
	}

	relatorio := &RelatorioGeracao{}
	for i := range recs {
		rec := &recs[i]
		if rec.Status != StatusAtiva {
			continue
		}
		gerou, err := a.processar(ctx, rec, agora)
		if err != nil {
			a.log.Warn().Str("recorrencia_id", rec.ID).Err(err).Msg("recorrência pulada nesta execução")
			relatorio.Erros = append(relatorio.Erros, ErroGeracao{RecorrenciaID: rec.ID, Mensagem: err.Error()})
			continue
		}
		if gerou {
			relatorio.Geradas++
		}
	}
	a.log.Info().
		Str("usuario_id", usuarioID).
		Int("geradas", relatorio.Geradas).
		Int("erros", len(relatorio.Erros)).
		Msg("execução do agendador concluída")
	return relatorio, nil
}

// processar avalia uma única recorrência ativa e gera no máximo uma fatura.
func (a *Agendador) processar(ctx context.Context, rec *Recorrencia, agora time.Time) (bool, error) {
	if err := rec.Validar(); err != nil {
		return false, fmt.Errorf("recorrência malformada: %w", err)
	}

	ocorrencia := rec.ProximaOcorrencia()

	// Janela esgotada: a ocorrência calculada cai em ou após DataFim.
	// Conclui sem gerar; concluida é terminal.
	if rec.DataFim != nil && !ocorrencia.Before(TruncarDia(*rec.DataFim)) {
		if err := a.recorrencias.AtualizarStatus(ctx, rec.ID, StatusConcluida); err != nil {
			return false, fmt.Errorf("falha ao concluir recorrência: %w", err)
		}
		rec.Status = StatusConcluida
		return false, nil
	}

	if !agora.After(ocorrencia) {
		return false, nil
	}

	f := Materializar(rec, ocorrencia)
	if err := a.faturas.Criar(ctx, f); err != nil {
		return false, fmt.Errorf("falha ao persistir fatura: %w", err)
	}

	// A fatura persistiu; o cursor avança para a data da ocorrência (não para
	// o agora). Se a ocorrência seguinte já sairia da janela, conclui junto.
	status := StatusAtiva
	if rec.DataFim != nil {
		seguinte := AdicionarFrequencia(ocorrencia, rec.Frequencia, rec.Intervalo)
		if !seguinte.Before(TruncarDia(*rec.DataFim)) {
			status = StatusConcluida
		}
	}
	if err := a.recorrencias.AvancarCursor(ctx, rec.ID, ocorrencia, status); err != nil {
		return false, fmt.Errorf("fatura %s gerada, mas falha ao avançar cursor: %w", f.Numero, err)
	}
	rec.UltimaGeracao = &ocorrencia
	rec.Status = status

	a.log.Debug().
		Str("recorrencia_id", rec.ID).
		Str("fatura", f.Numero).
		Time("ocorrencia", ocorrencia).
		Msg("fatura materializada")
	return true, nil
}
