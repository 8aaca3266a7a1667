package recorrencia

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FaturaSimples/api-faturamento/internal/fatura"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* ============================== Dublês ============================== */

type recorrenciasFalsas struct {
	recs       []Recorrencia
	erroListar error
	erroCursor map[string]error
}

func (a *recorrenciasFalsas) ListarPorUsuario(_ context.Context, usuarioID string) ([]Recorrencia, error) {
	if a.erroListar != nil {
		return nil, a.erroListar
	}
	var out []Recorrencia
	for _, r := range a.recs {
		if r.UsuarioID == usuarioID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (a *recorrenciasFalsas) AvancarCursor(_ context.Context, id string, dataOcorrencia time.Time, status string) error {
	if err := a.erroCursor[id]; err != nil {
		return err
	}
	for i := range a.recs {
		if a.recs[i].ID == id {
			d := dataOcorrencia
			a.recs[i].UltimaGeracao = &d
			a.recs[i].Status = status
		}
	}
	return nil
}

func (a *recorrenciasFalsas) AtualizarStatus(_ context.Context, id, status string) error {
	for i := range a.recs {
		if a.recs[i].ID == id {
			a.recs[i].Status = status
		}
	}
	return nil
}

func (a *recorrenciasFalsas) porID(id string) *Recorrencia {
	for i := range a.recs {
		if a.recs[i].ID == id {
			return &a.recs[i]
		}
	}
	return nil
}

type faturasFalsas struct {
	criadas []fatura.Fatura
	erroPor map[string]error // por ID de recorrência
}

func (f *faturasFalsas) Criar(_ context.Context, fat *fatura.Fatura) error {
	if fat.RecorrenciaID != nil {
		if err := f.erroPor[*fat.RecorrenciaID]; err != nil {
			return err
		}
	}
	f.criadas = append(f.criadas, *fat)
	return nil
}

func novoAgendadorDeTeste(recs *recorrenciasFalsas, fats *faturasFalsas) *Agendador {
	return NovoAgendador(recs, fats, zerolog.Nop())
}

func novaRecorrencia(id string, freq Frequencia, intervalo int, inicio time.Time) Recorrencia {
	rec := recorrenciaValida()
	rec.ID = id
	rec.Frequencia = freq
	rec.Intervalo = intervalo
	rec.DataInicio = inicio
	rec.RecalcularTotal()
	return rec
}

/* ============================== Casos ============================== */

func TestExecutarPrimeiraOcorrenciaNaDataDeInicio(t *testing.T) {
	recs := &recorrenciasFalsas{recs: []Recorrencia{
		novaRecorrencia("r1", FrequenciaMensal, 1, data(2024, time.May, 10)),
	}}
	fats := &faturasFalsas{}

	rel, err := novoAgendadorDeTeste(recs, fats).Executar(context.Background(), "usr-1", data(2024, time.May, 11))

	require.NoError(t, err)
	assert.Equal(t, 1, rel.Geradas)
	assert.Empty(t, rel.Erros)
	require.Len(t, fats.criadas, 1)
	assert.Equal(t, data(2024, time.May, 10), fats.criadas[0].Data, "fatura datada da ocorrência, não do agora")
	require.NotNil(t, recs.porID("r1").UltimaGeracao)
	assert.Equal(t, data(2024, time.May, 10), *recs.porID("r1").UltimaGeracao)
}

func TestExecutarAntesDoInicioNaoGera(t *testing.T) {
	recs := &recorrenciasFalsas{recs: []Recorrencia{
		novaRecorrencia("r1", FrequenciaMensal, 1, data(2024, time.May, 10)),
	}}
	fats := &faturasFalsas{}

	rel, err := novoAgendadorDeTeste(recs, fats).Executar(context.Background(), "usr-1", data(2024, time.May, 9))

	require.NoError(t, err)
	assert.Equal(t, 0, rel.Geradas)
	assert.Empty(t, fats.criadas)
	assert.Nil(t, recs.porID("r1").UltimaGeracao)
}

// Uma ocorrência por execução, mesmo com vários intervalos vencidos.
func TestExecutarNaoRecuperaPeriodosPerdidos(t *testing.T) {
	rec := novaRecorrencia("r1", FrequenciaSemanal, 2, data(2024, time.May, 6))
	cursor := data(2024, time.June, 3)
	rec.UltimaGeracao = &cursor
	recs := &recorrenciasFalsas{recs: []Recorrencia{rec}}
	fats := &faturasFalsas{}

	rel, err := novoAgendadorDeTeste(recs, fats).Executar(context.Background(), "usr-1", data(2024, time.June, 20))

	require.NoError(t, err)
	assert.Equal(t, 1, rel.Geradas)
	require.Len(t, fats.criadas, 1)
	assert.Equal(t, data(2024, time.June, 17), fats.criadas[0].Data, "apenas a próxima ocorrência, sem recuperar as demais")
	assert.Equal(t, data(2024, time.June, 17), *recs.porID("r1").UltimaGeracao)
}

// Duas execuções seguidas sem o tempo passar geram no máximo uma fatura.
func TestExecutarIdempotente(t *testing.T) {
	recs := &recorrenciasFalsas{recs: []Recorrencia{
		novaRecorrencia("r1", FrequenciaMensal, 1, data(2024, time.May, 10)),
	}}
	fats := &faturasFalsas{}
	agendador := novoAgendadorDeTeste(recs, fats)
	agora := data(2024, time.May, 11)

	rel1, err := agendador.Executar(context.Background(), "usr-1", agora)
	require.NoError(t, err)
	rel2, err := agendador.Executar(context.Background(), "usr-1", agora)
	require.NoError(t, err)

	assert.Equal(t, 1, rel1.Geradas+rel2.Geradas)
	assert.Len(t, fats.criadas, 1)
}

func TestExecutarIgnoraPausadasEConcluidas(t *testing.T) {
	pausada := novaRecorrencia("r1", FrequenciaMensal, 1, data(2024, time.January, 1))
	pausada.Status = StatusPausada
	concluida := novaRecorrencia("r2", FrequenciaMensal, 1, data(2024, time.January, 1))
	concluida.Status = StatusConcluida
	recs := &recorrenciasFalsas{recs: []Recorrencia{pausada, concluida}}
	fats := &faturasFalsas{}

	rel, err := novoAgendadorDeTeste(recs, fats).Executar(context.Background(), "usr-1", data(2025, time.January, 1))

	require.NoError(t, err)
	assert.Equal(t, 0, rel.Geradas)
	assert.Empty(t, rel.Erros)
	assert.Empty(t, fats.criadas)
	assert.Nil(t, recs.porID("r1").UltimaGeracao, "pausada não sofre avanço de cursor")
	assert.Nil(t, recs.porID("r2").UltimaGeracao)
}

// Cenário do ano bissexto: 31/jan + 1 mês ajusta para 29/fev.
func TestExecutarAjusteFimDeMes(t *testing.T) {
	rec := novaRecorrencia("r1", FrequenciaMensal, 1, data(2024, time.January, 31))
	cursor := data(2024, time.January, 31)
	rec.UltimaGeracao = &cursor
	recs := &recorrenciasFalsas{recs: []Recorrencia{rec}}
	fats := &faturasFalsas{}

	rel, err := novoAgendadorDeTeste(recs, fats).Executar(context.Background(), "usr-1", data(2024, time.March, 1))

	require.NoError(t, err)
	assert.Equal(t, 1, rel.Geradas)
	require.Len(t, fats.criadas, 1)
	assert.Equal(t, data(2024, time.February, 29), fats.criadas[0].Data)
	assert.Equal(t, data(2024, time.February, 29), *recs.porID("r1").UltimaGeracao)
}

// Gerada a última ocorrência da janela, a recorrência conclui e não dispara mais.
func TestExecutarConcluiAposUltimaOcorrencia(t *testing.T) {
	rec := novaRecorrencia("r1", FrequenciaMensal, 1, data(2024, time.January, 10))
	cursor := data(2024, time.February, 10)
	rec.UltimaGeracao = &cursor
	fim := data(2024, time.April, 1) // a ocorrência de 10/mar é a última antes do fim
	rec.DataFim = &fim
	recs := &recorrenciasFalsas{recs: []Recorrencia{rec}}
	fats := &faturasFalsas{}
	agendador := novoAgendadorDeTeste(recs, fats)

	rel, err := agendador.Executar(context.Background(), "usr-1", data(2024, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, rel.Geradas)
	require.Len(t, fats.criadas, 1)
	assert.Equal(t, data(2024, time.March, 10), fats.criadas[0].Data)
	assert.Equal(t, StatusConcluida, recs.porID("r1").Status)

	// Nova execução: concluída é terminal, nada mais sai.
	rel2, err := agendador.Executar(context.Background(), "usr-1", data(2024, time.December, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, rel2.Geradas)
	assert.Len(t, fats.criadas, 1)
}

// Janela já esgotada ao avaliar: conclui sem gerar.
func TestExecutarConcluiSemGerarQuandoJanelaEsgotada(t *testing.T) {
	rec := novaRecorrencia("r1", FrequenciaMensal, 1, data(2024, time.January, 10))
	cursor := data(2024, time.March, 10)
	rec.UltimaGeracao = &cursor
	fim := data(2024, time.April, 1) // próxima ocorrência (10/abr) cai após o fim
	rec.DataFim = &fim
	recs := &recorrenciasFalsas{recs: []Recorrencia{rec}}
	fats := &faturasFalsas{}

	rel, err := novoAgendadorDeTeste(recs, fats).Executar(context.Background(), "usr-1", data(2024, time.June, 1))

	require.NoError(t, err)
	assert.Equal(t, 0, rel.Geradas)
	assert.Empty(t, fats.criadas)
	assert.Equal(t, StatusConcluida, recs.porID("r1").Status)
	assert.Equal(t, data(2024, time.March, 10), *recs.porID("r1").UltimaGeracao, "cursor não é tocado")
}

// Falha de persistência em uma recorrência não bloqueia as irmãs.
func TestExecutarIsolaFalhasPorRecorrencia(t *testing.T) {
	recs := &recorrenciasFalsas{recs: []Recorrencia{
		novaRecorrencia("r1", FrequenciaMensal, 1, data(2024, time.January, 1)),
		novaRecorrencia("r2", FrequenciaMensal, 1, data(2024, time.January, 1)),
	}}
	fats := &faturasFalsas{erroPor: map[string]error{"r1": errors.New("timeout no banco")}}

	rel, err := novoAgendadorDeTeste(recs, fats).Executar(context.Background(), "usr-1", data(2024, time.January, 2))

	require.NoError(t, err)
	assert.Equal(t, 1, rel.Geradas)
	require.Len(t, rel.Erros, 1)
	assert.Equal(t, "r1", rel.Erros[0].RecorrenciaID)
	assert.Contains(t, rel.Erros[0].Mensagem, "timeout no banco")
	require.Len(t, fats.criadas, 1)
	assert.Equal(t, "r2", *fats.criadas[0].RecorrenciaID)
	assert.Nil(t, recs.porID("r1").UltimaGeracao, "cursor não avança sem fatura persistida")
}

// Falha ao avançar o cursor vira erro no relatório; a fatura fica (at-least-once).
func TestExecutarFalhaNoCursor(t *testing.T) {
	recs := &recorrenciasFalsas{
		recs:       []Recorrencia{novaRecorrencia("r1", FrequenciaMensal, 1, data(2024, time.January, 1))},
		erroCursor: map[string]error{"r1": errors.New("conexão perdida")},
	}
	fats := &faturasFalsas{}

	rel, err := novoAgendadorDeTeste(recs, fats).Executar(context.Background(), "usr-1", data(2024, time.January, 2))

	require.NoError(t, err)
	assert.Equal(t, 0, rel.Geradas)
	require.Len(t, rel.Erros, 1)
	assert.Len(t, fats.criadas, 1, "a fatura já tinha sido persistida")
	assert.Nil(t, recs.porID("r1").UltimaGeracao)
}

// Recorrência malformada vira erro no relatório e as demais seguem.
func TestExecutarRecorrenciaMalformada(t *testing.T) {
	quebrada := novaRecorrencia("r1", FrequenciaMensal, 1, data(2024, time.January, 1))
	quebrada.Itens = nil
	recs := &recorrenciasFalsas{recs: []Recorrencia{
		quebrada,
		novaRecorrencia("r2", FrequenciaMensal, 1, data(2024, time.January, 1)),
	}}
	fats := &faturasFalsas{}

	rel, err := novoAgendadorDeTeste(recs, fats).Executar(context.Background(), "usr-1", data(2024, time.January, 2))

	require.NoError(t, err)
	assert.Equal(t, 1, rel.Geradas)
	require.Len(t, rel.Erros, 1)
	assert.Equal(t, "r1", rel.Erros[0].RecorrenciaID)
}

// Indisponibilidade do armazenamento aborta a execução inteira.
func TestExecutarStoreIndisponivel(t *testing.T) {
	recs := &recorrenciasFalsas{erroListar: errors.New("conexão recusada")}
	fats := &faturasFalsas{}

	rel, err := novoAgendadorDeTeste(recs, fats).Executar(context.Background(), "usr-1", data(2024, time.January, 2))

	require.ErrorIs(t, err, ErrStoreIndisponivel)
	assert.Nil(t, rel)
	assert.Empty(t, fats.criadas)
}

// O escopo por usuário é respeitado: recorrências de outros donos ficam de fora.
func TestExecutarEscopoPorUsuario(t *testing.T) {
	deOutro := novaRecorrencia("r2", FrequenciaMensal, 1, data(2024, time.January, 1))
	deOutro.UsuarioID = "usr-2"
	recs := &recorrenciasFalsas{recs: []Recorrencia{
		novaRecorrencia("r1", FrequenciaMensal, 1, data(2024, time.January, 1)),
		deOutro,
	}}
	fats := &faturasFalsas{}

	rel, err := novoAgendadorDeTeste(recs, fats).Executar(context.Background(), "usr-1", data(2024, time.January, 2))

	require.NoError(t, err)
	assert.Equal(t, 1, rel.Geradas)
	require.Len(t, fats.criadas, 1)
	assert.Equal(t, "usr-1", fats.criadas[0].UsuarioID)
}
