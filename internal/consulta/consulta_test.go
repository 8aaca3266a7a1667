package consulta

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dbDeTeste(t *testing.T) *gorm.DB {
	t.Helper()
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return gdb.Session(&gorm.Session{DryRun: true})
}

func sqlGerado(t *testing.T, c *Consulta) string {
	t.Helper()
	var dest []map[string]interface{}
	tx := c.Aplicar(dbDeTeste(t)).Table("recorrencias").Find(&dest)
	require.NoError(t, tx.Error)
	return tx.Statement.SQL.String()
}

func TestAplicarIgual(t *testing.T) {
	sql := sqlGerado(t, Nova().Igual("usuario_id", "usr-1"))
	assert.Contains(t, sql, "usuario_id = $1")
}

func TestAplicarFaixa(t *testing.T) {
	sql := sqlGerado(t, Nova().
		MaiorIgual("data_inicio", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
		MenorQue("data_inicio", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Contains(t, sql, "data_inicio >= $1")
	assert.Contains(t, sql, "data_inicio < $2")
}

func TestAplicarOrdenacao(t *testing.T) {
	sql := sqlGerado(t, Nova().OrdenarPor("data_inicio", true))
	assert.Contains(t, sql, "ORDER BY data_inicio ASC")

	sql = sqlGerado(t, Nova().OrdenarPor("data", false))
	assert.Contains(t, sql, "ORDER BY data DESC")
}

func TestAplicarLimite(t *testing.T) {
	sql := sqlGerado(t, Nova().Limitar(10))
	assert.Contains(t, sql, "LIMIT")
}

func TestAplicarEncadeado(t *testing.T) {
	sql := sqlGerado(t, Nova().
		Igual("usuario_id", "usr-1").
		Igual("status", "ativa").
		OrdenarPor("data_inicio", true).
		Limitar(5))
	assert.Contains(t, sql, "usuario_id = $1")
	assert.Contains(t, sql, "status = $2")
	assert.Contains(t, sql, "ORDER BY data_inicio ASC")
}

// Campos fora de [a-z0-9_] nunca chegam ao SQL.
func TestAplicarDescartaCampoInvalido(t *testing.T) {
	sql := sqlGerado(t, Nova().
		Igual("usuario_id; DROP TABLE faturas", "x").
		Igual("usuario_id", "usr-1").
		OrdenarPor("nome--", true))
	assert.NotContains(t, sql, "DROP TABLE")
	assert.NotContains(t, sql, "--")
	assert.Contains(t, sql, "usuario_id = $1")
}

func TestCampoValido(t *testing.T) {
	assert.True(t, campoValido("usuario_id"))
	assert.True(t, campoValido("data_inicio"))
	assert.False(t, campoValido(""))
	assert.False(t, campoValido("Nome"))
	assert.False(t, campoValido("id; --"))
	assert.False(t, campoValido("campo inválido"))
}
