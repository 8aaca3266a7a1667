package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEVerificarSenha(t *testing.T) {
	hash, err := HashSenha("segredo-forte-123")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo-forte-123", hash)
	assert.True(t, VerificarSenha(hash, "segredo-forte-123"))
	assert.False(t, VerificarSenha(hash, "senha-errada"))
}

func TestGerarNumeroFatura(t *testing.T) {
	vistos := map[string]bool{}
	for i := 0; i < 100; i++ {
		numero := GerarNumeroFatura()
		require.True(t, strings.HasPrefix(numero, "FAT-"), "numero = %q", numero)
		require.Len(t, numero, len("FAT-")+16)
		for _, r := range numero[4:] {
			require.True(t, r >= '0' && r <= '9', "dígito inesperado em %q", numero)
		}
		assert.False(t, vistos[numero], "número repetido: %s", numero)
		vistos[numero] = true
	}
}
