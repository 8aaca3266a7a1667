package utils

import (
	"crypto/rand"

	"golang.org/x/crypto/bcrypt"
)

// HashSenha gera um hash bcrypt para a senha informada.
func HashSenha(senha string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	return string(hash), err
}

// VerificarSenha compara hash bcrypt com a senha em texto puro.
func VerificarSenha(hash, senha string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha))
	return err == nil
}

// GerarNumeroFatura gera um número de fatura opaco: prefixo fixo "FAT-"
// seguido de 16 dígitos aleatórios. A probabilidade de colisão é desprezível.
func GerarNumeroFatura() string {
	const digitos = "0123456789"
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = digitos[int(b[i])%len(digitos)]
	}
	return "FAT-" + string(b)
}
