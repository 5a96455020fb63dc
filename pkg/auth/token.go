package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// NewOpaqueToken gera um token hex aleatório com n bytes de entropia
func NewOpaqueToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("falha ao gerar token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken devolve o hash BLAKE2b-256 do token em hex. Só o hash é persistido.
func HashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
