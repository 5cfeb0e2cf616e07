package transport

import (
	"crypto/rand"

	"golang.org/x/crypto/nacl/box"

	"sufec-tui/internal/model"
)

// GenerateKeyPair returns a fresh NaCl box keypair for ephemeral
// rotation. The core treats the material as opaque bytes.
func GenerateKeyPair() (pub, sec model.Key, err error) {
	pk, sk, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return model.Key(pk[:]), model.Key(sk[:]), nil
}
