package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"

	"github.com/packlens/apkg/container"
	apkgerr "github.com/packlens/apkg/errors"
)

// Encrypted-container envelope constants. Like the plain layout these are
// externally fixed; see the package documentation for the shape.
const (
	// Tag is the version tag opening an encrypted container. It deliberately
	// differs from the plain magic marker in the first byte.
	Tag = "APKGE1"

	// SaltSize is the length of the cleartext salt fragment after the tag.
	SaltSize = 16

	// IVSize is the CBC initialization vector length.
	IVSize = 16

	envelopeSize = len(Tag) + SaltSize + IVSize
)

// IsEncrypted reports whether data carries the encrypted-container version
// tag rather than the plain magic marker.
func IsEncrypted(data []byte) bool {
	return len(data) >= len(Tag) && string(data[:len(Tag)]) == Tag
}

// Salt extracts the cleartext salt fragment from an encrypted container.
func Salt(data []byte) ([]byte, error) {
	if !IsEncrypted(data) {
		return nil, apkgerr.Decryption("missing encrypted-container tag", nil)
	}
	if len(data) < envelopeSize {
		return nil, apkgerr.Decryption("encrypted container shorter than envelope", nil)
	}
	return data[len(Tag) : len(Tag)+SaltSize], nil
}

// DeriveKey derives the AES-256 key for one application: an HMAC-SHA256 over
// the application identifier, keyed with the container's salt fragment.
func DeriveKey(salt []byte, appID string) []byte {
	mac := hmac.New(sha256.New, salt)
	mac.Write([]byte(appID))
	return mac.Sum(nil)
}

// Decrypt decrypts an encrypted container with the given key and returns the
// plaintext container bytes. The plaintext magic marker is re-validated: a
// wrong key must fail here, never pass through as corrupt output.
func Decrypt(data, key []byte) ([]byte, error) {
	if len(data) < envelopeSize {
		return nil, apkgerr.Decryption("encrypted container shorter than envelope", nil)
	}
	iv := data[len(Tag)+SaltSize : envelopeSize]
	body := data[envelopeSize:]

	if len(body) == 0 || len(body)%aes.BlockSize != 0 {
		return nil, apkgerr.Decryption("ciphertext is not a whole number of blocks", nil)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apkgerr.Decryption("create cipher", err)
	}

	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)

	plain, err = stripPadding(plain)
	if err != nil {
		return nil, err
	}
	if len(plain) == 0 || plain[0] != container.Magic {
		return nil, apkgerr.Decryption("decrypted bytes lack the container magic marker", nil)
	}
	return plain, nil
}

// stripPadding removes and validates PKCS#7 padding.
func stripPadding(plain []byte) ([]byte, error) {
	n := int(plain[len(plain)-1])
	if n == 0 || n > aes.BlockSize || n > len(plain) {
		return nil, apkgerr.Decryption("invalid padding", nil)
	}
	for _, b := range plain[len(plain)-n:] {
		if int(b) != n {
			return nil, apkgerr.Decryption("invalid padding", nil)
		}
	}
	return plain[:len(plain)-n], nil
}
