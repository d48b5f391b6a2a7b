package auth

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// LoadPublicKey reads an RSA public key from PEM bytes.
// Key material must never be logged.
func LoadPublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return key, nil
}

// LoadPublicKeyFile reads an RSA public key from a PEM file on disk.
func LoadPublicKeyFile(path string) (*rsa.PublicKey, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key file: %w", err)
	}
	return LoadPublicKey(pemBytes)
}

// LoadPrivateKey reads an RSA private key from PEM bytes.
// Only cmd/tokengen and tests mint tokens; the service itself never signs.
func LoadPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

// LoadPrivateKeyFile reads an RSA private key from a PEM file on disk.
func LoadPrivateKeyFile(path string) (*rsa.PrivateKey, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key file: %w", err)
	}
	return LoadPrivateKey(pemBytes)
}
