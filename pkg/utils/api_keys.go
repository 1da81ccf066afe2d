package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const apiKeyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateAPIKey returns a new opaque key. The fp_ prefix makes keys
// recognizable in logs and support tickets.
func GenerateAPIKey() (string, error) {
	id, err := gonanoid.Generate(apiKeyAlphabet, 32)
	if err != nil {
		return "", err
	}
	return "fp_" + id, nil
}
