package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeRange spans [100000, 999999] so codes are always exactly six
// digits with no leading zero.
var codeRange = big.NewInt(900000)

// GenerateCode returns a uniformly random six-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", fmt.Errorf("otp: failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
