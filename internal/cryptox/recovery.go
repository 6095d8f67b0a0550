package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	recoveryAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	recoveryGroups    = 3
	recoveryGroupSize = 5
)

// GenerateRecoveryKey returns a new key such as "K9Z7P-LQ38A-D1X4B".
func GenerateRecoveryKey() (string, error) {
	max := big.NewInt(int64(len(recoveryAlphabet)))
	groups := make([]string, recoveryGroups)
	for g := range groups {
		var sb strings.Builder
		for range recoveryGroupSize {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", fmt.Errorf("generate recovery key: %w", err)
			}
			sb.WriteByte(recoveryAlphabet[n.Int64()])
		}
		groups[g] = sb.String()
	}
	return strings.Join(groups, "-"), nil
}

// ValidRecoveryKey reports whether key has the shape produced by
// GenerateRecoveryKey.
func ValidRecoveryKey(key string) bool {
	groups := strings.Split(key, "-")
	if len(groups) != recoveryGroups {
		return false
	}
	for _, g := range groups {
		if len(g) != recoveryGroupSize {
			return false
		}
		for i := 0; i < len(g); i++ {
			if !strings.ContainsRune(recoveryAlphabet, rune(g[i])) {
				return false
			}
		}
	}
	return true
}
