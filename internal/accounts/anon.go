package accounts

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// AnonymousName is the placeholder shown for customers created without a name.
const AnonymousName = "Cliente anónimo"

const anonEmailDomain = "local"

// anonymousEmail synthesizes a unique throwaway address for customers created
// without identity or email. Timestamp plus random suffix keeps concurrent
// anonymous checkouts from colliding.
func anonymousEmail() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating anonymous email token: %w", err)
	}
	token := fmt.Sprintf("%d%s", time.Now().UnixNano(), hex.EncodeToString(buf))
	return fmt.Sprintf("anon_%s@%s", token, anonEmailDomain), nil
}
