package password

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Charset is the alphabet used by [Generate]: lowercase letters and digits with
// ambiguous glyphs removed (i, l, o, 0, 1), so a suggested password survives
// manual transcription.
const Charset = "abcdefghjkmnpqrstuvwxyz23456789"

// Generate returns a random password of exactly length characters drawn from
// [Charset]. It uses crypto/rand because the result may become the user's actual
// credential; a predictable source is not acceptable here.
func Generate(length int) (string, error) {
	if length < 1 {
		return "", errors.New("password length must be >= 1")
	}

	var b strings.Builder
	b.Grow(length)

	max := big.NewInt(int64(len(Charset)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(Charset[n.Int64()])
	}

	return b.String(), nil
}
