package voucher

import "crypto/rand"

const (
	codeLength  = 10
	codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewCode returns a random voucher code. crypto/rand, not math/rand: codes
// must not be guessable from previously issued ones. Collisions are checked
// by the caller against the store.
func NewCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("voucher: crypto/rand unavailable: " + err.Error())
	}

	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}

	return string(buf)
}
