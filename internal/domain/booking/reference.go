package booking

import "crypto/rand"

const (
	refPrefix  = "BK-"
	refLength  = 8
	refCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewReference builds a human-shareable booking reference: fixed prefix plus
// a random suffix drawn from an alphabet without lookalike characters.
// Uniqueness is enforced by the caller against the store.
func NewReference() string {
	buf := make([]byte, refLength)
	if _, err := rand.Read(buf); err != nil {
		panic("booking: crypto/rand unavailable: " + err.Error())
	}

	for i, b := range buf {
		buf[i] = refCharset[int(b)%len(refCharset)]
	}

	return refPrefix + string(buf)
}
