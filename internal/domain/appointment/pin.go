package appointment

import (
	"crypto/rand"
	"math/big"
)

const (
	pinMin = 1000
	pinMax = 9999
)

// NewPin returns a four digit confirmation pin.
func NewPin() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(pinMax-pinMin+1))
	if err != nil {
		return 0, err
	}
	return pinMin + int(n.Int64()), nil
}
