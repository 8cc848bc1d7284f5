package internal

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
)

const (
	MinOTPDigits = 4
	MaxOTPDigits = 8
)

// NewOTP returns a uniformly random numeric code with exactly digits digits
// and no leading zero, i.e. in [10^(digits-1), 10^digits-1]. Four digits
// yields 1000..9999.
func NewOTP(digits int) (string, error) {
	if digits < MinOTPDigits || digits > MaxOTPDigits {
		return "", errors.New("invalid otp digits")
	}

	low := pow10(digits - 1)
	span := big.NewInt(9 * low)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(low+n.Int64(), 10), nil
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
