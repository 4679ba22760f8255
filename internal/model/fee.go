package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// weiExponent converts wei to the chain's native unit.
const weiExponent = -18

// FormatFee renders a wei amount in native units, e.g. "0.01 MON".
func FormatFee(wei *big.Int, symbol string) string {
	if wei == nil {
		return "--"
	}
	s := decimal.NewFromBigInt(wei, weiExponent).String()
	if symbol == "" {
		return s
	}
	return s + " " + symbol
}

// ParseFee converts a native-unit amount such as "0.01" into wei.
func ParseFee(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	return d.Shift(-weiExponent).BigInt(), nil
}
