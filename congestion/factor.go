package congestion

import (
	"fmt"
	"math/big"
)

const factorDecimals = 18

// One is the fee factor 1.0 in 18 decimals fixed point
var One = new(big.Int).Exp(big.NewInt(10), big.NewInt(factorDecimals), nil) //nolint:gomnd

// ParseFactor converts a decimal string such as "1.05" to fixed point, truncating
// digits beyond the 18th decimal
func ParseFactor(s string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid factor %q", s)
	}
	if r.Sign() <= 0 {
		return nil, fmt.Errorf("factor %q must be positive", s)
	}
	r.Mul(r, new(big.Rat).SetInt(One))
	return new(big.Int).Quo(r.Num(), r.Denom()), nil
}

// FormatFactor renders a fixed point factor as a decimal string
func FormatFactor(f *big.Int) string {
	return new(big.Rat).SetFrac(f, One).FloatString(factorDecimals)
}

// MulFactor returns a*b for fixed point factors
func MulFactor(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Quo(r, One)
}

// DivFactor returns a/b for fixed point factors
func DivFactor(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, One)
	return r.Quo(r, b)
}

// ApplyFactor scales an amount by a fixed point factor
func ApplyFactor(amount, factor *big.Int) *big.Int {
	return MulFactor(amount, factor)
}
