package util

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
)

// amtPerSecDecimals is the number of decimal digits of the SDK's fixed-point scale.
const amtPerSecDecimals = 9

// ParseAmount parses a base-10 integer amount, as the indexer encodes NUMERIC(78,0) values.
//
// Example:
//
//	balance, err := util.ParseAmount("1000000000000000000")
func ParseAmount(s string) (*apd.BigInt, error) {
	if s == "" {
		return nil, errors.New("empty amount")
	}
	v, ok := new(apd.BigInt).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("invalid amount %q", s)
	}
	return v, nil
}

// FormatAmount renders a fixed-point amount scaled by types.AmtPerSecMultiplier in whole
// token units, given the token's own decimals. Trailing zeros are dropped.
//
// Example:
//
//	util.FormatAmount(apd.NewBigInt(1_500_000_000), 0) // "1.5"
func FormatAmount(amount *apd.BigInt, tokenDecimals int32) string {
	if amount == nil {
		return "0"
	}
	d := apd.NewWithBigInt(amount, -(amtPerSecDecimals + tokenDecimals))
	reduced, _ := new(apd.Decimal).Reduce(d)
	return reduced.Text('f')
}

// TransformOrNil returns nil if the value is nil, otherwise applies the transform function.
//
// Example:
//
//	rof := util.TransformOrNil(item.RunsOutOfFunds, func(t time.Time) any { return t.Unix() })
func TransformOrNil[T any](value *T, transform func(T) any) any {
	if value == nil {
		return nil
	}
	return transform(*value)
}
