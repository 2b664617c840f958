// Package units converts raw on-chain integers into display values.
//
// Amounts are stored on chain as 9-decimal fixed point uint64. Amount narrows them to float64,
// which is exact up to 2^53 base units and rounds to nearest, ties to even, above that. Display
// rounds to 2 decimals so the loss is never visible; AmountDecimal keeps the exact value.
package units

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feral-file/habitat-tracker/internal/domain"
)

// MaxUnixSeconds is 9999-12-31T23:59:59Z, the last instant that survives RFC 3339 formatting
const MaxUnixSeconds uint64 = 253402300799

var (
	// MaxTime is the instant timestamps are clamped to
	MaxTime = time.Unix(int64(MaxUnixSeconds), 0).UTC()

	amountScale = math.Pow10(domain.KI_DECIMALS)
)

// Timestamp converts unix seconds to a UTC time.
// Values past MaxTime are clamped and reported with ErrTimestampOutOfRange.
func Timestamp(sec uint64) (time.Time, error) {
	if sec > MaxUnixSeconds {
		return MaxTime, fmt.Errorf("%w: %d", domain.ErrTimestampOutOfRange, sec)
	}
	return time.Unix(int64(sec), 0).UTC(), nil
}

// ClampTimestamp is Timestamp without the out-of-range report
func ClampTimestamp(sec uint64) time.Time {
	t, _ := Timestamp(sec)
	return t
}

// Amount converts 9-decimal base units to a token amount
func Amount(raw uint64) float64 {
	return float64(raw) / amountScale
}

// AmountDecimal converts 9-decimal base units to an exact decimal
func AmountDecimal(raw uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -domain.KI_DECIMALS)
}

// Split divides an amount by a royalty rate in basis points.
// The landlord receives amount*bips/10000 and the tenant keeps the remainder.
// Rates above 10000 are treated as 10000.
func Split(amount float64, bips uint16) (landlordShare, tenantShare float64) {
	r := float64(min(bips, domain.BIPS_DENOMINATOR))
	landlordShare = amount * r / domain.BIPS_DENOMINATOR
	tenantShare = amount * (domain.BIPS_DENOMINATOR - r) / domain.BIPS_DENOMINATOR
	return landlordShare, tenantShare
}

// Percent converts basis points to a percentage
func Percent(bips uint16) float64 {
	return float64(bips) / 100
}

var bipsDenominator = decimal.NewFromInt(domain.BIPS_DENOMINATOR)

// SplitDecimal is Split on exact decimals of the raw base units
func SplitDecimal(raw uint64, bips uint16) (landlordShare, tenantShare decimal.Decimal) {
	amount := AmountDecimal(raw)
	r := decimal.NewFromInt(int64(min(bips, domain.BIPS_DENOMINATOR)))
	landlordShare = amount.Mul(r).Div(bipsDenominator)
	tenantShare = amount.Sub(landlordShare)
	return landlordShare, tenantShare
}
