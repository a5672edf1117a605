package entity

import (
	"fmt"
	"math"
)

// Money is an amount in minor units (cents). All booking amounts are
// non-negative.
type Money int64

// NewMoney converts a major-unit amount (12.34) to Money, rounding half-up.
func NewMoney(amount float64) Money {
	return Money(math.Floor(amount*100 + 0.5))
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// ApplyRate returns m * rate rounded half-up to the cent. This is the only
// place a rate is turned into an amount.
func (m Money) ApplyRate(rate Rate) Money {
	return Money((int64(m)*int64(rate) + RateScale/2) / RateScale)
}

func (m Money) Clamp(min, max Money) Money {
	if m < min {
		return min
	}
	if max > 0 && m > max {
		return max
	}
	return m
}

// RateScale is the number of Rate units in 100%.
const RateScale = 10000

// Rate is a percentage in basis points: 10% == 1000.
type Rate int64

func RateFromPercent(percent float64) Rate {
	return Rate(math.Floor(percent*100 + 0.5))
}

func (r Rate) Percent() float64 {
	return float64(r) / 100
}

func (r Rate) IsValid() bool {
	return r >= 0 && r <= RateScale
}
