// Package odds implements American odds arithmetic: conversion to decimal
// prices, payouts for a stake, and parlay composition. Every function is pure.
package odds

import (
	"fmt"

	"wagerbook/domain/entities"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Payout is the result of pricing a stake: the profit on top of the stake
// and the total returned, both rounded to cents
type Payout struct {
	Profit decimal.Decimal
	Total  decimal.Decimal
}

// DecimalOf converts American odds to a decimal price.
// +200 is 3.0 and -150 is 1.6667.
func DecimalOf(american int) (decimal.Decimal, error) {
	if american == 0 {
		return decimal.Zero, fmt.Errorf("%w: american odds cannot be zero", entities.ErrInvalidInput)
	}
	o := decimal.NewFromInt(int64(american))
	if american > 0 {
		return o.Div(hundred).Add(one), nil
	}
	return hundred.Div(o.Abs()).Add(one), nil
}

// PayoutFor prices a straight wager. +200 on 10 units profits 20.00 and returns 30.00.
func PayoutFor(american int, stake decimal.Decimal) (Payout, error) {
	if american == 0 {
		return Payout{}, fmt.Errorf("%w: american odds cannot be zero", entities.ErrInvalidInput)
	}
	if !stake.IsPositive() {
		return Payout{}, fmt.Errorf("%w: stake must be positive, got %s", entities.ErrInvalidInput, stake)
	}

	o := decimal.NewFromInt(int64(american))
	var profit decimal.Decimal
	if american > 0 {
		profit = stake.Mul(o).Div(hundred)
	} else {
		profit = stake.Mul(hundred).Div(o.Abs())
	}

	return Payout{
		Profit: entities.RoundUnits(profit),
		Total:  entities.RoundUnits(stake.Add(profit)),
	}, nil
}

// CombinedDecimal multiplies the decimal prices of every leg
func CombinedDecimal(legs []int) (decimal.Decimal, error) {
	if len(legs) == 0 {
		return decimal.Zero, fmt.Errorf("%w: parlay needs at least one leg", entities.ErrInvalidInput)
	}
	combined := one
	for _, leg := range legs {
		d, err := DecimalOf(leg)
		if err != nil {
			return decimal.Zero, err
		}
		combined = combined.Mul(d)
	}
	return combined, nil
}

// ComposeParlay combines leg prices into a single American price.
// A single leg is returned unchanged; converting it through the decimal
// price would only reproduce it within one point of rounding.
func ComposeParlay(legs []int) (int, error) {
	if len(legs) == 1 {
		if legs[0] == 0 {
			return 0, fmt.Errorf("%w: american odds cannot be zero", entities.ErrInvalidInput)
		}
		return legs[0], nil
	}

	combined, err := CombinedDecimal(legs)
	if err != nil {
		return 0, err
	}
	return ToAmerican(combined)
}

// ToAmerican converts a decimal price back to American odds, rounding half up
func ToAmerican(price decimal.Decimal) (int, error) {
	if price.LessThanOrEqual(one) {
		return 0, fmt.Errorf("%w: decimal price must exceed 1, got %s", entities.ErrInvalidInput, price)
	}

	var american decimal.Decimal
	if price.GreaterThanOrEqual(decimal.NewFromInt(2)) {
		american = price.Sub(one).Mul(hundred)
	} else {
		american = hundred.Neg().Div(price.Sub(one))
	}
	return int(roundHalfUp(american).IntPart()), nil
}

// ParlayPayout prices a parlay stake against the combined decimal price of its legs
func ParlayPayout(legs []int, stake decimal.Decimal) (Payout, error) {
	if !stake.IsPositive() {
		return Payout{}, fmt.Errorf("%w: stake must be positive, got %s", entities.ErrInvalidInput, stake)
	}
	combined, err := CombinedDecimal(legs)
	if err != nil {
		return Payout{}, err
	}

	total := stake.Mul(combined)
	return Payout{
		Profit: entities.RoundUnits(total.Sub(stake)),
		Total:  entities.RoundUnits(total),
	}, nil
}

func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}
