// Package scoring implements the Somerset skittles turn rules: how many pins
// are standing before each of a player's three rolls, and which turns are legal.
package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// RackSize is the number of pins standing at the start of a turn.
const RackSize = 9

// Field names used as keys in FieldErrors.
const (
	FieldRoll1 = "roll1"
	FieldRoll2 = "roll2"
	FieldRoll3 = "roll3"
)

var fields = [3]string{FieldRoll1, FieldRoll2, FieldRoll3}

// FieldErrors maps a roll field to a user-facing message.
type FieldErrors map[string]string

// TurnResult is the outcome of validating one player's turn.
type TurnResult struct {
	OK     bool        `json:"ok"`
	Rolls  [3]int      `json:"rolls"`
	Total  int         `json:"total"`
	Errors FieldErrors `json:"errors,omitempty"`
}

// Strike reports whether the turn opened with a full rack knocked down.
func (r TurnResult) Strike() bool {
	return r.OK && IsStrike(r.Rolls[0])
}

// Spare reports whether the first rack was cleared with the second roll.
func (r TurnResult) Spare() bool {
	return r.OK && IsSpare(r.Rolls[0], r.Rolls[1])
}

// PinsBeforeSecond returns the pins standing before roll 2. A strike resets
// the rack.
func PinsBeforeSecond(roll1 int) int {
	if roll1 == RackSize {
		return RackSize
	}
	return RackSize - roll1
}

// PinsBeforeThird returns the pins standing before roll 3.
func PinsBeforeThird(roll1, roll2 int) int {
	if roll1 == RackSize {
		if roll2 == RackSize {
			return RackSize
		}
		return RackSize - roll2
	}
	if roll1+roll2 >= RackSize {
		return RackSize
	}
	return RackSize - (roll1 + roll2)
}

// IsStrike reports whether roll1 knocked down the whole rack.
func IsStrike(roll1 int) bool {
	return roll1 == RackSize
}

// IsSpare reports whether the first two rolls cleared the rack without a strike.
func IsSpare(roll1, roll2 int) bool {
	return roll1 < RackSize && roll1+roll2 == RackSize
}

// ValidateTurn checks three rolls against the rack-reset rule. A nil roll is
// treated as missing. Every violated constraint is reported.
func ValidateTurn(roll1, roll2, roll3 *int) TurnResult {
	rolls := [3]*int{roll1, roll2, roll3}
	res := TurnResult{Errors: FieldErrors{}}

	for i, roll := range rolls {
		switch {
		case roll == nil:
			res.Errors[fields[i]] = fmt.Sprintf("Roll %d is required (minimum 0).", i+1)
		case *roll < 0:
			res.Errors[fields[i]] = "Ensure this value is greater than or equal to 0."
		case *roll > RackSize:
			res.Errors[fields[i]] = fmt.Sprintf("Ensure this value is less than or equal to %d.", RackSize)
		default:
			res.Rolls[i] = *roll
		}
	}
	// The rack cannot be reconstructed from missing or out-of-range rolls.
	if len(res.Errors) > 0 {
		return res
	}

	r1, r2, r3 := res.Rolls[0], res.Rolls[1], res.Rolls[2]
	if standing := PinsBeforeSecond(r1); r2 > standing {
		res.Errors[FieldRoll2] = fmt.Sprintf("Roll 2 score (%d) cannot exceed pins standing (%d) based on Roll 1.", r2, standing)
	}
	if standing := PinsBeforeThird(r1, r2); r3 > standing {
		res.Errors[FieldRoll3] = fmt.Sprintf("Roll 3 score (%d) cannot exceed pins standing (%d) based on Rolls 1 & 2.", r3, standing)
	}
	if len(res.Errors) > 0 {
		return res
	}

	res.OK = true
	res.Total = r1 + r2 + r3
	res.Errors = nil
	return res
}

// ParseTurn validates rolls submitted as text, e.g. from a form. Blank values
// are missing rolls.
func ParseTurn(raw1, raw2, raw3 string) TurnResult {
	raws := [3]string{raw1, raw2, raw3}
	var parsed [3]*int
	parseErrs := FieldErrors{}

	for i, raw := range raws {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			parseErrs[fields[i]] = "Enter a whole number."
			continue
		}
		parsed[i] = &v
	}

	res := ValidateTurn(parsed[0], parsed[1], parsed[2])
	if len(parseErrs) == 0 {
		return res
	}
	if res.Errors == nil {
		res.Errors = FieldErrors{}
	}
	for field, msg := range parseErrs {
		res.Errors[field] = msg
	}
	res.OK = false
	res.Total = 0
	return res
}
