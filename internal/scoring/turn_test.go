package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int) *int { return &v }

func validate(r1, r2, r3 int) TurnResult {
	return ValidateTurn(ptr(r1), ptr(r2), ptr(r3))
}

func TestPinsBeforeSecond_AllFirstRolls(t *testing.T) {
	for roll1 := 0; roll1 <= RackSize; roll1++ {
		expected := RackSize - roll1
		if roll1 == RackSize {
			expected = RackSize
		}
		assert.Equal(t, expected, PinsBeforeSecond(roll1), "roll1=%d", roll1)

		res := validate(roll1, expected, 0)
		if roll1 != RackSize && expected+roll1 == RackSize {
			// roll2 clears the rack, which is legal.
			assert.True(t, res.OK, "roll1=%d roll2=%d should be accepted", roll1, expected)
		}
		if expected < RackSize {
			res = validate(roll1, expected+1, 0)
			assert.False(t, res.OK, "roll1=%d roll2=%d should be rejected", roll1, expected+1)
			assert.Contains(t, res.Errors, FieldRoll2)
		}
	}
}

func TestValidateTurn_RackResets(t *testing.T) {
	tests := []struct {
		name         string
		r1, r2, r3   int
		wantOK       bool
		wantStanding int
		wantField    string
	}{
		{name: "double reset allows a full third rack", r1: 9, r2: 9, r3: 9, wantOK: true, wantStanding: 9},
		{name: "strike then partial rejects too many", r1: 9, r2: 4, r3: 6, wantOK: false, wantStanding: 5, wantField: FieldRoll3},
		{name: "strike then partial accepts remaining", r1: 9, r2: 4, r3: 5, wantOK: true, wantStanding: 5},
		{name: "exact clear resets the rack", r1: 3, r2: 6, r3: 9, wantOK: true, wantStanding: 9},
		{name: "no clear rejects too many", r1: 3, r2: 4, r3: 3, wantOK: false, wantStanding: 2, wantField: FieldRoll3},
		{name: "no clear accepts remaining", r1: 3, r2: 4, r3: 2, wantOK: true, wantStanding: 2},
		{name: "all zero", r1: 0, r2: 0, r3: 0, wantOK: true, wantStanding: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStanding, PinsBeforeThird(tt.r1, tt.r2))

			res := validate(tt.r1, tt.r2, tt.r3)
			assert.Equal(t, tt.wantOK, res.OK)
			if tt.wantOK {
				assert.Empty(t, res.Errors)
				assert.Equal(t, tt.r1+tt.r2+tt.r3, res.Total)
				assert.Equal(t, [3]int{tt.r1, tt.r2, tt.r3}, res.Rolls)
			} else {
				require.Contains(t, res.Errors, tt.wantField)
				assert.Zero(t, res.Total)
			}
		})
	}
}

func TestValidateTurn_TotalIsNotCapped(t *testing.T) {
	res := validate(9, 9, 9)
	require.True(t, res.OK)
	assert.Equal(t, 27, res.Total)
}

func TestValidateTurn_RackErrorMessages(t *testing.T) {
	res := validate(5, 6, 9)
	require.False(t, res.OK)
	assert.Equal(t, "Roll 2 score (6) cannot exceed pins standing (4) based on Roll 1.", res.Errors[FieldRoll2])
	// 5+6 >= 9 counts as a cleared rack, so roll 3 is still judged against a full rack.
	assert.NotContains(t, res.Errors, FieldRoll3)

	res = validate(2, 8, 9)
	require.False(t, res.OK)
	assert.Contains(t, res.Errors, FieldRoll2)
	assert.NotContains(t, res.Errors, FieldRoll3)

	res = validate(1, 8, 0)
	require.True(t, res.OK)

	res = validate(9, 5, 7)
	require.False(t, res.OK)
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, "Roll 3 score (7) cannot exceed pins standing (4) based on Rolls 1 & 2.", res.Errors[FieldRoll3])
}

func TestValidateTurn_OutOfRange(t *testing.T) {
	others := []int{0, 4, 9}
	for _, bad := range []int{-1, 10, 42} {
		for _, other := range others {
			for pos := 0; pos < 3; pos++ {
				rolls := [3]*int{ptr(other), ptr(other), ptr(other)}
				rolls[pos] = ptr(bad)
				res := ValidateTurn(rolls[0], rolls[1], rolls[2])
				assert.False(t, res.OK, "bad=%d at %d", bad, pos)
				assert.Contains(t, res.Errors, fields[pos])
			}
		}
	}
}

func TestValidateTurn_ReportsEveryField(t *testing.T) {
	res := ValidateTurn(nil, ptr(12), ptr(-1))
	require.False(t, res.OK)
	assert.Len(t, res.Errors, 3)
	assert.Equal(t, "Ensure this value is less than or equal to 9.", res.Errors[FieldRoll2])
	assert.Equal(t, "Ensure this value is greater than or equal to 0.", res.Errors[FieldRoll3])
}

func TestValidateTurn_Missing(t *testing.T) {
	res := ValidateTurn(nil, ptr(3), nil)
	require.False(t, res.OK)
	assert.Equal(t, "Roll 1 is required (minimum 0).", res.Errors[FieldRoll1])
	assert.Equal(t, "Roll 3 is required (minimum 0).", res.Errors[FieldRoll3])
	assert.NotContains(t, res.Errors, FieldRoll2)
}

func TestParseTurn(t *testing.T) {
	res := ParseTurn(" 3", "4 ", "2")
	require.True(t, res.OK)
	assert.Equal(t, 9, res.Total)

	res = ParseTurn("", "x", "2")
	require.False(t, res.OK)
	assert.Equal(t, "Roll 1 is required (minimum 0).", res.Errors[FieldRoll1])
	assert.Equal(t, "Enter a whole number.", res.Errors[FieldRoll2])
	assert.NotContains(t, res.Errors, FieldRoll3)

	res = ParseTurn("3", "4", "3")
	require.False(t, res.OK)
	assert.Contains(t, res.Errors, FieldRoll3)
}

func TestStrikeAndSpare(t *testing.T) {
	assert.True(t, validate(9, 3, 0).Strike())
	assert.False(t, validate(9, 3, 0).Spare())
	assert.True(t, validate(4, 5, 2).Spare())
	assert.False(t, validate(4, 4, 1).Spare())
	assert.False(t, validate(4, 6, 0).Spare(), "invalid turns are never spares")
}
