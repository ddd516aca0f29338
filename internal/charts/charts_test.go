package charts

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestPlayerImprovement(t *testing.T) {
	data, err := PlayerImprovement([]Point{
		{Label: "02/04", Value: 11.5},
		{Label: "09/04", Value: 12.25},
		{Label: "16/04", Value: 13},
	})
	require.NoError(t, err)
	w, h := decode(t, data)
	assert.Equal(t, width, w)
	assert.Equal(t, height, h)
}

func TestLineCharts_SinglePoint(t *testing.T) {
	for name, render := range map[string]func([]Point) ([]byte, error){
		"improvement":  PlayerImprovement,
		"differential": OpponentDifferential,
	} {
		t.Run(name, func(t *testing.T) {
			data, err := render([]Point{{Label: "02/04", Value: 12}})
			require.NoError(t, err)
			w, h := decode(t, data)
			assert.Equal(t, width, w)
			assert.Equal(t, height, h)
		})
	}
}

func TestOpponentDifferential_SingleEvenGame(t *testing.T) {
	data, err := OpponentDifferential([]Point{{Label: "02/04", Value: 0}})
	require.NoError(t, err)
	decode(t, data)
}

func TestOpponentDifferential(t *testing.T) {
	data, err := OpponentDifferential([]Point{
		{Label: "02/04", Value: 14},
		{Label: "09/04", Value: -6},
	})
	require.NoError(t, err)
	decode(t, data)
}

func TestTopPlayers(t *testing.T) {
	data, err := TopPlayers([]Point{
		{Label: "Keith", Value: 14.2},
		{Label: "Sue", Value: 12.9},
	})
	require.NoError(t, err)
	decode(t, data)
}

func TestPlaceholders(t *testing.T) {
	for name, render := range map[string]func([]Point) ([]byte, error){
		"improvement":  PlayerImprovement,
		"differential": OpponentDifferential,
		"top players":  TopPlayers,
	} {
		t.Run(name, func(t *testing.T) {
			data, err := render(nil)
			require.NoError(t, err)
			w, h := decode(t, data)
			assert.Equal(t, width/2, w)
			assert.Equal(t, height/2, h)
		})
	}
}
