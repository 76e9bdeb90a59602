package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr bool
	}{
		{"luminosity", Luminosity, false},
		{"LUMA", Luma, false},
		{" average ", Average, false},
		{"green-channel", GreenChannel, false},
		{"green_channel", GreenChannel, false},
		{"lightness", Lightness, false},
		{"custom", Custom, false},
		{"sepia", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMethod(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEveryMethodDescribed(t *testing.T) {
	for _, m := range Methods() {
		d := Describe(m)
		assert.NotEmpty(t, d.Title, m)
		assert.NotEmpty(t, d.Formula, m)
		assert.NotEmpty(t, d.Summary, m)
	}
	assert.Equal(t, Description{}, Describe("sepia"))
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, Luminosity, DefaultMethod)
	assert.Equal(t, Normal, DefaultResultType)
}

func TestNextPrevWrap(t *testing.T) {
	assert.Equal(t, Average, Next(Luminosity))
	assert.Equal(t, Luminosity, Next(Custom))
	assert.Equal(t, Custom, Prev(Luminosity))
	assert.Equal(t, DefaultMethod, Next("unknown"))

	m := Luminosity
	for range Methods() {
		m = Next(m)
	}
	assert.Equal(t, Luminosity, m)
}

func TestParseResultType(t *testing.T) {
	got, err := ParseResultType("BW")
	require.NoError(t, err)
	assert.Equal(t, BWBackground, got)

	got, err = ParseResultType("normal")
	require.NoError(t, err)
	assert.Equal(t, Normal, got)

	_, err = ParseResultType("transparent")
	assert.Error(t, err)
}

func TestResultTypeToggle(t *testing.T) {
	assert.Equal(t, BWBackground, Normal.Toggle())
	assert.Equal(t, Normal, BWBackground.Toggle())
	assert.NotEqual(t, Normal.Label(), BWBackground.Label())
}
