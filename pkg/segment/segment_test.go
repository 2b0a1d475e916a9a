package segment

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "unix newlines",
			text: "01/02/2023 Salary 100,00\n02/02/2023 Rent 50,00",
			want: []string{"01/02/2023 Salary 100,00", "02/02/2023 Rent 50,00"},
		},
		{
			name: "windows and old mac newlines",
			text: "01/02/2023 Salary 100,00\r\n02/02/2023 Rent 50,00\r03/02/2023 Food 9,90",
			want: []string{"01/02/2023 Salary 100,00", "02/02/2023 Rent 50,00", "03/02/2023 Food 9,90"},
		},
		{
			name: "period followed by space",
			text: "01/02/2023 Salary 100,00. 02/02/2023 Rent 50,00",
			want: []string{"01/02/2023 Salary 100,00", "02/02/2023 Rent 50,00"},
		},
		{
			name: "decimal point is not a boundary",
			text: "01/02/2023 Coffee $3.50 purchase",
			want: []string{"01/02/2023 Coffee $3.50 purchase"},
		},
		{
			name: "short pieces dropped",
			text: "Page 1\nx 1 2 3\n01/02/2023 Salary 100,00\n\n",
			want: []string{"01/02/2023 Salary 100,00"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.text))
		})
	}
}

func TestSplit_LengthBoundary(t *testing.T) {
	s := New(10)
	assert.Empty(t, s.Split("123456789"))
	assert.Equal(t, []string{"1234567890"}, s.Split("1234567890"))
}

func TestSplit_CountsRunes(t *testing.T) {
	// 9 runes, 11 bytes.
	assert.Empty(t, New(10).Split("café café"))
}

func TestSplit_EverySegmentMeetsMinimum(t *testing.T) {
	text := strings.Join([]string{
		"a", "ab. abc", "1234567890", "short\r\nlonger than ten", "x 1 2 3", "Saldo anterior. 01/01/24 x 1,00",
	}, "\n")
	for _, minLen := range []int{1, 5, 10, 20} {
		for _, seg := range New(minLen).Split(text) {
			assert.GreaterOrEqual(t, utf8.RuneCountInString(seg), minLen, "segment %q", seg)
		}
	}
}

func TestNew_DefaultMinimum(t *testing.T) {
	assert.Equal(t, DefaultMinLength, New(0).minLength)
	assert.Equal(t, DefaultMinLength, New(-3).minLength)
}

func TestAll_PositionsAndRestart(t *testing.T) {
	s := New(10)
	text := "header\n01/02/2023 Salary 100,00\nfoo\n02/02/2023 Rent 50,00"

	var positions []int
	for i := range s.All(text) {
		positions = append(positions, i)
	}
	require.Equal(t, []int{1, 3}, positions)

	// A second pass yields the same sequence.
	assert.Equal(t, s.Split(text), s.Split(text))
}

func TestAll_StopsEarly(t *testing.T) {
	s := New(1)
	count := 0
	for range s.All("aaa\nbbb\nccc") {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
