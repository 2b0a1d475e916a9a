package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := map[string]Format{
		"extrato.pdf":            PDF,
		"Fatura Março.XLS":       XLS,
		"/tmp/statement.txt":     TXT,
		"reviewed-finscan.csv":   CSV,
		"archive.tar.gz.PdF":     PDF,
		"Extrato Conta Corr.txt": TXT,
	}
	for name, want := range tests {
		got, err := Detect(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	for _, name := range []string{"photo.png", "noext", "statement.ofx"} {
		_, err := Detect(name)
		assert.ErrorIs(t, err, ErrUnsupported, name)
	}
}

func TestTextDecoder(t *testing.T) {
	text, err := TextDecoder{}.Decode([]byte("\xef\xbb\xbf01/02/2023 Café 10,00"))
	require.NoError(t, err)
	assert.Equal(t, "01/02/2023 Café 10,00", text)

	_, err = TextDecoder{}.Decode([]byte{0xff, 0xfe, 0x00})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCorruptDocumentsFailWithErrDecode(t *testing.T) {
	garbage := []byte("this is definitely not a binary document")

	_, err := PDFDecoder{}.Decode(garbage)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = PDFDecoder{}.Decode(nil)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = XLSDecoder{}.Decode(garbage)
	assert.ErrorIs(t, err, ErrDecode)
}

type panicky struct{}

func (panicky) Format() Format { return PDF }

func (panicky) Decode(data []byte) (string, error) {
	return guard(PDF, func() (string, error) {
		var m map[string]int
		m["boom"]++
		return "", nil
	})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(TextDecoder{})

	text, err := r.DecodeFile([]byte("hello"), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = r.DecodeFile([]byte("x"), "a.pdf")
	assert.ErrorIs(t, err, ErrUnsupported)

	r.Register(panicky{})
	_, err = r.DecodeFile([]byte("x"), "a.pdf")
	assert.ErrorIs(t, err, ErrDecode)

	assert.Equal(t, []Format{PDF, TXT}, r.Formats())
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.Equal(t, []Format{PDF, TXT, XLS}, Default().Formats())

	_, err := Default().Get(CSV)
	assert.ErrorIs(t, err, ErrUnsupported)
}
