package decode

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

// TextDecoder passes plain text through, dropping a UTF-8 byte order mark.
type TextDecoder struct{}

func (TextDecoder) Format() Format { return TXT }

func (TextDecoder) Decode(data []byte) (string, error) {
	return guard(TXT, func() (string, error) {
		data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		if !utf8.Valid(data) {
			return "", errors.New("text is not valid UTF-8")
		}
		return string(data), nil
	})
}
