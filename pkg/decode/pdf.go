package decode

import (
	"bytes"
	"strings"

	"github.com/dslipak/pdf"
)

// PDFDecoder reads the text layer of a PDF. Each page is followed by a single
// space; image-only documents decode to blank text.
type PDFDecoder struct{}

func (PDFDecoder) Format() Format { return PDF }

func (PDFDecoder) Decode(data []byte) (string, error) {
	return guard(PDF, func() (string, error) {
		r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return "", err
		}

		var b strings.Builder
		for i := 1; i <= r.NumPage(); i++ {
			p := r.Page(i)
			if p.V.IsNull() {
				continue
			}
			text, err := p.GetPlainText(nil)
			if err != nil {
				return "", err
			}
			b.WriteString(text)
			b.WriteByte(' ')
		}
		return b.String(), nil
	})
}
