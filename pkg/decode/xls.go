package decode

import (
	"bytes"
	"errors"
	"strings"

	"github.com/extrame/xls"
)

// maxRows bounds how many rows are read from the first sheet.
const maxRows = 5000

// XLSDecoder flattens the first sheet of a legacy Excel workbook: non-empty
// cells of a row joined by a space, one row per line.
type XLSDecoder struct{}

func (XLSDecoder) Format() Format { return XLS }

func (XLSDecoder) Decode(data []byte) (string, error) {
	return guard(XLS, func() (string, error) {
		workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
		if err != nil {
			return "", err
		}
		if workbook.NumSheets() == 0 {
			return "", errors.New("workbook has no sheets")
		}

		var lines []string
		for _, row := range workbook.ReadAllCells(maxRows) {
			var cells []string
			for _, c := range row {
				if c = strings.TrimSpace(c); c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " "))
			}
		}
		return strings.Join(lines, "\n"), nil
	})
}
