package source

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/dgallion1/docshelf/internal/article"
)

// CSVDecoder renders a CSV file as a markdown table. The first row is the
// header; short rows are padded and long rows truncated to its width.
type CSVDecoder struct{}

func (d *CSVDecoder) Decode(data []byte, filename string) (Document, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Document{}, fmt.Errorf("parse csv: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", stem(filename))
	if len(records) == 0 {
		return Document{Body: b.String(), Format: article.FormatMarkdown}, nil
	}

	headers := records[0]
	writeRow(&b, headers, len(headers))
	b.WriteString("|")
	for range headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range records[1:] {
		writeRow(&b, row, len(headers))
	}

	return Document{Body: b.String(), Format: article.FormatMarkdown}, nil
}

func writeRow(b *strings.Builder, row []string, width int) {
	b.WriteString("|")
	for i := 0; i < width; i++ {
		cell := ""
		if i < len(row) {
			cell = escapeCell(row[i])
		}
		b.WriteString(" " + cell + " |")
	}
	b.WriteString("\n")
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

func escapeCell(s string) string {
	return cellReplacer.Replace(strings.TrimSpace(s))
}
