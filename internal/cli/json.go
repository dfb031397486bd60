package cli

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/rileyhilliard/jirash/internal/ui"
)

// jsonIndent is the indentation used for pretty-printed JSON output.
const jsonIndent = "    "

// writeJSONIndent writes v as indented JSON followed by a newline.
func writeJSONIndent(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeJSONStream writes one compact JSON object per line.
func writeJSONStream(w io.Writer, rows []ui.Row) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

// indentJSONBody re-indents a JSON response body. ok is false when body is
// not JSON.
func indentJSONBody(body []byte) (out []byte, ok bool) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", jsonIndent); err != nil {
		return nil, false
	}
	buf.WriteByte('\n')
	return buf.Bytes(), true
}

// toRow turns an API object into a table row by way of its JSON form, so
// every field the server sent is addressable as a column.
func toRow(v interface{}) (ui.Row, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	row := ui.Row{}
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return row, nil
}
