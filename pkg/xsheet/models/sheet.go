package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// EditorSheet is the editor-facing form of one sheet: rows of cells keyed by
// index, merges carried as relative spans on their anchor cells.
type EditorSheet struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Rows holds the row entries, contiguous over the used range.
	Rows EditorRows `json:"rows"`
	// Merges lists the merged ranges as "A1:B2" strings.
	Merges []string `json:"merges"`
	// Tables contains cell ranges likely representing tables (optional).
	Tables []string `json:"tables,omitempty"`
}

// EditorRow is one row of editor cells keyed by column index.
type EditorRow struct {
	Cells map[int]EditorCell `json:"cells"`
}

// EditorCell is the editor view of a cell.
type EditorCell struct {
	// Text is the rendered cell text. Formulas carry a leading '='.
	Text string `json:"text,omitempty"`
	// Merge is the (row, column) span beyond the anchor, set on merge anchors.
	Merge *[2]int `json:"merge,omitempty"`
}

// EditorRows maps row index to row. It serializes as the editor's row object:
// numeric keys plus a "len" entry holding the row count.
type EditorRows struct {
	Rows map[int]EditorRow
	// Len is the number of row slots the editor shows. Zero means "one past
	// the highest row index".
	Len int
}

// Count returns the number of row slots to walk.
func (r EditorRows) Count() int {
	n := r.Len
	for i := range r.Rows {
		if i+1 > n {
			n = i + 1
		}
	}
	return n
}

// MarshalJSON writes rows in ascending index order followed by "len".
func (r EditorRows) MarshalJSON() ([]byte, error) {
	keys := make([]int, 0, len(r.Rows))
	for k := range r.Rows {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, k := range keys {
		fmt.Fprintf(&buf, "%q:", strconv.Itoa(k))
		// Encode appends a newline, which stays valid JSON whitespace.
		if err := enc.Encode(r.Rows[k]); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	fmt.Fprintf(&buf, `"len":%d}`, r.Count())
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the editor's row object. Keys that are neither row
// indexes nor "len" are ignored.
func (r *EditorRows) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Rows = make(map[int]EditorRow, len(raw))
	r.Len = 0
	for k, v := range raw {
		if k == "len" {
			if err := json.Unmarshal(v, &r.Len); err != nil {
				return fmt.Errorf("rows.len: %w", err)
			}
			continue
		}
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			continue
		}
		var row EditorRow
		if err := json.Unmarshal(v, &row); err != nil {
			return fmt.Errorf("rows[%d]: %w", idx, err)
		}
		r.Rows[idx] = row
	}
	return nil
}

// UnmarshalJSON reads a row, skipping non-numeric cell keys.
func (r *EditorRow) UnmarshalJSON(data []byte) error {
	var raw struct {
		Cells map[string]EditorCell `json:"cells"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Cells = make(map[int]EditorCell, len(raw.Cells))
	for k, c := range raw.Cells {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			continue
		}
		r.Cells[idx] = c
	}
	return nil
}

// UnmarshalJSON accepts a text given as a JSON string, number or boolean.
func (c *EditorCell) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text  json.RawMessage `json:"text"`
		Merge *[2]int         `json:"merge"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Merge = raw.Merge
	c.Text = ""
	if len(raw.Text) == 0 || string(raw.Text) == "null" {
		return nil
	}
	if raw.Text[0] == '"' {
		return json.Unmarshal(raw.Text, &c.Text)
	}
	c.Text = string(raw.Text)
	return nil
}
