package models

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxSheetNameLen is the longest sheet name a workbook accepts.
const MaxSheetNameLen = 31

const maxSheets = 0xFFFF

// badSheetChars are the characters a sheet name may not contain.
const badSheetChars = "[]*?/\\"

// Workbook is an ordered set of uniquely named grids.
type Workbook struct {
	// BookName is the source document name (no path), if known.
	BookName string
	names    []string
	sheets   map[string]*Grid
}

// NewWorkbook returns an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{sheets: make(map[string]*Grid)}
}

// SheetNames returns the sheet names in order.
func (wb *Workbook) SheetNames() []string {
	return append([]string(nil), wb.names...)
}

// Sheet returns the grid registered under name.
func (wb *Workbook) Sheet(name string) (*Grid, bool) {
	g, ok := wb.sheets[name]
	return g, ok
}

// Len returns the number of sheets.
func (wb *Workbook) Len() int {
	return len(wb.names)
}

// AppendSheet adds g under name at the end of the workbook. An empty name
// picks the first free "SheetN". The accepted name is returned.
func (wb *Workbook) AppendSheet(name string, g *Grid) (string, error) {
	if wb.sheets == nil {
		wb.sheets = make(map[string]*Grid)
	}
	if len(wb.names) >= maxSheets {
		return "", &NamingError{Name: name, Err: ErrTooManySheets}
	}
	if name == "" {
		for i := 1; i <= maxSheets; i++ {
			candidate := "Sheet" + strconv.Itoa(i)
			if _, taken := wb.sheets[candidate]; !taken {
				name = candidate
				break
			}
		}
	}
	if err := CheckSheetName(name); err != nil {
		return "", err
	}
	if _, taken := wb.sheets[name]; taken {
		return "", &NamingError{Name: name, Err: ErrNameDuplicate}
	}
	wb.names = append(wb.names, name)
	wb.sheets[name] = g
	return name, nil
}

// CheckSheetName validates a sheet name against the length and character
// rules. Uniqueness is checked by AppendSheet.
func CheckSheetName(name string) error {
	if name == "" {
		return &NamingError{Name: name, Err: ErrNameEmpty}
	}
	if utf8.RuneCountInString(name) > MaxSheetNameLen {
		return &NamingError{Name: name, Err: ErrNameTooLong}
	}
	if strings.ContainsAny(name, badSheetChars) {
		return &NamingError{Name: name, Err: ErrNameInvalidChar}
	}
	return nil
}
