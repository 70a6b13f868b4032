package inventory

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	utf8BOM      = []byte{0xEF, 0xBB, 0xBF}
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Read parses r according to format. Malformed content returns a *ParseError;
// an unknown format returns a *UsageError.
func Read(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLS, FormatXLSX:
		return readWorkbook(r, format)
	default:
		return nil, &UsageError{Reason: "unsupported format " + format.String()}
	}
}

// ReadFile opens path and parses it using the format implied by its extension.
func ReadFile(path string) (*Table, error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()

	return Read(f, format)
}

// readCSV decodes comma-delimited text. The whole upload is read once and
// quotes are handled leniently. Short rows are allowed; a row carrying values
// beyond the header width is malformed.
func readCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv upload: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decodeText(data)))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			pe := &ParseError{Format: FormatCSV, Err: err}
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				pe.Line = csvErr.Line
			}
			return nil, pe
		}
		line, _ := reader.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	if len(records) == 0 {
		return nil, &ParseError{Format: FormatCSV, Err: ErrEmptyFile}
	}

	width := len(records[0])
	for i, rec := range records[1:] {
		if extra := rec[min(width, len(rec)):]; !isBlank(extra) {
			return nil, &ParseError{
				Format: FormatCSV,
				Line:   lines[i+1],
				Err:    fmt.Errorf("expected %d fields, saw %d: %w", width, len(rec), csv.ErrFieldCount),
			}
		}
	}

	return buildTable(records[0], records[1:], func(i int) int { return lines[i+1] }), nil
}

// readWorkbook reads the first sheet of a spreadsheet. An .xls upload in the
// legacy BIFF format (an OLE2 compound file) goes through the BIFF reader;
// everything else is opened as an Office Open XML package.
func readWorkbook(r io.Reader, format Format) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s upload: %w", format, err)
	}
	if format == FormatXLS && bytes.HasPrefix(data, oleSignature) {
		return readBIFF(data)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Format: format, Err: errors.New("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Format: format, Err: fmt.Errorf("sheet %q: %w", sheets[0], err)}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Format: format, Err: ErrEmptyFile}
	}

	return NewTable(rows[0], rows[1:], 2), nil
}

// readBIFF reads the first sheet of an Excel 97-2003 workbook. The decoder
// panics on some truncated files, which is reported as a *ParseError.
func readBIFF(data []byte) (table *Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, &ParseError{Format: FormatXLS, Err: fmt.Errorf("malformed workbook: %v", r)}
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &ParseError{Format: FormatXLS, Err: err}
	}
	if wb.NumSheets() == 0 {
		return nil, &ParseError{Format: FormatXLS, Err: errors.New("workbook has no sheets")}
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, &ParseError{Format: FormatXLS, Err: errors.New("workbook has no sheets")}
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 || isBlank(rows[0]) {
		return nil, &ParseError{Format: FormatXLS, Err: ErrEmptyFile}
	}

	return NewTable(rows[0], rows[1:], 2), nil
}

// decodeText strips a UTF-8 byte order mark and converts non-UTF-8 input
// from Windows-1252, the usual encoding of CSV exports from older Excel.
func decodeText(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}

	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return data
	}
	return decoded
}
