package inventory

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows into Sheet1 of a new workbook and returns its bytes.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    Format
		wantErr bool
	}{
		{name: "csv", file: "inventory.csv", want: FormatCSV},
		{name: "xlsx upper case", file: "Inventory.XLSX", want: FormatXLSX},
		{name: "xls", file: "old.xls", want: FormatXLS},
		{name: "path with dots", file: "/tmp/site.v2.csv", want: FormatCSV},
		{name: "pdf rejected", file: "report.pdf", wantErr: true},
		{name: "no extension", file: "inventory", wantErr: true},
		{name: "empty name", file: "", wantErr: true},
		{name: "blank name", file: "   ", wantErr: true},
		{name: "trailing dot", file: "inventory.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatFromFilename(tt.file)
			if tt.wantErr {
				var ue *UsageError
				require.ErrorAs(t, err, &ue)
				assert.Equal(t, FormatUnknown, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_CSV(t *testing.T) {
	input := "Exporter_name_app,Country,Location,IP Address,Hostname\n" +
		"exporter_aes-prod,US,NYC,10.0.0.1,host1\n" +
		"\n" +
		"exporter_acm,DE,Berlin,10.0.0.3\n"

	table, err := Read(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, []string{"Exporter_name_app", "Country", "Location", "IP Address", "Hostname"}, table.Columns)
	require.Equal(t, 2, table.Len())

	first := table.Rows[0]
	v, ok := first.Get("IP Address")
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.1", v)
	assert.Equal(t, 2, first.Line)

	// Short row: the Hostname cell is absent.
	second := table.Rows[1]
	_, ok = second.Get("Hostname")
	assert.False(t, ok)
	assert.Equal(t, 4, second.Line)

	_, ok = first.Get("Exporter_name_app_2")
	assert.False(t, ok)
	assert.False(t, table.HasColumn("Exporter_name_app_2"))
}

func TestRead_CSVWithBOMAndPadding(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte(" Country , Location\nUS, NYC \n")...)

	table, err := Read(bytes.NewReader(input), FormatCSV)
	require.NoError(t, err)

	assert.True(t, table.HasColumn("Country"))
	v, _ := table.Rows[0].Get("Location")
	assert.Equal(t, " NYC ", v, "cell values are copied verbatim")
}

func TestRead_CSVWindows1252(t *testing.T) {
	// "Zürich" encoded as Windows-1252.
	input := []byte("Country,Location\nCH,Z\xfcrich\n")

	table, err := Read(bytes.NewReader(input), FormatCSV)
	require.NoError(t, err)

	v, _ := table.Rows[0].Get("Location")
	assert.Equal(t, "Zürich", v)
}

func TestRead_CSVErrors(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		_, err := Read(strings.NewReader(""), FormatCSV)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("row wider than header", func(t *testing.T) {
		_, err := Read(strings.NewReader("a,b\n1,2\n1,2,3\n"), FormatCSV)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 3, pe.Line)
		assert.True(t, errors.Is(err, csv.ErrFieldCount))
	})

	t.Run("trailing empty fields allowed", func(t *testing.T) {
		table, err := Read(strings.NewReader("a,b\n1,2,,\n"), FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
	})
}

func TestRead_Workbook(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Exporter_name_app", "Exporter_name_app_2", "Country", "Location", "IP Address", "Hostname"},
		{"exporter_aes-prod", "", "US", "NYC", "10.0.0.1", "host1"},
		{nil, nil, nil, nil, nil, nil},
		{"", "exporter_avayasbc", "UK", "London", "10.0.1.1"},
	})

	for _, format := range []Format{FormatXLSX, FormatXLS} {
		t.Run(format.String(), func(t *testing.T) {
			table, err := Read(bytes.NewReader(data), format)
			require.NoError(t, err)

			require.Equal(t, 2, table.Len())
			assert.True(t, table.HasColumn("Exporter_name_app_2"))

			v, ok := table.Rows[1].Get("Exporter_name_app_2")
			assert.True(t, ok)
			assert.Equal(t, "exporter_avayasbc", v)
			assert.Equal(t, 4, table.Rows[1].Line)

			_, ok = table.Rows[1].Get("Hostname")
			assert.False(t, ok)
		})
	}
}

func TestRead_WorkbookErrors(t *testing.T) {
	t.Run("not a workbook", func(t *testing.T) {
		_, err := Read(strings.NewReader("definitely,not,a,zip"), FormatXLSX)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, FormatXLSX, pe.Format)
	})

	t.Run("truncated legacy workbook", func(t *testing.T) {
		data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, bytes.Repeat([]byte{0x42}, 64)...)
		_, err := Read(bytes.NewReader(data), FormatXLS)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, FormatXLS, pe.Format)
	})

	t.Run("empty sheet", func(t *testing.T) {
		data := buildWorkbook(t, nil)
		_, err := Read(bytes.NewReader(data), FormatXLSX)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
}

func TestRead_UnknownFormat(t *testing.T) {
	_, err := Read(strings.NewReader("a,b"), FormatUnknown)
	var ue *UsageError
	assert.ErrorAs(t, err, &ue)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "inventory.csv")
	require.NoError(t, os.WriteFile(path, []byte("Country\nUS\n"), 0o600))

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = ReadFile(filepath.Join(dir, "inventory.pdf"))
	var ue *UsageError
	assert.ErrorAs(t, err, &ue, "extension is checked before the file is opened")
}

func TestRow_Values(t *testing.T) {
	table := NewTable([]string{"A", "B", "A"}, [][]string{{"1", "2", "3"}}, 2)

	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, table.Rows[0].Values())
	assert.Equal(t, map[string]string{}, Row{}.Values())
}
