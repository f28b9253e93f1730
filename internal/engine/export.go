package engine

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	DefaultCSVFilename = "feira_central_dados.csv"
	xlsxSheet          = "Dados"
)

// WriteCSV writes the header and rows with every field quoted and inner
// quotes doubled. Each line, header included, ends with "\n".
func WriteCSV(w io.Writer, columns []string, rows [][]string) error {
	bw := bufio.NewWriter(w)
	writeLine := func(fields []string) error {
		for i, f := range fields {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(quoteField(f)); err != nil {
				return err
			}
		}
		return bw.WriteByte('\n')
	}

	if err := writeLine(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range rows {
		if err := writeLine(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteXLSX writes the same header and rows into a single-sheet workbook.
func WriteXLSX(w io.Writer, columns []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	writeRow := func(r int, fields []string) error {
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(fields))
		for i, v := range fields {
			values[i] = v
		}
		return f.SetSheetRow(xlsxSheet, cell, &values)
	}

	if err := writeRow(1, columns); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// XLSXFilename derives the workbook name from the CSV export name.
func XLSXFilename(csvName string) string {
	return strings.TrimSuffix(csvName, ".csv") + ".xlsx"
}
