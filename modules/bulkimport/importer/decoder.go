package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

// Format is the container format of an uploaded file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DetectFormat decides the container format from the file content, falling
// back to the declared MIME type and then the filename extension when the
// sniffed type is generic.
func DetectFormat(filename, declaredMIME string, data []byte) (Format, error) {
	detected := mimetype.Detect(data)
	switch {
	case detected.Is(xlsxMIME):
		return FormatXLSX, nil
	case detected.Is("text/csv"):
		return FormatCSV, nil
	}

	// Plain-text sniffs are ambiguous: a CSV with no commas in the sampled
	// window detects as text/plain. Trust the declared type or extension.
	if detected.Is("text/plain") || detected.Is("application/octet-stream") || detected.Is("application/zip") {
		switch strings.ToLower(strings.TrimSpace(declaredMIME)) {
		case "text/csv", "application/csv":
			return FormatCSV, nil
		case xlsxMIME:
			return FormatXLSX, nil
		}
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".csv":
			return FormatCSV, nil
		case ".xlsx":
			return FormatXLSX, nil
		}
		if detected.Is("text/plain") {
			return FormatCSV, nil
		}
	}

	return "", fmt.Errorf("unsupported file type %q: expected .csv or .xlsx", detected.String())
}

// Decode turns an uploaded file's bytes into RawRows. Container-level
// problems (unreadable file, bad header, nothing decodable) yield
// Success=false; individual malformed rows are collected into Errors while
// decoding continues.
func Decode(filename, declaredMIME string, data []byte) DecodeResult {
	format, err := DetectFormat(filename, declaredMIME, data)
	if err != nil {
		return containerFailure(err.Error())
	}
	switch format {
	case FormatXLSX:
		return DecodeXLSX(data)
	default:
		return DecodeCSV(data)
	}
}

func containerFailure(message string) DecodeResult {
	return DecodeResult{
		Success: false,
		Data:    []RawRow{},
		Errors:  []DecodeError{{Message: message}},
	}
}

// DecodeCSV decodes a CSV container. The first line is the header; data rows
// are numbered from 2 to match what the operator sees in a spreadsheet
// editor.
func DecodeCSV(data []byte) DecodeResult {
	br := bufio.NewReader(bytes.NewReader(data))
	stripUTF8BOM(br)

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = false

	header, err := readHeader(r)
	if err != nil {
		return containerFailure(err.Error())
	}
	if err := checkHeader(header); err != nil {
		return containerFailure(err.Error())
	}

	result := DecodeResult{Success: true, Data: []RawRow{}, Errors: []DecodeError{}, Warnings: []DecodeWarning{}}
	rowNumber := 1
	for {
		rowNumber++
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			n := rowNumber
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && parseErr.Line > 0 {
				n = parseErr.Line
			}
			result.Errors = append(result.Errors, DecodeError{
				RowNumber: n,
				Message:   fmt.Sprintf("row %d could not be parsed: %v", n, unwrapCSVErr(err)),
			})
			continue
		}
		// The reader skips fully empty lines, so the physical line of the
		// record is authoritative, not our own counter.
		if line, _ := r.FieldPos(0); line > 0 {
			rowNumber = line
		}
		if isBlank(rec) {
			continue
		}
		if len(rec) > len(header) {
			result.Errors = append(result.Errors, DecodeError{
				RowNumber: rowNumber,
				Message:   fmt.Sprintf("row %d has %d cells but the header defines %d columns", rowNumber, len(rec), len(header)),
			})
			continue
		}
		result.Data = append(result.Data, buildRow(rowNumber, header, rec))
	}

	return finishDecode(result)
}

// DecodeXLSX decodes the first sheet of an XLSX workbook using the same row
// numbering and header rules as CSV.
func DecodeXLSX(data []byte) DecodeResult {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return containerFailure(fmt.Sprintf("unreadable xlsx file: %v", err))
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return containerFailure("xlsx file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return containerFailure(fmt.Sprintf("unreadable xlsx sheet: %v", err))
	}
	if len(rows) == 0 {
		return containerFailure("missing header")
	}

	header := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		header = append(header, strings.ToLower(strings.TrimSpace(h)))
	}
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	if err := checkHeader(header); err != nil {
		return containerFailure(err.Error())
	}

	result := DecodeResult{Success: true, Data: []RawRow{}, Errors: []DecodeError{}, Warnings: []DecodeWarning{}}
	for i, rec := range rows[1:] {
		rowNumber := i + 2
		if isBlank(rec) {
			continue
		}
		if len(rec) > len(header) {
			if !isBlank(rec[len(header):]) {
				result.Errors = append(result.Errors, DecodeError{
					RowNumber: rowNumber,
					Message:   fmt.Sprintf("row %d has values outside the %d header columns", rowNumber, len(header)),
				})
				continue
			}
			rec = rec[:len(header)]
		}
		result.Data = append(result.Data, buildRow(rowNumber, header, rec))
	}

	return finishDecode(result)
}

func finishDecode(result DecodeResult) DecodeResult {
	if len(result.Data) == 0 {
		// A file where nothing decoded is a hard stop even when the
		// container itself parsed.
		result.Success = false
		if len(result.Errors) == 0 {
			result.Errors = append(result.Errors, DecodeError{Message: "no data rows found"})
		}
	}
	return result
}

func buildRow(rowNumber int, header []string, rec []string) RawRow {
	fields := make(map[string]any, len(header))
	for i, col := range header {
		raw := ""
		if i < len(rec) {
			raw = strings.TrimSpace(rec[i])
		}
		if col == ColTrades {
			fields[col] = SplitList(raw)
			continue
		}
		fields[col] = raw
	}
	return RawRow{RowNumber: rowNumber, Fields: fields}
}

func readHeader(r *csv.Reader) ([]string, error) {
	h, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("missing header")
		}
		return nil, fmt.Errorf("unreadable csv header: %v", unwrapCSVErr(err))
	}
	for i := range h {
		h[i] = strings.ToLower(strings.TrimSpace(h[i]))
	}
	return h, nil
}

func checkHeader(header []string) error {
	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		if h == "" {
			return fmt.Errorf("header contains an empty column name")
		}
		if _, dup := seen[h]; dup {
			return fmt.Errorf("duplicate header column: %s", h)
		}
		seen[h] = struct{}{}
	}
	for _, req := range RequiredColumns {
		if _, ok := seen[req]; !ok {
			return fmt.Errorf("missing required header column: %s", req)
		}
	}
	allowed := make(map[string]struct{}, len(AllowedColumns))
	for _, a := range AllowedColumns {
		allowed[a] = struct{}{}
	}
	for _, h := range header {
		if _, ok := allowed[h]; !ok {
			return fmt.Errorf("unexpected header column: %s", h)
		}
	}
	return nil
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func stripUTF8BOM(r *bufio.Reader) {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
}

func unwrapCSVErr(err error) string {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Err.Error()
	}
	return err.Error()
}
