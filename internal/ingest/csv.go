package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
)

// SnappyExt marks CSV files stored as a snappy framed stream
const SnappyExt = ".sz"

// ReadCSV reads a delimited table. The delimiter is sniffed from the header
// line: ';' when the header has semicolons and no commas (the usual export
// format of locales using a decimal comma), ',' otherwise.
func ReadCSV(r io.Reader) (Table, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return Table{}, fmt.Errorf("failed to read csv header: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(string(head))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("failed to read csv header: %w", err)
	}

	t := Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("failed to read csv: %w", err)
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

// OpenCSVFile reads a CSV file from disk, decoding the snappy framing when
// the file name ends in SnappyExt.
func OpenCSVFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if strings.HasSuffix(strings.ToLower(path), SnappyExt) {
		return ReadSnappyCSV(f)
	}
	return ReadCSV(f)
}

// ReadSnappyCSV reads a CSV table wrapped in a snappy framed stream
func ReadSnappyCSV(r io.Reader) (Table, error) {
	return ReadCSV(snappy.NewReader(r))
}

func sniffDelimiter(head string) rune {
	line, _, _ := strings.Cut(head, "\n")
	if strings.Contains(line, ";") && !strings.Contains(line, ",") {
		return ';'
	}
	return ','
}
