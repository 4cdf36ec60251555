package tsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/formdb/model"
)

// ErrMalformed is returned when a dump cannot be decoded.
var ErrMalformed = errors.New("tsv: malformed dump")

// Header is the header row written by Encode.
var Header = []string{"word", "form", "description"}

// column aliases accepted on read, by field.
var (
	wordColumns = []string{"word", "__word__"}
	formColumns = []string{"form", "__form__"}
	descColumns = []string{"description", "__desc__"}
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// encoding/csv reads a quoted "\r\n" back as "\n", so dumps written by
// Marshal escape '\' as `\\` and '\r' as `\r`. Legacy dumps are raw.
var escaper = strings.NewReplacer(`\`, `\\`, "\r", `\r`)

func escape(s string) string {
	if !strings.ContainsAny(s, "\\\r") {
		return s
	}
	return escaper.Replace(s)
}

func unescape(s string) (string, error) {
	i := strings.IndexByte(s, '\\')
	if i < 0 {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))
	sb.WriteString(s[:i])
	for ; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 == len(s) {
			return "", fmt.Errorf("%w: dangling escape in %q", ErrMalformed, s)
		}
		i++
		switch s[i] {
		case '\\':
			sb.WriteByte('\\')
		case 'r':
			sb.WriteByte('\r')
		default:
			return "", fmt.Errorf("%w: unknown escape \\%c in %q", ErrMalformed, s[i], s)
		}
	}
	return sb.String(), nil
}

// Encode writes records as a dump framed by c.
func Encode(w io.Writer, records []model.Record, c Compression) error {
	data, err := Marshal(records, c)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal returns the dump of records framed by c.
func Marshal(records []model.Record, c Compression) ([]byte, error) {
	var buf bytes.Buffer

	cw := csv.NewWriter(&buf)
	cw.Comma = '\t'

	if err := cw.Write(Header); err != nil {
		return nil, err
	}
	row := make([]string, 3)
	for _, r := range records {
		row[0], row[1], row[2] = escape(r.Word), escape(r.Form), escape(r.Description)
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}

	return compress(buf.Bytes(), c)
}

// Decode reads a whole dump from r.
func Decode(r io.Reader) ([]model.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Unmarshal decodes a dump, plain or compressed.
// An empty input decodes to zero records.
func Unmarshal(data []byte) ([]model.Record, error) {
	plain, err := decompress(data)
	if err != nil {
		return nil, err
	}
	plain = bytes.TrimPrefix(plain, utf8BOM)
	if len(plain) == 0 {
		return nil, nil
	}

	cr := csv.NewReader(bytes.NewReader(plain))
	cr.Comma = '\t'
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}

	wordIdx := columnIndex(header, wordColumns)
	formIdx := columnIndex(header, formColumns)
	descIdx := columnIndex(header, descColumns)
	if wordIdx < 0 || formIdx < 0 {
		return nil, fmt.Errorf("%w: header %q lacks word or form column", ErrMalformed, header)
	}

	// Every row must have as many fields as the header.
	cr.FieldsPerRecord = len(header)

	field := func(s string) (string, error) { return s, nil }
	if header[wordIdx] == Header[0] {
		field = unescape
	}

	var records []model.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		var rec model.Record
		if rec.Word, err = field(row[wordIdx]); err != nil {
			return nil, err
		}
		if rec.Form, err = field(row[formIdx]); err != nil {
			return nil, err
		}
		if descIdx >= 0 {
			if rec.Description, err = field(row[descIdx]); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func columnIndex(header []string, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if h == name {
				return i
			}
		}
	}
	return -1
}
