package source

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

// recordReader reads delimiter-separated records where a field may be enclosed in a quote
// character. The quote is only special at the start of a field. Within a quoted field the
// delimiter and line breaks are literal and a doubled quote stands for one quote character.
// A blank line is a record without fields. The line break that ends the last line does not start
// another record.
type recordReader struct {
	r     *bufio.Reader
	comma rune
	quote rune
	line  int
	start int
}

func newRecordReader(r io.Reader, comma rune, quote rune) *recordReader {
	return &recordReader{r: bufio.NewReader(r), comma: comma, quote: quote}
}

// Line returns the line number on which the most recently read record starts.
func (r *recordReader) Line() int {
	return r.start
}

// Read returns the next record or io.EOF once the input is exhausted.
func (r *recordReader) Read() ([]string, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	r.start = r.line
	if line == "" {
		return []string{}, nil
	}
	return r.parseRecord(line)
}

// readLine returns the next line without its line terminator.
func (r *recordReader) readLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	r.line++
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

func (r *recordReader) parseRecord(line string) ([]string, error) {
	var fields []string
	var field strings.Builder
	quoted := false
	atStart := true
	for {
		for i := 0; i < len(line); {
			c, size := utf8.DecodeRuneInString(line[i:])
			i += size
			switch {
			case quoted:
				if c != r.quote {
					field.WriteRune(c)
				} else if next, nextSize := utf8.DecodeRuneInString(line[i:]); next == r.quote {
					field.WriteRune(r.quote)
					i += nextSize
				} else {
					quoted = false
				}
			case c == r.comma:
				fields = append(fields, field.String())
				field.Reset()
				atStart = true
				continue
			case c == r.quote && atStart:
				quoted = true
			default:
				field.WriteRune(c)
			}
			atStart = false
		}
		if !quoted {
			break
		}
		next, err := r.readLine()
		if err == io.EOF {
			return nil, &ParseError{Line: r.start, Err: ErrUnterminatedQuote}
		}
		if err != nil {
			return nil, err
		}
		field.WriteByte('\n')
		line = next
	}
	return append(fields, field.String()), nil
}
