package source

import (
	"context"
	"errors"
	"io"
	"iter"
	"os"

	"gitlab.com/dirk.krummacker/birthday-greeter/internal/model"
)

// CSV reads contacts from a comma-separated file that uses '|' as its quote character and has
// no header row.
type CSV struct {
	path string
}

// NewCSV returns a source for the file at path. The file is not touched until the contacts are
// iterated.
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

// Path returns the location of the backing file.
func (s *CSV) Path() string {
	return s.path
}

// All opens the file and streams its records as contacts. The file is closed when the stream
// ends, fails, or the consumer stops early.
func (s *CSV) All(ctx context.Context) iter.Seq2[model.Contact, error] {
	return func(yield func(model.Contact, error) bool) {
		file, err := os.Open(s.path) // nosemgrep
		if err != nil {
			yield(model.Contact{}, &ReadError{Path: s.path, Err: err})
			return
		}
		defer file.Close()

		reader := newRecordReader(file, ',', '|')
		for {
			if err := ctx.Err(); err != nil {
				yield(model.Contact{}, err)
				return
			}
			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				var parseErr *ParseError
				if errors.As(err, &parseErr) {
					parseErr.Path = s.path
				} else {
					err = &ReadError{Path: s.path, Err: err}
				}
				yield(model.Contact{}, err)
				return
			}
			contact, err := contactFromRecord(record, s.path, reader.Line())
			if !yield(contact, err) || err != nil {
				return
			}
		}
	}
}
