// Package source provides the backing stores from which contacts are read.
package source

import (
	"context"
	"fmt"
	"iter"

	"gitlab.com/dirk.krummacker/birthday-greeter/internal/model"
)

// fieldCount is the number of fields of a contact record: last name, first name, birthday and
// email, in this order.
const fieldCount = 4

// Source yields contacts from a backing store.
//
// All returns a single-use stream of contacts in store order. The stream ends after the first
// error; an error is never followed by further contacts. Calling All again restarts from the
// beginning of the store.
type Source interface {
	All(ctx context.Context) iter.Seq2[model.Contact, error]
}

// Collect reads all contacts of a source into a slice.
func Collect(ctx context.Context, src Source) ([]model.Contact, error) {
	var contacts []model.Contact
	for contact, err := range src.All(ctx) {
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

// contactFromRecord builds a contact from the fields of a single record.
func contactFromRecord(record []string, path string, line int) (model.Contact, error) {
	if len(record) != fieldCount {
		return model.Contact{}, &ParseError{
			Path: path,
			Line: line,
			Err:  fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(record), fieldCount),
		}
	}
	birthday, err := model.ParseDate(record[2])
	if err != nil {
		return model.Contact{}, &ParseError{Path: path, Line: line, Field: "birthday", Err: err}
	}
	return model.Contact{
		LastName:  record[0],
		FirstName: record[1],
		Birthday:  birthday,
		Email:     record[3],
	}, nil
}
