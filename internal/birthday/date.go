package birthday

import (
	"fmt"
	"time"

	"gitlab.com/dirk.krummacker/birthday-greeter/internal/model"
)

// InvalidDateError means that a reference date given by the user is not an ISO-8601 date.
type InvalidDateError struct {
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid reference date %q: expected YYYY-MM-DD", e.Value)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// ResolveReferenceDate returns the date given by value, or the current calendar day according to
// now if value is empty. now is called on every invocation, never earlier.
func ResolveReferenceDate(value string, now func() time.Time) (time.Time, error) {
	if value == "" {
		return model.Today(now()), nil
	}
	date, err := model.ParseDate(value)
	if err != nil {
		return time.Time{}, &InvalidDateError{Value: value, Err: err}
	}
	return date, nil
}
