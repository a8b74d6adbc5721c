// Package notifier renders greetings for contacts whose birthday it is.
package notifier

import (
	"fmt"
	"io"

	"gitlab.com/dirk.krummacker/birthday-greeter/internal/model"
)

// Notifier greets a list of contacts. A nil error means that every contact was greeted.
type Notifier interface {
	Notify(contacts []model.Contact) error
}

// Greeting returns the birthday greeting for a contact.
func Greeting(contact model.Contact) string {
	return fmt.Sprintf("Happy birthday, dear %s!", contact.FirstName)
}

// Console writes one greeting line per contact.
type Console struct {
	w io.Writer
}

// NewConsole returns a notifier that writes to w, usually os.Stdout.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Notify writes the greetings in the order of the contacts. It stops at the first failed write.
func (n *Console) Notify(contacts []model.Contact) error {
	for _, contact := range contacts {
		if _, err := fmt.Fprintln(n.w, Greeting(contact)); err != nil {
			return fmt.Errorf("greeting %s: %w", contact.FirstName, err)
		}
	}
	return nil
}
