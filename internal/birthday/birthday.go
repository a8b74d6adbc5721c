// Package birthday selects the contacts whose birthday falls on a reference date and greets them.
package birthday

import (
	"context"
	"fmt"
	"iter"
	"time"

	"gitlab.com/dirk.krummacker/birthday-greeter/internal/model"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/notifier"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/source"
	"go.uber.org/zap"
)

// Matches reports whether the contact has its birthday on the month and day of the reference
// date, regardless of the year. Contacts born on February 29 only match on February 29.
func Matches(reference time.Time, contact model.Contact) bool {
	return contact.Birthday.Month() == reference.Month() && contact.Birthday.Day() == reference.Day()
}

// Select returns the matching contacts of the stream in stream order. It stops at the first
// error of the stream and returns it together with no contacts.
func Select(reference time.Time, contacts iter.Seq2[model.Contact, error]) ([]model.Contact, error) {
	var selected []model.Contact
	for contact, err := range contacts {
		if err != nil {
			return nil, err
		}
		if Matches(reference, contact) {
			selected = append(selected, contact)
		}
	}
	return selected, nil
}

// Service greets the contacts of a source whose birthday it is.
type Service struct {
	source   source.Source
	notifier notifier.Notifier
	logger   *zap.Logger
}

// NewService wires a source and a notifier together. A nil logger disables logging.
func NewService(src source.Source, n notifier.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: src, notifier: n, logger: logger}
}

// Execute reads the whole source, selects the contacts whose birthday falls on the reference
// date, and notifies them. Nobody is notified unless the source was read without errors.
func (s *Service) Execute(ctx context.Context, reference time.Time) error {
	selected, err := Select(reference, s.source.All(ctx))
	if err != nil {
		return err
	}
	s.logger.Debug("Birthdays selected",
		zap.String("date", model.FormatDate(reference)),
		zap.Int("contacts", len(selected)))
	if err := s.notifier.Notify(selected); err != nil {
		return fmt.Errorf("notifying contacts: %w", err)
	}
	return nil
}
