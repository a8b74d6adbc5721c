package model

import (
	"fmt"

	api "gitlab.com/dirk.krummacker/birthday-greeter/pkg/model"
)

// Public converts the contact into the shape that the HTTP API hands out.
func (c Contact) Public() api.Contact {
	return api.Contact{
		LastName:  c.LastName,
		FirstName: c.FirstName,
		Birthday:  FormatDate(c.Birthday),
		Email:     c.Email,
	}
}

// FromPublic converts a contact received from the HTTP API back into a Contact.
func FromPublic(p api.Contact) (Contact, error) {
	birthday, err := ParseDate(p.Birthday)
	if err != nil {
		return Contact{}, fmt.Errorf("contact %s %s: %w", p.FirstName, p.LastName, err)
	}
	return Contact{
		LastName:  p.LastName,
		FirstName: p.FirstName,
		Birthday:  birthday,
		Email:     p.Email,
	}, nil
}
