package model

// Contact is the data structure for a person that we know, as it is returned by the HTTP API.
// The birthday is an ISO-8601 calendar date such as "1990-03-15".
type Contact struct {
	LastName  string `json:"lastname"`
	FirstName string `json:"firstname"`
	Birthday  string `json:"birthday"`
	Email     string `json:"email"`
}
