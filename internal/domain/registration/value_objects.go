package registration

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmptyName    = errors.New("name cannot be empty")
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Contact carries the registrant fields the core depends on for
// notification delivery. Anything else submitted alongside them is kept
// as an opaque pass-through blob on the aggregate.
type Contact struct {
	firstName   string
	surname     string
	email       string
	phoneNumber string
	countryCode string
}

func NewContact(firstName, surname, email, phoneNumber, countryCode string) (Contact, error) {
	firstName = strings.TrimSpace(firstName)
	surname = strings.TrimSpace(surname)
	if firstName == "" || surname == "" {
		return Contact{}, ErrEmptyName
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegex.MatchString(email) {
		return Contact{}, ErrInvalidEmail
	}

	return Contact{
		firstName:   firstName,
		surname:     surname,
		email:       email,
		phoneNumber: strings.TrimSpace(phoneNumber),
		countryCode: strings.TrimSpace(countryCode),
	}, nil
}

func ReconstructContact(firstName, surname, email, phoneNumber, countryCode string) Contact {
	return Contact{
		firstName:   firstName,
		surname:     surname,
		email:       email,
		phoneNumber: phoneNumber,
		countryCode: countryCode,
	}
}

func (c Contact) FirstName() string   { return c.firstName }
func (c Contact) Surname() string     { return c.surname }
func (c Contact) Email() string       { return c.email }
func (c Contact) PhoneNumber() string { return c.phoneNumber }
func (c Contact) CountryCode() string { return c.countryCode }

func (c Contact) FullName() string {
	return c.firstName + " " + c.surname
}

// FullPhoneNumber joins the country code and local number for the
// messaging channel.
func (c Contact) FullPhoneNumber() string {
	if c.countryCode == "" {
		return c.phoneNumber
	}
	return c.countryCode + strings.TrimPrefix(c.phoneNumber, "0")
}
