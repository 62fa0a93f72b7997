package entity

import "time"

type Author struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	FamilyName  string     `json:"familyName"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	DateOfDeath *time.Time `json:"dateOfDeath,omitempty"`
}

// Name returns "familyName, firstName", or an empty string unless both
// parts are set.
func (a Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan renders "birth - death" with either side left empty when the
// date is unknown.
func (a Author) Lifespan() string {
	return FormatDate(a.DateOfBirth) + " - " + FormatDate(a.DateOfDeath)
}

func (a Author) ISODateOfBirth() string {
	return ISODate(a.DateOfBirth)
}

func (a Author) ISODateOfDeath() string {
	return ISODate(a.DateOfDeath)
}

// URL returns the canonical path of the author.
func (a Author) URL() string {
	return AuthorPath(a.ID)
}
