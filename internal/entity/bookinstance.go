package entity

import "time"

// Status is the circulation state of a physical copy.
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusMaintenance Status = "Maintenance"
	StatusLoaned      Status = "Loaned"
	StatusReserved    Status = "Reserved"
)

// DefaultStatus is assigned when a submission leaves the status empty.
const DefaultStatus = StatusMaintenance

// Statuses lists every status in display order.
var Statuses = []Status{StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved}

// BookInstance is a physical copy of a Book.
type BookInstance struct {
	ID      string    `json:"id"`
	BookID  string    `json:"book"`
	Imprint string    `json:"imprint"`
	Status  Status    `json:"status"`
	DueBack time.Time `json:"dueBack"`
}

// URL returns the canonical path of the copy.
func (bi BookInstance) URL() string {
	return BookInstancePath(bi.ID)
}

// DueBackFormatted renders the due date in the medium human format.
func (bi BookInstance) DueBackFormatted() string {
	return FormatDate(&bi.DueBack)
}

func (bi BookInstance) ISODueBack() string {
	return ISODate(&bi.DueBack)
}
