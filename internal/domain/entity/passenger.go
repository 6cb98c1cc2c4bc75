package entity

import (
	"time"

	"airportfm-service/pkg/apperror"
)

// Field names carry PascalCase bson tags to match the existing document set;
// the Mongo documents were written with model field names as keys.

// Baggage is embedded in a Ticket and has no lifecycle of its own.
type Baggage struct {
	BaggageNumber string  `json:"BaggageNumber" bson:"BaggageNumber"`
	BaggageType   string  `json:"BaggageType" bson:"BaggageType"`
	Weight        float64 `json:"Weight" bson:"Weight"`
	BaggageStatus string  `json:"BaggageStatus" bson:"BaggageStatus"`
	Location      string  `json:"Location" bson:"Location"`
}

// TicketRoute is the origin/destination pair on a ticket.
type TicketRoute struct {
	Origin      string `json:"Origin" bson:"Origin"`
	Destination string `json:"Destination" bson:"Destination"`
}

// Ticket is embedded in a Passenger document. Each ticket carries exactly one
// baggage record and zero or more ratings.
type Ticket struct {
	TicketNumber  string      `json:"TicketNumber" bson:"TicketNumber"`
	Route         TicketRoute `json:"Route" bson:"Route"`
	DepartureTime time.Time   `json:"DepartureTime" bson:"DepartureTime"`
	ArrivalTime   time.Time   `json:"ArrivalTime" bson:"ArrivalTime"`
	Class         string      `json:"Class" bson:"Class"`
	Price         float64     `json:"Price" bson:"Price"`
	TicketStatus  string      `json:"TicketStatus" bson:"TicketStatus"`
	Ratings       []int       `json:"Ratings" bson:"Ratings"`
	Baggage       Baggage     `json:"Baggage" bson:"Baggage"`
}

// ContactInfo holds passenger contact details.
type ContactInfo struct {
	Email   string `json:"Email" bson:"Email"`
	Phone   string `json:"Phone" bson:"Phone"`
	Address string `json:"Address" bson:"Address"`
}

// Passenger is the canonical passenger document, owned by the Mongo store.
// The document is self-contained: tickets and baggage exist only inside
// their parent passenger.
type Passenger struct {
	PassengerID         string      `json:"PassengerID" bson:"PassengerID"`
	LastName            string      `json:"LastName" bson:"LastName"`
	FirstName           string      `json:"FirstName" bson:"FirstName"`
	MiddleName          *string     `json:"MiddleName" bson:"MiddleName,omitempty"`
	DateOfBirth         string      `json:"DateOfBirth" bson:"DateOfBirth"` // YYYY-MM-DD
	ContactInfo         ContactInfo `json:"ContactInfo" bson:"ContactInfo"`
	IsTransit           bool        `json:"IsTransit" bson:"IsTransit"`
	SpecialRequirements []string    `json:"SpecialRequirements" bson:"SpecialRequirements,omitempty"`
	Tickets             []Ticket    `json:"Tickets" bson:"Tickets"`
}

// PassengerUpdate is a partial passenger payload for merge updates. A nil
// field was absent from the request and must leave the stored value
// untouched; a present field replaces the stored value wholesale, embedded
// documents included.
type PassengerUpdate struct {
	LastName            *string      `json:"LastName" bson:"LastName,omitempty"`
	FirstName           *string      `json:"FirstName" bson:"FirstName,omitempty"`
	MiddleName          *string      `json:"MiddleName" bson:"MiddleName,omitempty"`
	DateOfBirth         *string      `json:"DateOfBirth" bson:"DateOfBirth,omitempty"`
	ContactInfo         *ContactInfo `json:"ContactInfo" bson:"ContactInfo,omitempty"`
	IsTransit           *bool        `json:"IsTransit" bson:"IsTransit,omitempty"`
	SpecialRequirements []string     `json:"SpecialRequirements" bson:"SpecialRequirements,omitempty"`
	Tickets             []Ticket     `json:"Tickets" bson:"Tickets,omitempty"`
}

const dateOfBirthLayout = "2006-01-02"

// Validate checks only the fields the update supplies; absent fields carry
// no constraints because they will not be written.
func (u *PassengerUpdate) Validate() error {
	if u.LastName != nil && *u.LastName == "" {
		return apperror.Validationf("LastName must not be empty")
	}
	if u.FirstName != nil && *u.FirstName == "" {
		return apperror.Validationf("FirstName must not be empty")
	}
	if u.DateOfBirth != nil && *u.DateOfBirth != "" {
		if _, err := time.Parse(dateOfBirthLayout, *u.DateOfBirth); err != nil {
			return apperror.Validationf("DateOfBirth must be YYYY-MM-DD")
		}
	}
	if u.ContactInfo != nil && u.ContactInfo.Email == "" {
		return apperror.Validationf("ContactInfo.Email is required")
	}
	for i, t := range u.Tickets {
		if t.TicketNumber == "" {
			return apperror.Validationf("Tickets[%d].TicketNumber is required", i)
		}
		if t.Baggage.BaggageNumber == "" {
			return apperror.Validationf("Tickets[%d].Baggage.BaggageNumber is required", i)
		}
		for _, r := range t.Ratings {
			if r < 1 || r > 5 {
				return apperror.Validationf("Tickets[%d].Ratings must be between 1 and 5", i)
			}
		}
	}
	return nil
}

// ApplyTo merges the supplied fields into the passenger, mirroring what the
// store-level field update does to the persisted document.
func (u *PassengerUpdate) ApplyTo(p *Passenger) {
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.MiddleName != nil {
		p.MiddleName = u.MiddleName
	}
	if u.DateOfBirth != nil {
		p.DateOfBirth = *u.DateOfBirth
	}
	if u.ContactInfo != nil {
		p.ContactInfo = *u.ContactInfo
	}
	if u.IsTransit != nil {
		p.IsTransit = *u.IsTransit
	}
	if u.SpecialRequirements != nil {
		p.SpecialRequirements = u.SpecialRequirements
	}
	if u.Tickets != nil {
		p.Tickets = u.Tickets
	}
}

// Validate checks the payload before any store call.
func (p *Passenger) Validate() error {
	if p.PassengerID == "" {
		return apperror.Validationf("PassengerID is required")
	}
	if p.LastName == "" {
		return apperror.Validationf("LastName is required")
	}
	if p.FirstName == "" {
		return apperror.Validationf("FirstName is required")
	}
	if p.DateOfBirth != "" {
		if _, err := time.Parse(dateOfBirthLayout, p.DateOfBirth); err != nil {
			return apperror.Validationf("DateOfBirth must be YYYY-MM-DD")
		}
	}
	if p.ContactInfo.Email == "" {
		return apperror.Validationf("ContactInfo.Email is required")
	}
	for i, t := range p.Tickets {
		if t.TicketNumber == "" {
			return apperror.Validationf("Tickets[%d].TicketNumber is required", i)
		}
		if t.Baggage.BaggageNumber == "" {
			return apperror.Validationf("Tickets[%d].Baggage.BaggageNumber is required", i)
		}
		for _, r := range t.Ratings {
			if r < 1 || r > 5 {
				return apperror.Validationf("Tickets[%d].Ratings must be between 1 and 5", i)
			}
		}
	}
	return nil
}
