package core

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type (
	// Date is a calendar date without a time-of-day component.
	// It marshals to and from the YYYY-MM-DD wire format.
	Date struct {
		time.Time
	}

	// Card is a payment instrument used to fund subscriptions.
	// Cards are immutable once created; they are removed by explicit delete,
	// which also removes every subscription funded by them.
	Card struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Last4     string    `json:"last4"`
		Expiry    string    `json:"expiry"` // MM/YY
		CreatedAt time.Time `json:"createdAt"`
	}

	// Service is a reusable template for creating subscriptions quickly.
	// Deleting a service never touches subscriptions created from it: each
	// subscription carries its own snapshot of the service fields.
	Service struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		DefaultPrice *Money    `json:"defaultPrice,omitempty"`
		BillingURL   string    `json:"billingUrl"`
		Category     string    `json:"category,omitempty"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	// Subscription is a recurring charge funded by a card.
	//
	// ServiceID optionally links back to the Service template, while
	// ServiceName, Price and BillingURL are copied from it at creation time.
	// The dual representation is intentional denormalization: the snapshot
	// keeps the subscription intact when the template is deleted, so it must
	// not be replaced by a live join on ServiceID.
	Subscription struct {
		ID          string    `json:"id"`
		CardID      string    `json:"cardId"`
		ServiceID   string    `json:"serviceId,omitempty"`
		ServiceName string    `json:"service"`
		Price       Money     `json:"price"`
		Credits     string    `json:"credits"`
		RenewalDate Date      `json:"renewalDate"`
		Notes       string    `json:"notes"`
		BillingURL  string    `json:"billingUrl"`
		CreatedAt   time.Time `json:"createdAt"`
	}
)

var (
	ErrEmptyName      = errors.New("empty name")
	ErrInvalidLast4   = errors.New("last4 must be exactly 4 digits")
	ErrInvalidExpiry  = errors.New("expiry must be in MM/YY format")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")
	ErrMissingCardRef = errors.New("missing card reference")
)

var expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// NewDate creates a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// DateOf truncates an instant to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Last4) != 4 {
		return ErrInvalidLast4
	}
	for _, r := range c.Last4 {
		if r < '0' || r > '9' {
			return ErrInvalidLast4
		}
	}
	if !expiryRe.MatchString(c.Expiry) {
		return ErrInvalidExpiry
	}
	return nil
}

func (s Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.DefaultPrice != nil {
		if err := s.DefaultPrice.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s Subscription) Validate() error {
	if s.CardID == "" {
		return ErrMissingCardRef
	}
	if strings.TrimSpace(s.ServiceName) == "" {
		return ErrEmptyName
	}
	if err := s.Price.Validate(); err != nil {
		return err
	}
	return s.RenewalDate.Validate()
}
