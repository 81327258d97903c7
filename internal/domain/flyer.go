package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Flyer is one promotional catalog of a retailer. Discovery strategies produce candidate
// flyers; a reconciled, persisted sequence of flyers forms a retailer's store index.
type Flyer struct {
	URL         string    `json:"url"`
	ValidFrom   Date      `json:"valid_from"`
	ValidTo     Date      `json:"valid_to"`
	Title       string    `json:"title,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

var (
	ErrMissingURL      = errors.New("flyer url is empty")
	ErrMissingValidity = errors.New("flyer validity window is incomplete")
)

// NewFlyer builds a candidate stamped with the discovery time.
func NewFlyer(url string, from, to Date, now time.Time) Flyer {
	return Flyer{
		URL:         strings.TrimSpace(url),
		ValidFrom:   from,
		ValidTo:     to,
		LastUpdated: now.UTC(),
	}
}

// UnmarshalJSON reads last_updated leniently so a zone-less or damaged timestamp does not
// fail the whole index. Encoding stays RFC 3339 with nanoseconds.
func (f *Flyer) UnmarshalJSON(data []byte) error {
	type plain Flyer
	aux := struct {
		*plain
		LastUpdated looseTime `json:"last_updated"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f.LastUpdated = time.Time(aux.LastUpdated)
	return nil
}

// HasValidity reports whether both ends of the validity window are present.
func (f Flyer) HasValidity() bool {
	return !f.ValidFrom.IsZero() && !f.ValidTo.IsZero()
}

// Validate checks the invariants every indexed flyer must satisfy.
func (f Flyer) Validate() error {
	if strings.TrimSpace(f.URL) == "" {
		return ErrMissingURL
	}
	if !f.HasValidity() {
		return ErrMissingValidity
	}
	if f.ValidTo.Before(f.ValidFrom) {
		return fmt.Errorf("flyer valid_to %s precedes valid_from %s", f.ValidTo, f.ValidFrom)
	}
	return nil
}

// ActiveOn reports whether day falls inside the inclusive validity window.
func (f Flyer) ActiveOn(day Date) bool {
	if !f.HasValidity() {
		return false
	}
	return !day.Before(f.ValidFrom) && !day.After(f.ValidTo)
}
