package model

import (
	"fmt"
	"time"
)

// EventSort enumerates the supported orderings for event listings. Each key
// maps to a fixed SQL order clause in the repository layer, so an invalid
// sort key is rejected when parsed instead of reaching the store.
type EventSort int

const (
	EventSortByDate EventSort = iota
	EventSortByTitle
	EventSortByAttendees
)

// ParseEventSort maps the wire-level sort name to its enumerated key.
// An empty name defaults to sorting by date.
func ParseEventSort(name string) (EventSort, error) {
	switch name {
	case "", "date":
		return EventSortByDate, nil
	case "title":
		return EventSortByTitle, nil
	case "attendees":
		return EventSortByAttendees, nil
	default:
		return EventSortByDate, fmt.Errorf("%w: unknown sort key %q", ErrValidation, name)
	}
}

// EventQuery holds the filtering, ordering, and paging parameters for the
// paged event listing.
type EventQuery struct {
	Location string
	From     *time.Time
	To       *time.Time
	SortBy   EventSort
	Desc     bool
	Page     int
	Size     int
}
