package domain

import (
	"errors"
	"strings"
	"time"
)

type TableStatus string

const (
	StatusAvailable TableStatus = "Available"
	StatusOccupied  TableStatus = "Occupied"
	StatusReserved  TableStatus = "Reserved"
)

var ErrInvalidStatus = errors.New("invalid table status")

// ParseTableStatus accepts any casing and returns the canonical label.
func ParseTableStatus(s string) (TableStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return StatusAvailable, nil
	case "occupied":
		return StatusOccupied, nil
	case "reserved":
		return StatusReserved, nil
	}
	return "", ErrInvalidStatus
}

func AllStatuses() []TableStatus {
	return []TableStatus{StatusAvailable, StatusOccupied, StatusReserved}
}

type Table struct {
	ID          int         `json:"id"`
	TableNumber string      `json:"table_number"`
	Capacity    int         `json:"capacity"`
	Status      TableStatus `json:"status"`
	Location    string      `json:"location"`
	Active      bool        `json:"active"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// LineItem is one cart entry keyed by menu identifier. The JSON names match
// what the page scripts store under the "cart" key.
type LineItem struct {
	MenuID    string  `json:"menuId"`
	MenuName  string  `json:"menuName"`
	MenuPrice float64 `json:"menuPrice"`
	Quantity  int     `json:"quantity"`
}
