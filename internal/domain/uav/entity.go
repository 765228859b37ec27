// internal/domain/uav/entity.go
package uav

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusOperational Status = "operational"
	StatusMaintenance Status = "maintenance"
	StatusRepair      Status = "repair"
	StatusCritical    Status = "critical"
	StatusUnknown     Status = "unknown"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusOperational,
	StatusMaintenance,
	StatusRepair,
	StatusCritical,
	StatusUnknown,
}

func (s Status) Valid() bool {
	switch s {
	case StatusOperational, StatusMaintenance, StatusRepair, StatusCritical, StatusUnknown:
		return true
	}
	return false
}

// Normalize maps unrecognized or empty values to StatusUnknown.
func (s Status) Normalize() Status {
	if s.Valid() {
		return s
	}
	return StatusUnknown
}

// ParseStatus is strict: it rejects anything outside the enum.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q", s)
	}
	return status, nil
}

// UAV is one maintained unit of the fleet.
type UAV struct {
	ID               string    `json:"id" db:"id"`
	UAVNumber        string    `json:"uav_number" db:"uav_number"`
	Location         string    `json:"location" db:"location"`
	Status           Status    `json:"status" db:"status"`
	Malfunctions     string    `json:"malfunctions" db:"malfunctions"`
	ArrivalDate      Date      `json:"arrival_date" db:"arrival_date"`
	CompletionDate   *Date     `json:"completion_date,omitempty" db:"completion_date"`
	ManagerSignature *string   `json:"manager_signature,omitempty" db:"manager_signature"`
	Notes            *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// HasSignature reports whether a manager signature is attached.
func (u *UAV) HasSignature() bool {
	return u.ManagerSignature != nil && *u.ManagerSignature != ""
}
