// internal/domain/uav/dto.go
package uav

import (
	"fmt"
	"strings"
)

// CreateUAVRequest carries every field except the store-assigned id.
type CreateUAVRequest struct {
	UAVNumber        string  `json:"uav_number" binding:"required"`
	Location         string  `json:"location" binding:"required"`
	Status           Status  `json:"status"`
	Malfunctions     *string `json:"malfunctions" binding:"required"`
	ArrivalDate      Date    `json:"arrival_date"`
	CompletionDate   *Date   `json:"completion_date,omitempty"`
	ManagerSignature *string `json:"manager_signature,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

// Validate applies defaults and checks fields that binding tags cannot.
func (r *CreateUAVRequest) Validate() error {
	if strings.TrimSpace(r.UAVNumber) == "" {
		return fmt.Errorf("uav_number is required")
	}
	if strings.TrimSpace(r.Location) == "" {
		return fmt.Errorf("location is required")
	}
	if r.Malfunctions == nil {
		return fmt.Errorf("malfunctions must be present")
	}
	if r.ArrivalDate.IsZero() {
		return fmt.Errorf("arrival_date is required")
	}
	if r.Status == "" {
		r.Status = StatusUnknown
	}
	if !r.Status.Valid() {
		return fmt.Errorf("invalid status %q", r.Status)
	}
	return nil
}

// MalfunctionText returns the malfunction notes, empty when absent.
// StatusOrDefault is the status to persist; an omitted status is unknown.
func (r *CreateUAVRequest) StatusOrDefault() Status {
	if r.Status == "" {
		return StatusUnknown
	}
	return r.Status
}

func (r *CreateUAVRequest) MalfunctionText() string {
	if r.Malfunctions == nil {
		return ""
	}
	return *r.Malfunctions
}

// UpdateUAVRequest is a partial update: nil fields are left untouched.
type UpdateUAVRequest struct {
	UAVNumber        *string `json:"uav_number,omitempty"`
	Location         *string `json:"location,omitempty"`
	Status           *Status `json:"status,omitempty"`
	Malfunctions     *string `json:"malfunctions,omitempty"`
	ArrivalDate      *Date   `json:"arrival_date,omitempty"`
	CompletionDate   *Date   `json:"completion_date,omitempty"`
	ManagerSignature *string `json:"manager_signature,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

func (r *UpdateUAVRequest) Validate() error {
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("invalid status %q", *r.Status)
	}
	if r.ArrivalDate != nil && r.ArrivalDate.IsZero() {
		return fmt.Errorf("arrival_date cannot be empty")
	}
	return nil
}

// IsEmpty reports whether no field is set.
func (r *UpdateUAVRequest) IsEmpty() bool {
	return r.UAVNumber == nil && r.Location == nil && r.Status == nil &&
		r.Malfunctions == nil && r.ArrivalDate == nil && r.CompletionDate == nil &&
		r.ManagerSignature == nil && r.Notes == nil
}

// Apply copies the set fields onto u.
func (r *UpdateUAVRequest) Apply(u *UAV) {
	if r.UAVNumber != nil {
		u.UAVNumber = *r.UAVNumber
	}
	if r.Location != nil {
		u.Location = *r.Location
	}
	if r.Status != nil {
		u.Status = *r.Status
	}
	if r.Malfunctions != nil {
		u.Malfunctions = *r.Malfunctions
	}
	if r.ArrivalDate != nil {
		u.ArrivalDate = *r.ArrivalDate
	}
	if r.CompletionDate != nil {
		d := *r.CompletionDate
		u.CompletionDate = &d
	}
	if r.ManagerSignature != nil {
		s := *r.ManagerSignature
		u.ManagerSignature = &s
	}
	if r.Notes != nil {
		n := *r.Notes
		u.Notes = &n
	}
}

// UAVListFilters are the query parameters of the list endpoint.
type UAVListFilters struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

// FilterUpdateRequest changes the store's active search term and status filter.
type FilterUpdateRequest struct {
	Search *string `json:"search"`
	Status *string `json:"status"`
}

// SignatureRequest attaches a manager signature given as a data URL.
type SignatureRequest struct {
	Signature string `json:"signature" binding:"required"`
}

// Assignment is one column written by a partial update.
type Assignment struct {
	Column string
	Value  any
}

// Assignments lists the set fields as column/value pairs in column order.
// Dates are passed as Date values.
func (r *UpdateUAVRequest) Assignments() []Assignment {
	var out []Assignment
	if r.UAVNumber != nil {
		out = append(out, Assignment{"uav_number", *r.UAVNumber})
	}
	if r.Location != nil {
		out = append(out, Assignment{"location", *r.Location})
	}
	if r.Status != nil {
		out = append(out, Assignment{"status", string(*r.Status)})
	}
	if r.Malfunctions != nil {
		out = append(out, Assignment{"malfunctions", *r.Malfunctions})
	}
	if r.ArrivalDate != nil {
		out = append(out, Assignment{"arrival_date", *r.ArrivalDate})
	}
	if r.CompletionDate != nil {
		out = append(out, Assignment{"completion_date", *r.CompletionDate})
	}
	if r.ManagerSignature != nil {
		out = append(out, Assignment{"manager_signature", *r.ManagerSignature})
	}
	if r.Notes != nil {
		out = append(out, Assignment{"notes", *r.Notes})
	}
	return out
}
