package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Billable categories for a time entry.
const (
	Billable    = "Billable"
	NonBillable = "Non-billable"
)

// clockLayout is the wire format for time_in/time_out. Parsing against it
// pins both values to the same reference date so only the time of day
// contributes to the computed duration.
const clockLayout = "15:04"

// TimeEntry represents one logged work session.
// Table `time_entries`:
// id, created_at, date, activity, project, time_in, time_out, billable, hours_worked, user_id
type TimeEntry struct {
	ID          int64     `json:"id" db:"id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Date        string    `json:"date" db:"date"` // ISO date, YYYY-MM-DD
	Activity    string    `json:"activity" db:"activity"`
	Project     string    `json:"project" db:"project"`
	TimeIn      string    `json:"time_in" db:"time_in"`
	TimeOut     string    `json:"time_out" db:"time_out"`
	Billable    string    `json:"billable" db:"billable"`
	HoursWorked float64   `json:"hours_worked" db:"hours_worked"`
	UserID      uint      `json:"user_id" db:"user_id"`
}

var ErrMissingFields = errors.New("date, activity, project, time_in and time_out are required")

type CreateTimeEntryRequest struct {
	Date     string `json:"date"`
	Activity string `json:"activity"`
	Project  string `json:"project"`
	TimeIn   string `json:"time_in"`
	TimeOut  string `json:"time_out"`
	Billable string `json:"billable"`
}

// Validate checks the required-field precondition for entry creation and
// normalizes the billable category. No store write may happen when it fails.
func (r *CreateTimeEntryRequest) Validate() error {
	if r.Date == "" || r.Activity == "" || r.Project == "" || r.TimeIn == "" || r.TimeOut == "" {
		return ErrMissingFields
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", r.Date)
	}
	if r.Billable == "" {
		r.Billable = Billable
	}
	if r.Billable != Billable && r.Billable != NonBillable {
		return fmt.Errorf("invalid billable category %q", r.Billable)
	}
	return nil
}

// ComputeHours returns (timeOut - timeIn) in hours, rounded to two decimals.
// A time-out earlier than time-in yields a negative value; that is accepted,
// not rejected, so overnight shifts come out negative rather than failing.
func ComputeHours(timeIn, timeOut string) (float64, error) {
	in, err := time.Parse(clockLayout, timeIn)
	if err != nil {
		return 0, fmt.Errorf("invalid time_in %q: expected HH:MM", timeIn)
	}
	out, err := time.Parse(clockLayout, timeOut)
	if err != nil {
		return 0, fmt.Errorf("invalid time_out %q: expected HH:MM", timeOut)
	}
	hours := out.Sub(in).Hours()
	return math.Round(hours*100) / 100, nil
}
