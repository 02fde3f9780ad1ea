// Package booking implements the appointment-booking form workflow as an
// explicit state machine: editing -> confirming -> submitting ->
// succeeded, with validation failures and rejected submissions looping
// back to editing. The backend owns all real scheduling decisions; this
// only sequences the form.
package booking

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

type State string

const (
	StateEditing    State = "editing"
	StateConfirming State = "confirming"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
)

var ErrInvalidTransition = errors.New("invalid booking state transition")

// MinReasonLength is the minimum rune count for the free-text reason.
const MinReasonLength = 10

const (
	msgMissingFields = "Please fill in all required fields"
	msgShortReason   = "Please provide a more detailed reason (at least 10 characters)"
	msgBadTime       = "Please choose a time within clinic hours"
)

type Form struct {
	DoctorID string
	Date     string // YYYY-MM-DD
	Time     string // HH:MM, must sit on the clinic grid
	Reason   string
}

// Validate checks the form the way the submit button does: all four
// fields present, the reason detailed enough, the time on the clinic
// grid. The returned string is the inline error to display; empty means
// the form is acceptable.
func (f Form) Validate() string {
	if f.DoctorID == "" || f.Date == "" || f.Time == "" || f.Reason == "" {
		return msgMissingFields
	}
	if utf8.RuneCountInString(f.Reason) < MinReasonLength {
		return msgShortReason
	}
	if !validTime(f.Time) {
		return msgBadTime
	}
	return ""
}

// Workflow is one page-scoped booking in progress. Err is the inline
// error shown while editing; it never survives a successful transition.
type Workflow struct {
	State State
	Form  Form
	Err   string
}

func New() *Workflow {
	return &Workflow{State: StateEditing}
}

// Submit takes the edited fields toward confirmation. On validation
// failure the workflow stays in editing with the inline error set and
// the fields preserved.
func (w *Workflow) Submit(f Form) error {
	if w.State != StateEditing {
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, w.State)
	}
	w.Form = f
	if msg := f.Validate(); msg != "" {
		w.Err = msg
		return nil
	}
	w.Err = ""
	w.State = StateConfirming
	return nil
}

// Back returns from the read-only confirmation to editing, keeping the
// fields.
func (w *Workflow) Back() error {
	if w.State != StateConfirming {
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, w.State)
	}
	w.State = StateEditing
	return nil
}

// Begin marks the create call as in flight. Calling it again before
// Finish is refused, which is what disables double submission.
func (w *Workflow) Begin() error {
	if w.State != StateConfirming {
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, w.State)
	}
	w.State = StateSubmitting
	return nil
}

// Finish records the outcome of the create call. Success clears the
// form; failure returns to editing with the server's message and the
// fields untouched.
func (w *Workflow) Finish(ok bool, message string) error {
	if w.State != StateSubmitting {
		return fmt.Errorf("%w: finish from %s", ErrInvalidTransition, w.State)
	}
	if ok {
		w.Form = Form{}
		w.Err = ""
		w.State = StateSucceeded
		return nil
	}
	if message == "" {
		message = "Failed to book appointment"
	}
	w.Err = message
	w.State = StateEditing
	return nil
}

// TimeSlot is one option on the clinic's half-hour grid.
type TimeSlot struct {
	Value string // HH:MM, 24h
	Label string // e.g. "09:30 AM"
}

// TimeSlots returns the bookable half-hour grid: 09:00-12:00 and
// 14:00-17:00, both ends inclusive. This mirrors clinic hours in the
// UI only; the backend still decides actual availability.
func TimeSlots() []TimeSlot {
	var slots []TimeSlot
	appendRange := func(from, to time.Time) {
		for t := from; !t.After(to); t = t.Add(30 * time.Minute) {
			slots = append(slots, TimeSlot{
				Value: t.Format("15:04"),
				Label: t.Format("03:04 PM"),
			})
		}
	}
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	appendRange(day.Add(9*time.Hour), day.Add(12*time.Hour))
	appendRange(day.Add(14*time.Hour), day.Add(17*time.Hour))
	return slots
}

func validTime(hhmm string) bool {
	for _, s := range TimeSlots() {
		if s.Value == hhmm {
			return true
		}
	}
	return false
}
