package model

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusApproved  AppointmentStatus = "APPROVED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusRejected  AppointmentStatus = "REJECTED"
)

// Statuses lists every appointment status in display order.
var Statuses = []AppointmentStatus{
	StatusPending,
	StatusApproved,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Phone          string    `json:"phone,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Appointment is the canonical client-side shape. The backend has shipped
// two parallel naming schemes for the date/time/doctor fields; decoding
// accepts both and maps everything onto the canonical camelCase names.
type Appointment struct {
	ID                   string            `json:"id"`
	PatientID            string            `json:"patientId"`
	DoctorID             string            `json:"doctorId"`
	PatientName          string            `json:"patientName,omitempty"`
	PatientEmail         string            `json:"patientEmail,omitempty"`
	DoctorName           string            `json:"doctorName,omitempty"`
	DoctorEmail          string            `json:"doctorEmail,omitempty"`
	DoctorSpecialization string            `json:"doctorSpecialization,omitempty"`
	Date                 string            `json:"appointmentDate"` // YYYY-MM-DD
	Time                 string            `json:"appointmentTime"` // HH:MM, 24h
	Reason               string            `json:"reason"`
	Notes                string            `json:"notes,omitempty"`
	Status               AppointmentStatus `json:"status"`
	CancelledBy          Role              `json:"cancelledBy,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
}

// appointmentWire carries both naming schemes the backend has been seen
// emitting: the canonical appointmentDate/appointmentTime and the legacy
// date/time keys.
type appointmentWire struct {
	ID                   string            `json:"id"`
	PatientID            string            `json:"patientId"`
	DoctorID             string            `json:"doctorId"`
	PatientName          string            `json:"patientName"`
	PatientEmail         string            `json:"patientEmail"`
	DoctorName           string            `json:"doctorName"`
	DoctorEmail          string            `json:"doctorEmail"`
	DoctorSpecialization string            `json:"doctorSpecialization"`
	AppointmentDate      string            `json:"appointmentDate"`
	AppointmentTime      string            `json:"appointmentTime"`
	LegacyDate           string            `json:"date"`
	LegacyTime           string            `json:"time"`
	Reason               string            `json:"reason"`
	Notes                string            `json:"notes"`
	Status               AppointmentStatus `json:"status"`
	CancelledBy          Role              `json:"cancelledBy"`
	CreatedAt            time.Time         `json:"createdAt"`
}

func (a *Appointment) UnmarshalJSON(data []byte) error {
	var w appointmentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = Appointment{
		ID:                   w.ID,
		PatientID:            w.PatientID,
		DoctorID:             w.DoctorID,
		PatientName:          w.PatientName,
		PatientEmail:         w.PatientEmail,
		DoctorName:           w.DoctorName,
		DoctorEmail:          w.DoctorEmail,
		DoctorSpecialization: w.DoctorSpecialization,
		Date:                 w.AppointmentDate,
		Time:                 w.AppointmentTime,
		Reason:               w.Reason,
		Notes:                w.Notes,
		Status:               w.Status,
		CancelledBy:          w.CancelledBy,
		CreatedAt:            w.CreatedAt,
	}
	if a.Date == "" {
		a.Date = w.LegacyDate
	}
	if a.Time == "" {
		a.Time = w.LegacyTime
	}
	return nil
}
