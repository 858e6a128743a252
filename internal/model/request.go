package model

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Request is a booked home visit.
type Request struct {
	ID               string    `json:"id" firestore:"-"`
	PatientID        string    `json:"patient_id" firestore:"patientId"`
	PatientFirstName string    `json:"patient_first_name" firestore:"patientFirstName"`
	PatientLastName  string    `json:"patient_last_name" firestore:"patientLastName"`
	PatientPhone     string    `json:"patient_phone" firestore:"patientPhone"`
	PatientStreet    string    `json:"patient_street" firestore:"patientStreet"`
	PatientCity      string    `json:"patient_city" firestore:"patientCity"`
	PatientCountry   string    `json:"patient_country" firestore:"patientCountry"`
	HospitalStreet   string    `json:"hospital_street" firestore:"hospitalStreet"`
	HospitalCity     string    `json:"hospital_city" firestore:"hospitalCity"`
	HospitalCountry  string    `json:"hospital_country" firestore:"hospitalCountry"`
	ServiceIDs       []string  `json:"service_ids" firestore:"serviceIds"`
	Appointment      time.Time `json:"appointment" firestore:"appointment"`
	Additional       string    `json:"additional" firestore:"additional"`
	Response         string    `json:"response" firestore:"response"`
	Canceled         bool      `json:"canceled" firestore:"canceled"`
	CreatedAt        time.Time `json:"created_at" firestore:"createdAt"`
}

// RequestPatch carries the fields of a partial request update.
type RequestPatch struct {
	Appointment *time.Time
	Additional  *string
	Response    *string
	Canceled    *bool
	ServiceIDs  []string
}

type CreateRequestRequest struct {
	PatientFirstName string    `json:"patient_first_name" binding:"required"`
	PatientLastName  string    `json:"patient_last_name" binding:"required"`
	PatientPhone     string    `json:"patient_phone" binding:"required"`
	PatientStreet    string    `json:"patient_street" binding:"required"`
	PatientCity      string    `json:"patient_city" binding:"required"`
	PatientCountry   string    `json:"patient_country" binding:"required"`
	HospitalStreet   string    `json:"hospital_street"`
	HospitalCity     string    `json:"hospital_city"`
	HospitalCountry  string    `json:"hospital_country"`
	ServiceIDs       []string  `json:"service_ids" binding:"required,min=1,dive,required"`
	Appointment      time.Time `json:"appointment" binding:"required"`
	Additional       string    `json:"additional"`
	Locale           string    `json:"locale" binding:"omitempty,locale"`
}

// HasAppointmentPassed reports whether the appointment is not in the future.
func HasAppointmentPassed(r *Request) bool {
	return HasAppointmentPassedAt(r, time.Now())
}

func HasAppointmentPassedAt(r *Request, now time.Time) bool {
	return !r.Appointment.After(now)
}

// SortRequests orders requests for a patient's list: upcoming ones first,
// then past ones, then canceled ones, each group by appointment ascending.
// The input slice is not modified.
func SortRequests(requests []*Request) []*Request {
	return SortRequestsAt(requests, time.Now())
}

func SortRequestsAt(requests []*Request, now time.Time) []*Request {
	sorted := make([]*Request, len(requests))
	copy(sorted, requests)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Appointment.Before(sorted[j].Appointment)
	})

	future := lo.Filter(sorted, func(r *Request, _ int) bool {
		return !r.Canceled && !HasAppointmentPassedAt(r, now)
	})
	past := lo.Filter(sorted, func(r *Request, _ int) bool {
		return !r.Canceled && HasAppointmentPassedAt(r, now)
	})
	canceled := lo.Filter(sorted, func(r *Request, _ int) bool {
		return r.Canceled
	})

	return append(append(future, past...), canceled...)
}

// HasService reports whether the request references serviceID.
func (r *Request) HasService(serviceID string) bool {
	return lo.Contains(r.ServiceIDs, serviceID)
}

// AccessibleBy reports whether u may read or modify the request.
func (r *Request) AccessibleBy(u *User) bool {
	return u.IsAdmin() || (u != nil && u.ID == r.PatientID)
}
