package model

import (
	"math"

	"github.com/samber/lo"
)

// TriageStatus is the admin view of where a request's conversation stands.
type TriageStatus string

const (
	// TriageNew: no messages yet.
	TriageNew TriageStatus = "new"
	// TriageAnswered: the latest message is from an admin.
	TriageAnswered TriageStatus = "answered"
	// TriageCommented: the latest message is from the patient.
	TriageCommented TriageStatus = "commented"
	// TriageEnded: the request was canceled.
	TriageEnded TriageStatus = "ended"
)

var TriageStatuses = []TriageStatus{TriageNew, TriageAnswered, TriageCommented, TriageEnded}

func ParseTriageStatus(s string) (TriageStatus, bool) {
	st := TriageStatus(s)
	return st, lo.Contains(TriageStatuses, st)
}

// Classify derives the triage status of a request. Cancellation wins over
// any conversation state.
func Classify(r *Request, messages []*Message, users []*User) TriageStatus {
	switch {
	case r.Canceled:
		return TriageEnded
	case !HasMessages(r.ID, messages):
		return TriageNew
	case IsLastMessageFromAdmin(r.ID, messages, users):
		return TriageAnswered
	default:
		return TriageCommented
	}
}

// GroupByStatus buckets requests by Classify. Every status has an entry and
// buckets keep the input order.
func GroupByStatus(requests []*Request, messages []*Message, users []*User) map[TriageStatus][]*Request {
	groups := make(map[TriageStatus][]*Request, len(TriageStatuses))
	for _, st := range TriageStatuses {
		groups[st] = []*Request{}
	}
	for _, r := range requests {
		st := Classify(r, messages, users)
		groups[st] = append(groups[st], r)
	}
	return groups
}

// PercentUsersWithRequests is the share of users that booked at least once,
// rounded to two decimals.
func PercentUsersWithRequests(users []*User, requests []*Request) float64 {
	if len(users) == 0 {
		return 0
	}
	patients := lo.Uniq(lo.Map(requests, func(r *Request, _ int) string {
		return r.PatientID
	}))
	withRequests := lo.CountBy(users, func(u *User) bool {
		return lo.Contains(patients, u.ID)
	})
	pct := float64(withRequests) / float64(len(users)) * 100
	return math.Round(pct*100) / 100
}
