package docstore

import (
	"github.com/medictrans/oncall-api/internal/model"
)

// The functions below turn partial updates into Firestore field maps keyed
// by the stored field names. Only supplied fields are present.

func userFields(p *model.UserPatch) map[string]interface{} {
	fields := map[string]interface{}{}
	if p == nil {
		return fields
	}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.Role != nil {
		fields["role"] = *p.Role
	}
	return fields
}

func requestFields(p *model.RequestPatch) map[string]interface{} {
	fields := map[string]interface{}{}
	if p == nil {
		return fields
	}
	if p.Appointment != nil {
		fields["appointment"] = *p.Appointment
	}
	if p.Additional != nil {
		fields["additional"] = *p.Additional
	}
	if p.Response != nil {
		fields["response"] = *p.Response
	}
	if p.Canceled != nil {
		fields["canceled"] = *p.Canceled
	}
	if p.ServiceIDs != nil {
		fields["serviceIds"] = p.ServiceIDs
	}
	return fields
}

func serviceFields(p *model.ServicePatch) map[string]interface{} {
	fields := map[string]interface{}{}
	if p == nil {
		return fields
	}
	if p.BGTitle != nil {
		fields["bgTitle"] = string(*p.BGTitle)
	}
	if p.ENTitle != nil {
		fields["enTitle"] = string(*p.ENTitle)
	}
	if p.BGDescription != nil {
		fields["bgDescription"] = *p.BGDescription
	}
	if p.ENDescription != nil {
		fields["enDescription"] = *p.ENDescription
	}
	return fields
}
