package models

import (
	"net/url"
	"strings"
)

// ReportForm is the flat shape of a report as it travels through HTML forms
// and JSON files. Fields of categories other than Category are ignored when
// converting to a Report.
type ReportForm struct {
	Date      string `json:"date"`
	StoreName string `json:"storeName"`
	StaffName string `json:"staffName"`
	Category  string `json:"category"`

	ErrorMessage       string `json:"errorMessage,omitempty"`
	ErrorMessageDetail string `json:"errorMessageDetail,omitempty"`
	DamagedPart        string `json:"damagedPart,omitempty"`
	DamagedPartDetail  string `json:"damagedPartDetail,omitempty"`
	Side               string `json:"side,omitempty"`
	WiringError        string `json:"wiringError,omitempty"`
	Remarks            string `json:"remarks,omitempty"`

	DamageType       string `json:"damageType,omitempty"`
	DamageTypeDetail string `json:"damageTypeDetail,omitempty"`
	Details          string `json:"details,omitempty"`

	FreeText string `json:"freeText,omitempty"`
}

// ParseReportForm reads a ReportForm from posted form values.
func ParseReportForm(v url.Values) ReportForm {
	return ReportForm{
		Date:               v.Get("date"),
		StoreName:          v.Get("storeName"),
		StaffName:          v.Get("staffName"),
		Category:           v.Get("category"),
		ErrorMessage:       v.Get("errorMessage"),
		ErrorMessageDetail: v.Get("errorMessageDetail"),
		DamagedPart:        v.Get("damagedPart"),
		DamagedPartDetail:  v.Get("damagedPartDetail"),
		Side:               v.Get("side"),
		WiringError:        v.Get("wiringError"),
		Remarks:            v.Get("remarks"),
		DamageType:         v.Get("damageType"),
		DamageTypeDetail:   v.Get("damageTypeDetail"),
		Details:            v.Get("details"),
		FreeText:           v.Get("freeText"),
	}
}

// Report converts the form into a Report carrying only the payload of the
// selected category. Text is trimmed, and a detail field is dropped unless
// its selector is Other.
func (f ReportForm) Report() Report {
	r := Report{
		Date:      strings.TrimSpace(f.Date),
		StoreName: strings.TrimSpace(f.StoreName),
		StaffName: strings.TrimSpace(f.StaffName),
		Category:  Category(strings.TrimSpace(f.Category)),
	}
	remarks := strings.TrimSpace(f.Remarks)

	switch r.Category {
	case CategoryMachineError:
		d := MachineError{
			ErrorMessage: strings.TrimSpace(f.ErrorMessage),
			DamagedPart:  strings.TrimSpace(f.DamagedPart),
			Side:         Side(strings.TrimSpace(f.Side)),
			WiringError:  strings.TrimSpace(f.WiringError),
			Remarks:      remarks,
		}
		d.ErrorMessageDetail = otherDetail(d.ErrorMessage, f.ErrorMessageDetail)
		d.DamagedPartDetail = otherDetail(d.DamagedPart, f.DamagedPartDetail)
		r.Details = d
	case CategoryMachineDamage:
		d := MachineDamage{
			DamageType: strings.TrimSpace(f.DamageType),
			Side:       Side(strings.TrimSpace(f.Side)),
			Details:    strings.TrimSpace(f.Details),
			Remarks:    remarks,
		}
		d.DamageTypeDetail = otherDetail(d.DamageType, f.DamageTypeDetail)
		r.Details = d
	case CategoryCustomerTrouble:
		r.Details = CustomerTrouble{FreeForm{Text: strings.TrimSpace(f.FreeText), Remarks: remarks}}
	case CategoryOther:
		r.Details = OtherIncident{FreeForm{Text: strings.TrimSpace(f.FreeText), Remarks: remarks}}
	}
	return r
}

// Apply merges the form into the draft prev. When the form selects a
// different category than prev, the result is switched to that category
// with an empty payload: the posted category fields are discarded and only
// the posted remarks are kept.
func (f ReportForm) Apply(prev Report) Report {
	next := f.Report()
	if next.Category != prev.Category {
		return next.WithCategory(next.Category)
	}
	return next
}

func otherDetail(selected, detail string) string {
	if selected != Other {
		return ""
	}
	return strings.TrimSpace(detail)
}

// FormOf flattens r back into a ReportForm.
func FormOf(r Report) ReportForm {
	f := ReportForm{
		Date:      r.Date,
		StoreName: r.StoreName,
		StaffName: r.StaffName,
		Category:  string(r.Category),
	}
	switch d := r.Details.(type) {
	case MachineError:
		f.ErrorMessage = d.ErrorMessage
		f.ErrorMessageDetail = d.ErrorMessageDetail
		f.DamagedPart = d.DamagedPart
		f.DamagedPartDetail = d.DamagedPartDetail
		f.Side = string(d.Side)
		f.WiringError = d.WiringError
		f.Remarks = d.Remarks
	case MachineDamage:
		f.DamageType = d.DamageType
		f.DamageTypeDetail = d.DamageTypeDetail
		f.Side = string(d.Side)
		f.Details = d.Details
		f.Remarks = d.Remarks
	case CustomerTrouble:
		f.FreeText = d.Text
		f.Remarks = d.Remarks
	case OtherIncident:
		f.FreeText = d.Text
		f.Remarks = d.Remarks
	}
	return f
}
