package models

import "time"

// Category selects which set of incident fields a report carries.
type Category string

const (
	CategoryMachineError    Category = "洗車機エラー系"
	CategoryMachineDamage   Category = "洗車機傷系"
	CategoryCustomerTrouble Category = "お客様トラブル系"
	CategoryOther           Category = "その他"
)

// Other is the catch-all option of a selector. Choosing it makes the
// adjacent detail field required.
const Other = "その他"

// DateLayout is the format of Report.Date.
const DateLayout = "2006-01-02"

// Known reports whether c is one of the four report categories.
func (c Category) Known() bool {
	switch c {
	case CategoryMachineError, CategoryMachineDamage, CategoryCustomerTrouble, CategoryOther:
		return true
	}
	return false
}

// Side is the side of the vehicle an incident occurred on.
type Side string

const (
	SidePassenger Side = "助手席側"
	SideDriver    Side = "運転席側"
)

// Report is one incident report. Details holds the payload of the selected
// category and is nil while no category is chosen.
type Report struct {
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	StoreName string   `json:"storeName" validate:"required"`
	StaffName string   `json:"staffName" validate:"required"`
	Category  Category `json:"category" validate:"required"`
	Details   Details  `json:"-" validate:"-"`
}

// Details is the category-specific part of a report. Implementations are
// value types so a Report can be copied freely.
type Details interface {
	Category() Category
}

type MachineError struct {
	ErrorMessage       string `validate:"required"`
	ErrorMessageDetail string `validate:"required_if=ErrorMessage その他"`
	DamagedPart        string `validate:"required"`
	DamagedPartDetail  string `validate:"required_if=DamagedPart その他"`
	Side               Side
	WiringError        string
	Remarks            string
}

func (MachineError) Category() Category { return CategoryMachineError }

type MachineDamage struct {
	DamageType       string `validate:"required"`
	DamageTypeDetail string `validate:"required_if=DamageType その他"`
	Side             Side
	Details          string `validate:"required"`
	Remarks          string
}

func (MachineDamage) Category() Category { return CategoryMachineDamage }

// FreeForm is the free-text payload shared by the customer trouble and
// other categories.
type FreeForm struct {
	Text    string `validate:"required"`
	Remarks string
}

type CustomerTrouble struct {
	FreeForm
}

func (CustomerTrouble) Category() Category { return CategoryCustomerTrouble }

type OtherIncident struct {
	FreeForm
}

func (OtherIncident) Category() Category { return CategoryOther }

// NewReport returns an empty report dated on the calendar day of now.
func NewReport(now time.Time) Report {
	return Report{Date: now.Format(DateLayout)}
}

// WithCategory returns a copy of r switched to c with an empty payload for
// c. Every category-specific field is discarded, including when c equals
// the current category. Remarks are carried over.
func (r Report) WithCategory(c Category) Report {
	remarks := r.Remarks()
	r.Category = c
	r.Details = emptyDetails(c, remarks)
	return r
}

func emptyDetails(c Category, remarks string) Details {
	switch c {
	case CategoryMachineError:
		return MachineError{Remarks: remarks}
	case CategoryMachineDamage:
		return MachineDamage{Remarks: remarks}
	case CategoryCustomerTrouble:
		return CustomerTrouble{FreeForm{Remarks: remarks}}
	case CategoryOther:
		return OtherIncident{FreeForm{Remarks: remarks}}
	}
	return nil
}

// Remarks returns the optional remarks of the report's payload.
func (r Report) Remarks() string {
	switch d := r.Details.(type) {
	case MachineError:
		return d.Remarks
	case MachineDamage:
		return d.Remarks
	case CustomerTrouble:
		return d.Remarks
	case OtherIncident:
		return d.Remarks
	}
	return ""
}
