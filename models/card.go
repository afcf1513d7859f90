package models

import "strings"

// Card is the title and markdown description sent to the kanban board.
type Card struct {
	Name string
	Desc string
}

// Description headings.
const (
	headingDate        = "日付"
	headingStore       = "店舗名"
	headingStaff       = "担当者名"
	headingCategory    = "問い合わせカテゴリー"
	headingErrorMsg    = "エラー文言"
	headingDamagedPart = "損傷箇所"
	headingSide        = "位置"
	headingWiringError = "配線のエラー文言"
	headingDetails     = "詳細"
	headingRemarks     = "その他備考"
)

// Effective renders a selector value, expanding Other with its detail.
func Effective(value, detail string) string {
	if value == Other && detail != "" {
		return Other + ": " + detail
	}
	return value
}

// NewCard formats r. It is deterministic: the same report always yields
// the same card.
func NewCard(r Report) Card {
	return Card{Name: CardTitle(r), Desc: CardDescription(r)}
}

func CardTitle(r Report) string {
	var subject string
	switch r.Category {
	case CategoryMachineError:
		d, _ := r.Details.(MachineError)
		subject = Effective(d.ErrorMessage, d.ErrorMessageDetail)
	case CategoryMachineDamage:
		d, _ := r.Details.(MachineDamage)
		subject = Effective(d.DamageType, d.DamageTypeDetail)
	case CategoryCustomerTrouble, CategoryOther:
		subject = string(r.Category)
	default:
		return ""
	}
	return subject + " - " + r.StoreName
}

// CardDescription renders r as level-2 markdown sections separated by a
// blank line. The result is trimmed.
func CardDescription(r Report) string {
	var s sections
	s.add(headingDate, r.Date)
	s.add(headingStore, r.StoreName)
	s.add(headingStaff, r.StaffName)
	s.add(headingCategory, string(r.Category))

	switch d := r.Details.(type) {
	case MachineError:
		s.add(headingErrorMsg, Effective(d.ErrorMessage, d.ErrorMessageDetail))
		s.add(headingDamagedPart, Effective(d.DamagedPart, d.DamagedPartDetail))
		s.add(headingSide, string(d.Side))
		s.add(headingWiringError, d.WiringError)
	case MachineDamage:
		s.add(headingDamagedPart, Effective(d.DamageType, d.DamageTypeDetail))
		s.add(headingSide, string(d.Side))
		s.add(headingDetails, d.Details)
	case CustomerTrouble:
		s.add(headingDetails, d.Text)
	case OtherIncident:
		s.add(headingDetails, d.Text)
	}
	if remarks := r.Remarks(); remarks != "" {
		s.add(headingRemarks, remarks)
	}
	return strings.TrimSpace(strings.Join(s, "\n\n"))
}

type sections []string

func (s *sections) add(heading, value string) {
	*s = append(*s, "## "+heading+"\n"+value)
}
