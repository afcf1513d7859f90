package models

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseReportFormKeepsOnlySelectedCategory(t *testing.T) {
	v := url.Values{
		"date":               {"2025-06-01"},
		"storeName":          {"新前橋店"},
		"staffName":          {" 霜田 "},
		"category":           {string(CategoryMachineError)},
		"errorMessage":       {Other},
		"errorMessageDetail": {"  異音  "},
		"damagedPart":        {"ブロワー"},
		"damagedPartDetail":  {"stale"},
		"side":               {string(SidePassenger)},
		"freeText":           {"belongs to another category"},
		"details":            {"also another category"},
	}

	got := ParseReportForm(v).Report()

	want := Report{
		Date:      "2025-06-01",
		StoreName: "新前橋店",
		StaffName: "霜田",
		Category:  CategoryMachineError,
		Details: MachineError{
			ErrorMessage:       Other,
			ErrorMessageDetail: "異音",
			DamagedPart:        "ブロワー",
			Side:               SidePassenger,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Report() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormApplyResetsOnCategoryChange(t *testing.T) {
	prev := submittable(CategoryMachineDamage)
	f := FormOf(prev)
	f.Category = string(CategoryCustomerTrouble)
	f.FreeText = "posted before the category switch"

	got := f.Apply(prev)

	assert.Equal(t, CategoryCustomerTrouble, got.Category)
	assert.Equal(t, CustomerTrouble{}, got.Details)
	assert.Equal(t, prev.StoreName, got.StoreName)
	assert.Equal(t, prev.Date, got.Date)
}

func TestFormApplyKeepsRemarksOnCategoryChange(t *testing.T) {
	prev := withRemarks(submittable(CategoryMachineError), "memo")
	v := url.Values{
		"date":         {prev.Date},
		"storeName":    {prev.StoreName},
		"staffName":    {prev.StaffName},
		"category":     {string(CategoryCustomerTrouble)},
		"errorMessage": {"オーバーロード"},
		"damagedPart":  {"ブロワー"},
		"freeText":     {"posted before the category switch"},
		"remarks":      {"memo"},
	}

	got := ParseReportForm(v).Apply(prev)

	assert.Equal(t, CustomerTrouble{FreeForm{Remarks: "memo"}}, got.Details)
	assert.Contains(t, CardDescription(got), "## その他備考\nmemo")
}

func TestFormApplyKeepsFieldsForSameCategory(t *testing.T) {
	prev := submittable(CategoryOther)
	f := FormOf(prev)
	f.FreeText = "更新"
	f.Remarks = "備考"

	got := f.Apply(prev)
	assert.Equal(t, OtherIncident{FreeForm{Text: "更新", Remarks: "備考"}}, got.Details)
}

func TestFormRoundTrip(t *testing.T) {
	for _, c := range allCategories {
		r := withRemarks(submittable(c), "備考")
		if diff := cmp.Diff(r, FormOf(r).Report()); diff != "" {
			t.Errorf("%s round trip (-want +got):\n%s", c, diff)
		}
	}
}
