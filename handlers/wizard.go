package handlers

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"
	"p9e.in/washreport/config"
	"p9e.in/washreport/middleware"
	"p9e.in/washreport/models"
	"p9e.in/washreport/pkg/trello"
	"p9e.in/washreport/pkg/wizard"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Notifications shown on the review screen when a submission fails.
const (
	NoticeRetry   = "カードの作成に失敗しました。もう一度お試しください。"
	NoticeConfig  = "カードの作成に失敗しました。管理者に連絡してください。"
	NoticePending = "送信中です。しばらくお待ちください。"
)

var pages = map[wizard.Step]string{
	wizard.StepEditing:   "edit.html",
	wizard.StepReviewing: "review.html",
	wizard.StepDone:      "success.html",
}

// categoryNames lets templates compare against category values.
type categoryNames struct {
	MachineError    string
	MachineDamage   string
	CustomerTrouble string
	Other           string
}

var names = categoryNames{
	MachineError:    string(models.CategoryMachineError),
	MachineDamage:   string(models.CategoryMachineDamage),
	CustomerTrouble: string(models.CategoryCustomerTrouble),
	Other:           string(models.CategoryOther),
}

type pageData struct {
	Form        models.ReportForm
	Card        models.Card
	Catalog     *models.Catalog
	Categories  categoryNames
	OtherOption string
	Submittable bool
	Pending     bool
	Notice      string
	CardURL     string
}

// WizardHandler serves the three report screens. Each browser session has
// its own wizard controller, attached by middleware.Sessions.
type WizardHandler struct {
	catalog   *models.Catalog
	logger    *logrus.Logger
	templates map[wizard.Step]*template.Template
}

func NewWizardHandler(catalog *models.Catalog, logger *logrus.Logger) (*WizardHandler, error) {
	h := &WizardHandler{
		catalog:   catalog,
		logger:    logger,
		templates: make(map[wizard.Step]*template.Template),
	}
	funcs := template.FuncMap{"effective": models.Effective}
	for step, page := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, err
		}
		h.templates[step] = t
	}
	return h, nil
}

func (h *WizardHandler) render(w http.ResponseWriter, status int, step wizard.Step, st wizard.State, notice string) {
	data := pageData{
		Form:        models.FormOf(st.Report),
		Card:        models.NewCard(st.Report),
		Catalog:     h.catalog,
		Categories:  names,
		OtherOption: models.Other,
		Submittable: models.IsSubmittable(st.Report),
		Pending:     st.Pending,
		Notice:      notice,
	}
	if st.Card != nil {
		data.CardURL = st.Card.ShortURL
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates[step].ExecuteTemplate(w, "layout.html", data); err != nil {
		config.LogError(h.logger, "handlers", "render", string(step), nil, err)
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Show renders the screen of the session's current step.
func (h *WizardHandler) Show(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetController(r).State()
	h.render(w, http.StatusOK, st.Step, st, "")
}

// SaveReport stores the edit form. action=review additionally asks for
// review; any other action only saves, applying a category change.
func (h *WizardHandler) SaveReport(w http.ResponseWriter, r *http.Request) {
	ctrl := middleware.GetController(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	st := ctrl.State()
	if st.Step != wizard.StepEditing {
		redirectHome(w, r)
		return
	}

	next := models.ParseReportForm(r.PostForm).Apply(st.Report)
	if err := h.catalog.CheckCatalog(next); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.PostFormValue("action") == "review" {
		err := ctrl.SubmitForReview(next)
		if errors.Is(err, wizard.ErrNotSubmittable) {
			h.render(w, http.StatusUnprocessableEntity, wizard.StepEditing, ctrl.State(), "")
			return
		}
		if err != nil && !errors.Is(err, wizard.ErrInvalidTransition) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		redirectHome(w, r)
		return
	}

	if err := ctrl.Update(next); err != nil && !errors.Is(err, wizard.ErrInvalidTransition) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirectHome(w, r)
}

// Edit leaves the review screen without changing the draft.
func (h *WizardHandler) Edit(w http.ResponseWriter, r *http.Request) {
	ctrl := middleware.GetController(r)
	if err := ctrl.Edit(); errors.Is(err, wizard.ErrSubmissionPending) {
		h.render(w, http.StatusConflict, wizard.StepReviewing, ctrl.State(), NoticePending)
		return
	}
	redirectHome(w, r)
}

// Confirm creates the card. Failures keep the review screen with a
// notification; the user retries by confirming again.
func (h *WizardHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctrl := middleware.GetController(r)
	_, err := ctrl.Confirm(r.Context())
	if err == nil || errors.Is(err, wizard.ErrInvalidTransition) {
		redirectHome(w, r)
		return
	}
	if errors.Is(err, wizard.ErrSubmissionPending) {
		h.render(w, http.StatusConflict, wizard.StepReviewing, ctrl.State(), NoticePending)
		return
	}

	config.LogError(h.logger, "handlers", "Confirm", "create trello card", logrus.Fields{
		"request_id": middleware.GetRequestID(r),
	}, err)

	var cfgErr *trello.ConfigurationError
	if errors.As(err, &cfgErr) {
		h.render(w, http.StatusInternalServerError, wizard.StepReviewing, ctrl.State(), NoticeConfig)
		return
	}
	h.render(w, http.StatusBadGateway, wizard.StepReviewing, ctrl.State(), NoticeRetry)
}

// Reset starts a new report after a successful submission.
func (h *WizardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	_ = middleware.GetController(r).Reset()
	redirectHome(w, r)
}

// GetCatalog returns the selectable form options.
func (h *WizardHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.catalog)
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
