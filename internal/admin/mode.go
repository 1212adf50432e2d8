// Package admin implements the administrator's job editor: a shared form
// whose submission either creates a job or replaces an existing one.
package admin

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/go-playground/validator.v9"

	"github.com/smileynet/jobboard/internal/api"
)

// Mode is the edit-mode state: Create, or Edit of one job id.
// The zero value is Create.
type Mode struct {
	id      int
	editing bool
}

// Create returns the default mode: submissions post a new job.
func Create() Mode { return Mode{} }

// Edit returns the mode in which submissions replace job id.
func Edit(id int) Mode { return Mode{id: id, editing: true} }

// Target returns the job being edited and true, or 0 and false in Create mode.
func (m Mode) Target() (int, bool) { return m.id, m.editing }

// IsCreate reports whether submissions create a new job.
func (m Mode) IsCreate() bool { return !m.editing }

func (m Mode) String() string {
	if m.editing {
		return fmt.Sprintf("edit #%d", m.id)
	}
	return "create"
}

// Form is the shared job entry form.
type Form struct {
	JobName        string `json:"job_name" validate:"required"`
	Company        string `json:"company" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
	EligibleYears  string `json:"eligible_years" validate:"required"`
	Qualification  string `json:"qualification" validate:"required"`
	Link           string `json:"link" validate:"required,url"`
	Location       string `json:"location" validate:"required"`
	LastDate       string `json:"last_date" validate:"required"`
}

// FormFromJob fills a form with the current values of j.
func FormFromJob(j api.Job) Form {
	return Form{
		JobName:        j.JobName,
		Company:        j.Company,
		JobDescription: j.JobDescription,
		EligibleYears:  j.EligibleYears,
		Qualification:  j.Qualification,
		Link:           j.Link,
		Location:       j.Location,
		LastDate:       j.LastDate,
	}
}

// Input converts the form to a request body.
func (f Form) Input() api.JobInput {
	t := f.trimmed()
	return api.JobInput{
		JobName:        t.JobName,
		Company:        t.Company,
		JobDescription: t.JobDescription,
		EligibleYears:  t.EligibleYears,
		Qualification:  t.Qualification,
		Link:           t.Link,
		Location:       t.Location,
		LastDate:       t.LastDate,
	}
}

func (f Form) trimmed() Form {
	return Form{
		JobName:        strings.TrimSpace(f.JobName),
		Company:        strings.TrimSpace(f.Company),
		JobDescription: strings.TrimSpace(f.JobDescription),
		EligibleYears:  strings.TrimSpace(f.EligibleYears),
		Qualification:  strings.TrimSpace(f.Qualification),
		Link:           strings.TrimSpace(f.Link),
		Location:       strings.TrimSpace(f.Location),
		LastDate:       strings.TrimSpace(f.LastDate),
	}
}

// ValidationError lists the form fields that are missing or malformed,
// by their wire names.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid: " + strings.Join(e.Fields, ", ")
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate checks the trimmed form.
func validate(v *validator.Validate, f Form) error {
	err := v.Struct(f.trimmed())
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, fe.Field())
	}
	return ve
}
