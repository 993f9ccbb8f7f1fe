package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Form field types.
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeEmail    = "email"
	FieldTypeDate     = "date"
	FieldTypeSelect   = "select"
	FieldTypeCheckbox = "checkbox"
	FieldTypeTextarea = "textarea"
)

// validFieldTypes is the set of recognized form field types.
var validFieldTypes = map[string]bool{
	FieldTypeText:     true,
	FieldTypeNumber:   true,
	FieldTypeEmail:    true,
	FieldTypeDate:     true,
	FieldTypeSelect:   true,
	FieldTypeCheckbox: true,
	FieldTypeTextarea: true,
}

// Defaults applied when a form is created without the field set.
const (
	DefaultSubmitText = "Submit"
	DefaultSuccessMsg = "Thank you for your submission!"
)

// FormField describes one field of a form. Name is the submission key;
// Options is only meaningful for select fields.
type FormField struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// ValidFieldType reports whether t is a recognized field type.
func ValidFieldType(t string) bool {
	return validFieldTypes[t]
}

// Form is a collectible questionnaire belonging to an app.
type Form struct {
	ID          string      `json:"id"`
	AppID       string      `json:"appId"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Fields      []FormField `json:"fields"`
	SubmitText  string      `json:"submitText"`
	SuccessMsg  string      `json:"successMsg"`
	IsPublished bool        `json:"isPublished"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewForm holds the caller-supplied fields for form creation.
type NewForm struct {
	AppID       string      `json:"appId"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Fields      []FormField `json:"fields"`
	SubmitText  string      `json:"submitText"`
	SuccessMsg  string      `json:"successMsg"`
	IsPublished *bool       `json:"isPublished"`
}

// FormPatch is a partial update. Nil fields are left untouched.
type FormPatch struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Fields      *[]FormField `json:"fields"`
	SubmitText  *string      `json:"submitText"`
	SuccessMsg  *string      `json:"successMsg"`
	IsPublished *bool        `json:"isPublished"`
}

// Apply merges the non-nil patch fields into the form and bumps UpdatedAt.
func (p FormPatch) Apply(f *Form, now time.Time) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Fields != nil {
		f.Fields = *p.Fields
	}
	if p.SubmitText != nil {
		f.SubmitText = *p.SubmitText
	}
	if p.SuccessMsg != nil {
		f.SuccessMsg = *p.SuccessMsg
	}
	if p.IsPublished != nil {
		f.IsPublished = *p.IsPublished
	}
	f.UpdatedAt = now
}

// ValidateEntry checks submitted data against the form's field definitions:
// required fields must be present and non-empty, number fields must parse as
// numbers, email fields must contain "@", and select values must be one of
// the declared options. Stored payloads are otherwise free-form.
// Returns an error wrapping ErrValidation on the first failing field.
func (f *Form) ValidateEntry(data map[string]any) error {
	for _, field := range f.Fields {
		v, present := data[field.Name]
		empty := !present || v == nil || v == ""
		if empty {
			if field.Required {
				return fmt.Errorf("%w: field %q is required", ErrValidation, field.Name)
			}
			continue
		}
		switch field.Type {
		case FieldTypeNumber:
			if _, err := cast.ToFloat64E(v); err != nil {
				return fmt.Errorf("%w: field %q must be a number", ErrValidation, field.Name)
			}
		case FieldTypeEmail:
			if !strings.Contains(cast.ToString(v), "@") {
				return fmt.Errorf("%w: field %q must be an email address", ErrValidation, field.Name)
			}
		case FieldTypeSelect:
			s := cast.ToString(v)
			found := false
			for _, opt := range field.Options {
				if opt == s {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: field %q value %q is not an option", ErrValidation, field.Name, s)
			}
		}
	}
	return nil
}
