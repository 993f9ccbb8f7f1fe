package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func surveyForm() *Form {
	return &Form{
		ID:   "form-1",
		Name: "Survey",
		Fields: []FormField{
			{ID: "f1", Name: "fullName", Type: FieldTypeText, Required: true},
			{ID: "f2", Name: "age", Type: FieldTypeNumber},
			{ID: "f3", Name: "email", Type: FieldTypeEmail, Required: true},
			{ID: "f4", Name: "dept", Type: FieldTypeSelect, Options: []string{"eng", "sales"}},
		},
	}
}

func TestFormValidateEntry(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		wantErr bool
	}{
		{
			name: "valid submission",
			data: map[string]any{"fullName": "Ada", "age": 36, "email": "ada@example.com", "dept": "eng"},
		},
		{
			name: "optional fields may be absent",
			data: map[string]any{"fullName": "Ada", "email": "ada@example.com"},
		},
		{
			name:    "missing required field",
			data:    map[string]any{"email": "ada@example.com"},
			wantErr: true,
		},
		{
			name:    "empty required field",
			data:    map[string]any{"fullName": "", "email": "ada@example.com"},
			wantErr: true,
		},
		{
			name:    "non-numeric number field",
			data:    map[string]any{"fullName": "Ada", "email": "ada@example.com", "age": "old"},
			wantErr: true,
		},
		{
			name: "numeric string accepted for number field",
			data: map[string]any{"fullName": "Ada", "email": "ada@example.com", "age": "36"},
		},
		{
			name:    "email without at sign",
			data:    map[string]any{"fullName": "Ada", "email": "nope"},
			wantErr: true,
		},
		{
			name:    "select value outside options",
			data:    map[string]any{"fullName": "Ada", "email": "ada@example.com", "dept": "hr"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := surveyForm().ValidateEntry(tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFormPatchApply(t *testing.T) {
	now := time.Now().UTC()
	f := &Form{Name: "Survey", SubmitText: DefaultSubmitText, SuccessMsg: DefaultSuccessMsg, IsPublished: true}

	published := false
	FormPatch{IsPublished: &published}.Apply(f, now)

	assert.False(t, f.IsPublished)
	assert.Equal(t, "Survey", f.Name, "untouched fields must survive a partial update")
	assert.Equal(t, DefaultSubmitText, f.SubmitText)
	assert.Equal(t, now, f.UpdatedAt)
}
