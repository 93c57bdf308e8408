package validator

import (
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanbocchi/multipart/internal/model"
)

type sample struct {
	Name     null.String  `json:"name" validate:"required"`
	Count    model.Scalar `json:"count" validate:"required"`
	MimeType null.String  `json:"mimetype" validate:"omitempty,mediatype"`
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   any
		wantErr string
	}{
		{
			name:  "valid",
			input: &sample{Name: null.StringFrom("a"), Count: model.ScalarFrom("1"), MimeType: null.StringFrom("text/plain; charset=utf-8")},
		},
		{
			name:  "mimetype absent",
			input: &sample{Name: null.StringFrom("a"), Count: model.ScalarFrom("1")},
		},
		{
			name:    "name null",
			input:   &sample{Count: model.ScalarFrom("1")},
			wantErr: "name is a required field",
		},
		{
			name:    "name empty",
			input:   &sample{Name: null.StringFrom(""), Count: model.ScalarFrom("1")},
			wantErr: "name is a required field",
		},
		{
			name:    "count null",
			input:   &sample{Name: null.StringFrom("a")},
			wantErr: "count is a required field",
		},
		{
			name:    "bad mimetype",
			input:   &sample{Name: null.StringFrom("a"), Count: model.ScalarFrom("1"), MimeType: null.StringFrom("not a type")},
			wantErr: "mimetype must be a valid media type",
		},
		{
			name:    "bare token mimetype",
			input:   &sample{Name: null.StringFrom("a"), Count: model.ScalarFrom("1"), MimeType: null.StringFrom("nope")},
			wantErr: "mimetype must be a valid media type",
		},
		{
			name:    "extension as mimetype",
			input:   &sample{Name: null.StringFrom("a"), Count: model.ScalarFrom("1"), MimeType: null.StringFrom("pdf")},
			wantErr: "mimetype must be a valid media type",
		},
		{
			name:    "missing subtype",
			input:   &sample{Name: null.StringFrom("a"), Count: model.ScalarFrom("1"), MimeType: null.StringFrom("text/")},
			wantErr: "mimetype must be a valid media type",
		},
		{
			name:    "nil input",
			input:   (*sample)(nil),
			wantErr: "Validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
			assert.Equal(t, model.KindInvalidInput, model.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_FieldKeys(t *testing.T) {
	err := Validate(&sample{Count: model.ScalarFrom("1"), MimeType: null.StringFrom("pdf")})
	require.Error(t, err)

	assert.Contains(t, err.Error(), `"name":"name is a required field"`)
	assert.Contains(t, err.Error(), `"mimetype":"mimetype must be a valid media type"`)
	assert.NotContains(t, err.Error(), "sample.")
}
