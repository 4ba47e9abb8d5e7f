package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentorship/internal/apierr"
)

type payload struct {
	UserID int    `json:"userId" validate:"gt=0"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Week   int    `json:"week" validate:"gte=1,lte=52"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(payload{UserID: 1, Week: 3}))

	err := Struct(payload{UserID: 0, Week: 3})
	require.ErrorIs(t, err, apierr.ErrValidation)
	var ve *apierr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "userId", ve.Field)
	assert.Equal(t, "must be greater than 0", ve.Message)

	err = Struct(payload{UserID: 1, Email: "nope", Week: 60})
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, ve.Field)
	assert.Equal(t, "must be a valid email address", ve.Fields["email"])
	assert.Equal(t, "must be at most 52", ve.Fields["week"])
}
