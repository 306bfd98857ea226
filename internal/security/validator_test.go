package security_test

import (
	"testing"

	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/Rrens/storefront-assistant/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name       string
		input      any
		wantErr    bool
		wantFields []string
	}{
		{"valid signup", domain.UserCreate{Name: "Ada", Email: "ada@example.com", Password: "secret1"}, false, nil},
		{"short password", domain.UserCreate{Name: "Ada", Email: "ada@example.com", Password: "123"}, true, []string{"password"}},
		{"bad email and missing name", domain.UserCreate{Email: "nope", Password: "secret1"}, true, []string{"email", "name"}},
		{"valid login", domain.UserLogin{Email: "ada@example.com", Password: "x"}, false, nil},
		{"empty order", domain.OrderCreate{}, true, []string{"items"}},
		{"zero quantity", domain.OrderCreate{Items: []domain.OrderItem{{ProductID: "p1"}}}, true, []string{"quantity"}},
		{"valid order", domain.OrderCreate{Items: []domain.OrderItem{{ProductID: "p1", Quantity: 2}}}, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := security.ValidateInput(tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var vErr *security.ValidationError
			require.ErrorAs(t, err, &vErr)
			for _, f := range tt.wantFields {
				assert.Contains(t, vErr.Fields, f)
			}
			assert.NotEmpty(t, vErr.Error())
		})
	}
}

func TestValidationError_JoinsInFieldOrder(t *testing.T) {
	err := &security.ValidationError{Fields: map[string]string{"password": "b", "email": "a"}}
	assert.Equal(t, "a, b", err.Error())
}
