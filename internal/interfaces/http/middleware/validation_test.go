package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	// Should not panic
	SetupValidator()

	// Verify the validator is configured
	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type TestStruct struct {
		Email string `json:"email" binding:"required,email"`
		Age   int    `json:"age" binding:"required,min=18"`
	}

	SetupValidator()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req TestStruct
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("returns validation errors for invalid input", func(t *testing.T) {
		body := strings.NewReader(`{"email": "invalid", "age": 10}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("returns success for valid input", func(t *testing.T) {
		body := strings.NewReader(`{"email": "test@example.com", "age": 25}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCustomTags(t *testing.T) {
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	type Input struct {
		CEP      string `binding:"omitempty,cep"`
		Document string `binding:"omitempty,cpfcnpj"`
		Opens    string `binding:"omitempty,hhmm"`
		Slug     string `binding:"omitempty,storeslug"`
	}

	tests := []struct {
		name  string
		input Input
		valid bool
	}{
		{"valid cep with hyphen", Input{CEP: "01310-100"}, true},
		{"valid cep without hyphen", Input{CEP: "01310100"}, true},
		{"cep too short", Input{CEP: "1310-100"}, false},
		{"cep with letters", Input{CEP: "abcde-fgh"}, false},

		{"valid cpf", Input{Document: "529.982.247-25"}, true},
		{"valid cpf digits only", Input{Document: "52998224725"}, true},
		{"cpf bad check digit", Input{Document: "52998224726"}, false},
		{"cpf all same digit", Input{Document: "111.111.111-11"}, false},
		{"valid cnpj", Input{Document: "11.222.333/0001-81"}, true},
		{"cnpj bad check digit", Input{Document: "11.222.333/0001-82"}, false},
		{"document wrong length", Input{Document: "123456"}, false},

		{"valid hhmm", Input{Opens: "08:30"}, true},
		{"valid hhmm midnight", Input{Opens: "00:00"}, true},
		{"valid hhmm late", Input{Opens: "23:59"}, true},
		{"hhmm hour out of range", Input{Opens: "24:00"}, false},
		{"hhmm minute out of range", Input{Opens: "12:60"}, false},
		{"hhmm missing colon", Input{Opens: "0830"}, false},

		{"valid slug", Input{Slug: "padaria-central"}, true},
		{"slug with numbers", Input{Slug: "loja-24h"}, true},
		{"slug uppercase", Input{Slug: "Padaria-Central"}, false},
		{"slug too short", Input{Slug: "ab"}, false},
		{"slug leading hyphen", Input{Slug: "-padaria"}, false},
		{"slug double hyphen", Input{Slug: "padaria--central"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGetValidationMessage(t *testing.T) {
	type TestStruct struct {
		Required string `binding:"required"`
		Email    string `binding:"email"`
		Min      string `binding:"min=5"`
		Max      string `binding:"max=10"`
		Len      string `binding:"len=5"`
		UUID     string `binding:"uuid"`
		OneOf    string `binding:"oneof=a b c"`
		GTE      int    `binding:"gte=10"`
		LTE      int    `binding:"lte=100"`
		GT       int    `binding:"gt=0"`
		LT       int    `binding:"lt=1000"`
		URL      string `binding:"url"`
		Numeric  string `binding:"numeric"`
	}

	v := validator.New()

	tests := []struct {
		field    string
		expected string
	}{
		{"Required", "Campo obrigatório"},
		{"Min", "no mínimo 5"},
		{"Len", "exatamente 5"},
		{"OneOf", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			obj := TestStruct{}
			err := v.Struct(obj)
			if err != nil {
				validationErrs := err.(validator.ValidationErrors)
				for _, e := range validationErrs {
					if e.Field() == tt.field {
						msg := getValidationMessage(e)
						assert.Contains(t, msg, tt.expected)
						return
					}
				}
			}
		})
	}
}

func TestHandleValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("handles validator.ValidationErrors", func(t *testing.T) {
		type Input struct {
			Name string `json:"name" binding:"required"`
		}

		router := gin.New()
		router.POST("/test", func(c *gin.Context) {
			var input Input
			if err := c.ShouldBindJSON(&input); err != nil {
				HandleValidationError(c, err)
				return
			}
		})

		body := strings.NewReader(`{}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)
	})
}
