package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
)

func TestIsPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+254712345678", true},
		{"254712345678", true},
		{"0712345678", true},
		{"0112345678", true},
		{"712345678", false},
		{"+255712345678", false},
		{"07123", false},
		{"07123456789012", false},
		{"07abcdefgh", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPhoneNumber(tt.in))
		})
	}
}

type sample struct {
	Phone  string          `json:"phone" validate:"required,kephone"`
	Amount decimal.Decimal `json:"amount" validate:"required,decimal_gt=0,decimal_max=1000"`
	Time   string          `json:"time" validate:"omitempty,clock"`
	Date   string          `json:"date" validate:"omitempty,ymd"`
	Ref    string          `json:"ref" validate:"max=5"`
	Nested *nested         `json:"nested"`
}

type nested struct {
	ID string `json:"id" validate:"required,objectid"`
}

func fieldsOf(issues []apperr.FieldIssue) map[string]string {
	out := make(map[string]string, len(issues))
	for _, is := range issues {
		out[is.Field] = is.Message
	}
	return out
}

func TestStructValid(t *testing.T) {
	issues := Struct(sample{
		Phone:  "0712345678",
		Amount: decimal.NewFromInt(3),
		Time:   "23:59:59",
		Date:   "2025-02-28",
		Nested: &nested{ID: "507f1f77bcf86cd799439011"},
	})
	assert.Nil(t, issues)
}

func TestStructIssues(t *testing.T) {
	issues := Struct(sample{
		Phone:  "123",
		Amount: decimal.NewFromInt(-1),
		Time:   "24:00:00",
		Date:   "2025-02-30",
		Ref:    "toolong",
		Nested: &nested{ID: "xyz"},
	})
	require.Len(t, issues, 6)

	got := fieldsOf(issues)
	assert.True(t, strings.HasPrefix(got["phone"], "Invalid phone number format"))
	assert.Equal(t, "Must be greater than 0", got["amount"])
	assert.Equal(t, "Invalid time format", got["time"])
	assert.Equal(t, "Invalid date format, expected YYYY-MM-DD", got["date"])
	assert.Equal(t, "Cannot exceed 5 characters", got["ref"])
	assert.Equal(t, "Invalid id", got["nested.id"])
}

func TestStructRequiredDecimal(t *testing.T) {
	got := fieldsOf(Struct(sample{Phone: "0712345678"}))
	assert.Equal(t, "Required", got["amount"])
}

func TestStructDecimalBoundsAreExact(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0.00000000000000001", ""},
		{"0", "Must be greater than 0"},
		{"1000", ""},
		{"1000.00000000000000001", "Must be at most 1000"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got := fieldsOf(Struct(sample{Phone: "0712345678", Amount: decimal.RequireFromString(tt.amount)}))
			assert.Equal(t, tt.want, got["amount"])
		})
	}
}

func TestSummary(t *testing.T) {
	s := Summary([]apperr.FieldIssue{{Field: "amount", Message: "Required"}, {Field: "phone", Message: "Invalid"}})
	assert.Equal(t, "amount: Required, phone: Invalid", s)
}
