package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidatorCollectsEveryIssue(t *testing.T) {
	v := NewValidator()
	v.Required("username", "", "username is required")
	v.Email("email", "not-an-address")
	v.MinLength("password", "short", 8, "password must be at least 8 characters")
	v.Positive("baseSalary", 0, "base salary must be positive")

	require.True(t, v.HasIssues())
	require.Len(t, v.Issues(), 4)
}

func TestValidatorEmail(t *testing.T) {
	v := NewValidator()
	v.Email("email", "person@example.com")
	require.False(t, v.HasIssues())

	// empty is left to Required
	v.Email("email", "")
	require.False(t, v.HasIssues())
}

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	v.DateOrder("payPeriodStart", start, "payPeriodEnd", end)
	require.True(t, v.HasIssues())
	require.Len(t, v.Issues(), 2)
}

func TestValidatorIssuesSorted(t *testing.T) {
	v := NewValidator()
	v.Add("z", "last")
	v.Add("a", "first")
	issues := v.Issues()
	require.Equal(t, "a", issues[0].Field)
	require.Equal(t, "z", issues[1].Field)
}
