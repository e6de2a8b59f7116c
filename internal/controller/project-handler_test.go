package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workorg/server/pkg/validator"
)

func TestProjectStatusValidation(t *testing.T) {
	v := validator.NewValidator()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)

	for _, status := range []string{"planning", "active", "completed", "on-hold", ""} {
		_, ok := v.Validate(&createProjectInput{
			Name:      "Launch",
			StartDate: start,
			EndDate:   end,
			Status:    status,
		})
		assert.True(t, ok, "status %q must be accepted", status)
	}

	errs, ok := v.Validate(&createProjectInput{
		Name:      "Launch",
		StartDate: start,
		EndDate:   end,
		Status:    "archived",
	})
	require.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Field)

	planning := "planning"
	_, ok = v.Validate(&updateProjectInput{Status: &planning})
	assert.True(t, ok)

	archived := "archived"
	_, ok = v.Validate(&updateProjectInput{Status: &archived})
	assert.False(t, ok)
}
