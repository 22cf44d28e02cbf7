package domain_test

import (
	"fmt"
	"time"

	"testing"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestGeneratePropertyID(t *testing.T) {
	year := time.Now().Year()

	tests := []struct {
		name        string
		country     string
		existingIDs []string
		want        string
	}{
		{
			name:        "first id for empty store",
			country:     "Kenya",
			existingIDs: nil,
			want:        fmt.Sprintf("KE-%d-001", year),
		},
		{
			name:    "increment after max number",
			country: "Kenya",
			existingIDs: []string{
				fmt.Sprintf("KE-%d-001", year),
				fmt.Sprintf("KE-%d-003", year),
				fmt.Sprintf("KE-%d-002", year),
			},
			want: fmt.Sprintf("KE-%d-004", year),
		},
		{
			name:    "counters are independent per country",
			country: "Tanzania",
			existingIDs: []string{
				fmt.Sprintf("KE-%d-007", year),
				fmt.Sprintf("TZ-%d-002", year),
			},
			want: fmt.Sprintf("TZ-%d-003", year),
		},
		{
			name:    "ids from previous year are ignored",
			country: "Uganda",
			existingIDs: []string{
				fmt.Sprintf("UG-%d-005", year-1),
			},
			want: fmt.Sprintf("UG-%d-001", year),
		},
		{
			name:        "unknown country uses XX code",
			country:     "Rwanda",
			existingIDs: nil,
			want:        fmt.Sprintf("XX-%d-001", year),
		},
		{
			name:    "malformed existing ids are skipped",
			country: "Kenya",
			existingIDs: []string{
				fmt.Sprintf("KE-%d-abc", year),
				"broken",
				fmt.Sprintf("KE-%d-002", year),
			},
			want: fmt.Sprintf("KE-%d-003", year),
		},
		{
			name:    "suffix grows past three digits",
			country: "Kenya",
			existingIDs: []string{
				fmt.Sprintf("KE-%d-999", year),
			},
			want: fmt.Sprintf("KE-%d-1000", year),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.GeneratePropertyID(tt.country, tt.existingIDs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGeneratePropertyIDIsDeterministic(t *testing.T) {
	existing := []string{fmt.Sprintf("KE-%d-004", time.Now().Year())}

	first := domain.GeneratePropertyID("Kenya", existing)
	second := domain.GeneratePropertyID("Kenya", existing)

	assert.Equal(t, first, second)
}
