package access

import (
	"testing"
	"time"

	"verity/internal/models"

	"github.com/stretchr/testify/assert"
)

func daysFromNow(now time.Time, days int) *time.Time {
	d := now.Add(time.Duration(days) * 24 * time.Hour)
	return &d
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		status       string
		deadline     *time.Time
		wantLevel    string
		wantNilDays  bool
		wantWarnings bool
	}{
		{
			// The VERIFIED short circuit never looks at the deadline,
			// so no day count is reported either.
			name:        "verified tenant has full access regardless of deadline",
			status:      models.StatusVerified,
			deadline:    daysFromNow(now, -10),
			wantLevel:   LevelFull,
			wantNilDays: true,
		},
		{
			name:        "pending without deadline has full access",
			status:      models.StatusPending,
			deadline:    nil,
			wantLevel:   LevelFull,
			wantNilDays: true,
		},
		{
			name:      "pending with distant deadline has full access",
			status:    models.StatusPending,
			deadline:  daysFromNow(now, 20),
			wantLevel: LevelFull,
		},
		{
			name:         "deadline inside grace window warns",
			status:       models.StatusUnderReview,
			deadline:     daysFromNow(now, 3),
			wantLevel:    LevelGracePeriod,
			wantWarnings: true,
		},
		{
			name:         "deadline today is grace period, not restricted",
			status:       models.StatusPending,
			deadline:     &now,
			wantLevel:    LevelGracePeriod,
			wantWarnings: true,
		},
		{
			name:         "deadline passed yesterday restricts with warning",
			status:       models.StatusPending,
			deadline:     daysFromNow(now, -1),
			wantLevel:    LevelRestricted,
			wantWarnings: true,
		},
		{
			name:         "rejected past deadline restricts with warning",
			status:       models.StatusRejected,
			deadline:     daysFromNow(now, -30),
			wantLevel:    LevelRestricted,
			wantWarnings: true,
		},
		{
			name:         "requires more info inside window still warns",
			status:       models.StatusRequiresMoreInfo,
			deadline:     daysFromNow(now, 6),
			wantLevel:    LevelGracePeriod,
			wantWarnings: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.status, tt.deadline, now)

			assert.Equal(t, tt.wantLevel, result.AccessLevel)
			if tt.wantNilDays {
				assert.Nil(t, result.DaysRemaining)
			} else {
				assert.NotNil(t, result.DaysRemaining)
			}
			if tt.wantWarnings {
				assert.NotEmpty(t, result.Warnings)
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestEvaluate_DaysRemainingValue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	result := Evaluate(models.StatusPending, daysFromNow(now, 3), now)
	assert.Equal(t, LevelGracePeriod, result.AccessLevel)
	if assert.NotNil(t, result.DaysRemaining) {
		assert.Equal(t, 3, *result.DaysRemaining)
	}

	result = Evaluate(models.StatusPending, daysFromNow(now, -1), now)
	assert.Equal(t, LevelRestricted, result.AccessLevel)
	if assert.NotNil(t, result.DaysRemaining) {
		assert.Equal(t, -1, *result.DaysRemaining)
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"exact moment", now, 0},
		{"half a day left rounds down", now.Add(12 * time.Hour), 0},
		{"three days left", now.Add(72 * time.Hour), 3},
		{"half a day past", now.Add(-12 * time.Hour), -1},
		{"two days past", now.Add(-48 * time.Hour), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysRemaining(tt.deadline, now))
		})
	}
}
