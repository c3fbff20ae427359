package activity_test

import (
	"context"
	"testing"

	"github.com/aretw0/silverconnect/internal/services/activity"
	"github.com/aretw0/silverconnect/pkg/adapters/memory"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		activity domain.Activity
		prefs    activity.Preferences
		want     float64
	}{
		{
			name:     "Interest Category Counts Once",
			activity: domain.Activity{Category: "olahraga", Participants: 2},
			prefs:    activity.Preferences{Interests: []string{"Yoga", "walking", "olahraga"}},
			want:     0.4,
		},
		{
			name:     "Unknown Interest",
			activity: domain.Activity{Category: "olahraga", Participants: 2},
			prefs:    activity.Preferences{Interests: []string{"astronomy"}},
			want:     0,
		},
		{
			name:     "Ringan Mudah",
			activity: domain.Activity{Difficulty: "mudah", Participants: 2},
			prefs:    activity.Preferences{Level: "ringan"},
			want:     0.3,
		},
		{
			name:     "Ringan Sedang",
			activity: domain.Activity{Difficulty: "sedang", Participants: 2},
			prefs:    activity.Preferences{Level: "ringan"},
			want:     0.15,
		},
		{
			name:     "Ringan Sulit",
			activity: domain.Activity{Difficulty: "sulit", Participants: 2},
			prefs:    activity.Preferences{Level: "ringan"},
			want:     0,
		},
		{
			name:     "Sedang Mudah",
			activity: domain.Activity{Difficulty: "mudah", Participants: 2},
			prefs:    activity.Preferences{Level: "sedang"},
			want:     0.2,
		},
		{
			name:     "Sedang Sedang",
			activity: domain.Activity{Difficulty: "sedang", Participants: 2},
			prefs:    activity.Preferences{Level: "sedang"},
			want:     0.3,
		},
		{
			name:     "Aktif Mudah",
			activity: domain.Activity{Difficulty: "mudah", Participants: 2},
			prefs:    activity.Preferences{Level: "aktif"},
			want:     0.1,
		},
		{
			name:     "Aktif Sedang",
			activity: domain.Activity{Difficulty: "sedang", Participants: 2},
			prefs:    activity.Preferences{Level: "aktif"},
			want:     0.2,
		},
		{
			name:     "Aktif Sulit",
			activity: domain.Activity{Difficulty: "sulit", Participants: 2},
			prefs:    activity.Preferences{Level: "aktif"},
			want:     0.3,
		},
		{
			name:     "Morning Window Start",
			activity: domain.Activity{Time: "07:00", Participants: 2},
			prefs:    activity.Preferences{PreferredTime: "pagi"},
			want:     0.2,
		},
		{
			name:     "Before Morning Window",
			activity: domain.Activity{Time: "06:30", Participants: 2},
			prefs:    activity.Preferences{PreferredTime: "pagi"},
			want:     0,
		},
		{
			name:     "Ten Is Both Morning And Midday",
			activity: domain.Activity{Time: "10:30", Participants: 2},
			prefs:    activity.Preferences{PreferredTime: "siang"},
			want:     0.2,
		},
		{
			name:     "Afternoon Window",
			activity: domain.Activity{Time: "15:30", Participants: 2},
			prefs:    activity.Preferences{PreferredTime: "sore"},
			want:     0.2,
		},
		{
			name:     "Missing Time",
			activity: domain.Activity{Participants: 2},
			prefs:    activity.Preferences{PreferredTime: "pagi"},
			want:     0,
		},
		{
			name:     "Group Activity",
			activity: domain.Activity{Participants: 8},
			prefs:    activity.Preferences{},
			want:     0.1,
		},
		{
			name:     "Small Activity For Solo",
			activity: domain.Activity{Participants: 7},
			prefs:    activity.Preferences{Solo: true},
			want:     0.1,
		},
		{
			name:     "Group Activity For Solo",
			activity: domain.Activity{Participants: 12},
			prefs:    activity.Preferences{Solo: true},
			want:     0,
		},
		{
			name:     "Every Weight",
			activity: domain.Activity{Time: "09:00", Participants: 12, Difficulty: "mudah", Category: "olahraga"},
			prefs:    activity.Preferences{Interests: []string{"walking"}, Level: "ringan", PreferredTime: "pagi"},
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, activity.Score(tt.activity, tt.prefs), 1e-9)
		})
	}
}

func TestRecommend_ThresholdAndLimit(t *testing.T) {
	catalog := []domain.Activity{
		{ID: 1, Name: "Exactly Threshold", Difficulty: "mudah", Participants: 2, MaxParticipants: 10},
		{ID: 2, Name: "Just Above", Difficulty: "sedang", Time: "08:00", Participants: 2, MaxParticipants: 10},
		{ID: 3, Name: "Good", Difficulty: "mudah", Category: "hobi", Participants: 2, MaxParticipants: 10},
		{ID: 4, Name: "Best", Difficulty: "mudah", Category: "hobi", Time: "09:00", Participants: 2, MaxParticipants: 10},
		{ID: 5, Name: "Also Good", Difficulty: "mudah", Category: "hobi", Participants: 2, MaxParticipants: 10},
	}
	e, err := activity.New(catalog, memory.NewLedger())
	require.NoError(t, err)

	recs, err := e.Recommend(context.Background(), activity.Preferences{Interests: []string{"berkebun"}, Level: "ringan"})
	require.NoError(t, err)

	var names []string
	for _, r := range recs {
		names = append(names, r.Activity.Name)
	}
	assert.Equal(t, []string{"Best", "Good", "Also Good"}, names, "best first, ties in catalog order, capped at three")
	assert.InDelta(t, 0.9, recs[0].Score, 1e-9)
	assert.Equal(t, 90, recs[0].Match())

	recs, err = e.Recommend(context.Background(), activity.Preferences{Level: "ringan"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Best", recs[0].Activity.Name)
	assert.Equal(t, "Just Above", recs[1].Activity.Name, "a score equal to the threshold is dropped")
}

func TestRecommend_Defaults(t *testing.T) {
	e := newEngine(t)

	recs, err := e.Recommend(context.Background(), activity.Preferences{Interests: []string{"memasak"}})
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, "Workshop Masak Rendang", recs[0].Activity.Name)
	assert.InDelta(t, 0.7, recs[0].Score, 1e-9, "sedang level with no time set")
}

func TestRecommend_UsesLiveCounts(t *testing.T) {
	catalog := []domain.Activity{{ID: 1, Name: "Almost A Group", Difficulty: "mudah", Category: "hobi", Participants: 7, MaxParticipants: 10}}
	ledger := memory.NewLedger()
	e, err := activity.New(catalog, ledger)
	require.NoError(t, err)
	ctx := context.Background()

	recs, err := e.Recommend(ctx, activity.Preferences{Interests: []string{"cooking"}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, 0.6, recs[0].Score, 1e-9)

	_, err = ledger.Claim(ctx, ports.Claim{Scope: domain.ScopeActivity, ItemID: 1, Username: "alice", Capacity: 10, Baseline: 7})
	require.NoError(t, err)

	recs, err = e.Recommend(ctx, activity.Preferences{Interests: []string{"cooking"}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 8, recs[0].Activity.Participants)
	assert.InDelta(t, 0.7, recs[0].Score, 1e-9)
}

func TestRecommend_RejectsUnknownPreferences(t *testing.T) {
	e := newEngine(t)

	_, err := e.Recommend(context.Background(), activity.Preferences{Level: "extreme"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.Recommend(context.Background(), activity.Preferences{PreferredTime: "midnight"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
