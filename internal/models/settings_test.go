package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	var s UserSettings

	assert.True(t, s.Notifications.ShareAlertsOrDefault())
	assert.True(t, s.Notifications.LikeAlertsOrDefault())
	assert.True(t, s.Notifications.CommentAlertsOrDefault())
	assert.True(t, s.Privacy.SearchVisibleOrDefault())
	assert.Equal(t, "USD", s.Dashboard.CurrencyOrDefault())
	assert.Equal(t, 6, s.Dashboard.MonthsShownOrDefault())
}

func TestExplicitFalseBeatsDefault(t *testing.T) {
	off := false
	s := UserSettings{
		Notifications: NotificationSettings{ShareAlerts: &off},
		Privacy:       PrivacySettings{SearchVisible: &off},
	}

	assert.False(t, s.Notifications.ShareAlertsOrDefault())
	assert.False(t, s.Privacy.SearchVisibleOrDefault())
	assert.True(t, s.Notifications.LikeAlertsOrDefault(), "untouched preferences keep their default")
}

func TestAbsentPreferenceSurvivesRoundTrip(t *testing.T) {
	off := false
	original := UserSettings{
		Notifications: NotificationSettings{LikeAlerts: &off},
		Dashboard:     DashboardSettings{Currency: "EUR", MonthsShown: 12},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	var restored UserSettings
	require.NoError(t, json.Unmarshal(data, &restored))

	// The explicit false survives; the never-set preference stays absent
	// rather than becoming an explicit value.
	require.NotNil(t, restored.Notifications.LikeAlerts)
	assert.False(t, *restored.Notifications.LikeAlerts)
	assert.Nil(t, restored.Notifications.ShareAlerts)
	assert.Equal(t, "EUR", restored.Dashboard.CurrencyOrDefault())
	assert.Equal(t, 12, restored.Dashboard.MonthsShownOrDefault())
}
