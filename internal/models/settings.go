package models

// UserSettings replaces the loose preference blob with one struct per
// concern. Zero values mean "not set"; defaults are applied in the
// *OrDefault accessors and nowhere else.
type UserSettings struct {
	Notifications NotificationSettings `json:"notifications"`
	Privacy       PrivacySettings      `json:"privacy"`
	Dashboard     DashboardSettings    `json:"dashboard"`
}

// NotificationSettings uses *bool so that an absent preference is
// distinguishable from an explicit false. Absent means enabled.
type NotificationSettings struct {
	ShareAlerts   *bool `json:"share_alerts,omitempty"`
	LikeAlerts    *bool `json:"like_alerts,omitempty"`
	CommentAlerts *bool `json:"comment_alerts,omitempty"`
}

type PrivacySettings struct {
	DefaultShare  bool  `json:"default_share"`
	SearchVisible *bool `json:"search_visible,omitempty"`
}

type DashboardSettings struct {
	Currency    string `json:"currency,omitempty"`
	MonthsShown int    `json:"months_shown,omitempty"`
}

func (n NotificationSettings) ShareAlertsOrDefault() bool {
	if n.ShareAlerts == nil {
		return true
	}
	return *n.ShareAlerts
}

func (n NotificationSettings) LikeAlertsOrDefault() bool {
	if n.LikeAlerts == nil {
		return true
	}
	return *n.LikeAlerts
}

func (n NotificationSettings) CommentAlertsOrDefault() bool {
	if n.CommentAlerts == nil {
		return true
	}
	return *n.CommentAlerts
}

func (p PrivacySettings) SearchVisibleOrDefault() bool {
	if p.SearchVisible == nil {
		return true
	}
	return *p.SearchVisible
}

func (d DashboardSettings) CurrencyOrDefault() string {
	if d.Currency == "" {
		return "USD"
	}
	return d.Currency
}

func (d DashboardSettings) MonthsShownOrDefault() int {
	if d.MonthsShown <= 0 {
		return 6
	}
	return d.MonthsShown
}

type UpdateSettingsRequest struct {
	Notifications *NotificationSettings `json:"notifications,omitempty"`
	Privacy       *PrivacySettings      `json:"privacy,omitempty"`
	Dashboard     *DashboardSettings    `json:"dashboard,omitempty"`
}
