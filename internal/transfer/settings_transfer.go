package transfer

// ReviewSendDelayMinutes is left untyped on purpose: clients have been seen
// sending numbers, numeric strings and garbage. The service clamps whatever
// arrives into [0, 10080] and falls back to the 120 minute default.
type SettingsUpdate struct {
	ReviewSendDelayMinutes interface{} `json:"review_send_delay_minutes"`
	ReviewChannel          string      `json:"review_channel"`
	BookingURL             string      `json:"booking_url"`
}

type ProfileUpdate struct {
	SalonName       string `json:"salon_name"`
	City            string `json:"city"`
	Timezone        string `json:"timezone"`
	BrandVoice      string `json:"brand_voice"`
	ServicesText    string `json:"services_text"`
	InstagramHandle string `json:"instagram_handle"`
}

type SlugClaim struct {
	Slug string `json:"slug"`
}
