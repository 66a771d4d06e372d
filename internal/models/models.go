package models

import "time"

// Weather categories a user can record for a session.
const (
	WeatherClear        = "clear"
	WeatherPartlyCloudy = "partly_cloudy"
	WeatherCloudy       = "cloudy"
	WeatherRainy        = "rainy"
	WeatherFoggy        = "foggy"
)

// Observation is one user-recorded viewing session. Field names match the
// persisted JSON representation exactly; the store serializes the record
// as-is.
type Observation struct {
	ID        string `json:"id"`
	ShowerID  string `json:"showerId" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`

	Conditions Conditions `json:"conditions"`

	// Sightings holds what the user actually saw. The JSON key is
	// "observations" for compatibility with the stored record shape.
	Sightings Sightings `json:"observations"`

	Rating int    `json:"rating" validate:"min=1,max=5"`
	Notes  string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Conditions describes the sky during a session.
type Conditions struct {
	SkyClarity     int      `json:"skyClarity" validate:"min=1,max=5"`
	LightPollution int      `json:"lightPollution" validate:"min=1,max=5"`
	Weather        string   `json:"weather" validate:"oneof=clear partly_cloudy cloudy rainy foggy"`
	Temperature    *float64 `json:"temperature,omitempty"`
	Humidity       *float64 `json:"humidity,omitempty"`
}

// Sightings summarizes the meteors seen during a session.
type Sightings struct {
	MeteorsCount       int      `json:"meteorsCount" validate:"min=0"`
	BrightestMagnitude *float64 `json:"brightestMagnitude,omitempty"`
	FireballCount      int      `json:"fireballCount" validate:"min=0"`
	Colors             []string `json:"colors,omitempty"`
	PeakActivity       string   `json:"peakActivity,omitempty"`
}

// Stats is the aggregate derived from the full observation list. It is a
// cache: always regenerable from the raw list, never a source of truth.
type Stats struct {
	TotalObservations int                    `json:"totalObservations"`
	TotalMeteors      int                    `json:"totalMeteors"`
	TotalHours        float64                `json:"totalHours"`
	AverageRating     float64                `json:"averageRating"`
	FavoriteShower    string                 `json:"favoriteShower"`
	LongestSession    float64                `json:"longestSession"`
	CurrentStreak     int                    `json:"currentStreak"`
	LongestStreak     int                    `json:"longestStreak"`
	MonthlyStats      map[string]int         `json:"monthlyStats"`
	ShowerStats       map[string]ShowerStats `json:"showerStats"`
}

// ShowerStats aggregates sessions for a single shower.
type ShowerStats struct {
	Observations  int         `json:"observations"`
	TotalMeteors  int         `json:"totalMeteors"`
	AverageRating float64     `json:"averageRating"`
	BestSession   BestSession `json:"bestSession"`
}

// BestSession identifies the standout session for a shower: highest meteor
// count, ties broken by rating.
type BestSession struct {
	Date    string `json:"date"`
	Meteors int    `json:"meteors"`
	Rating  int    `json:"rating"`
}

// Location is an observer position, supplied by the caller.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Timezone  string  `json:"timezone,omitempty"`
}

// ViewingConditions is a transient per-request forecast of how good viewing
// will be for a shower at a location on a date. Never persisted.
type ViewingConditions struct {
	Visibility       float64 `json:"visibility"`
	MoonPhase        float64 `json:"moonPhase"`
	MoonIllumination int     `json:"moonIllumination"`
	WindowStart      string  `json:"windowStart"`
	WindowEnd        string  `json:"windowEnd"`
	LightPollution   string  `json:"lightPollution"`
}

// NotificationSettings controls peak-reminder planning. The core only plans;
// delivery belongs to an external notification layer.
type NotificationSettings struct {
	Enabled         bool `json:"enabled"`
	PeakReminder    bool `json:"peakReminder"`
	DaysBefore      int  `json:"daysBefore" validate:"min=0,max=30"`
	HoursBeforePeak int  `json:"hoursBeforePeak" validate:"min=0,max=72"`
	MinimumZHR      int  `json:"minimumZHR" validate:"min=0"`
}

// DefaultNotificationSettings returns the settings used before the user has
// saved any.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:         true,
		PeakReminder:    true,
		DaysBefore:      1,
		HoursBeforePeak: 3,
		MinimumZHR:      20,
	}
}
