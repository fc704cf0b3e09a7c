package model

// MissionType identifies the dismissal challenge attached to an alarm.
// Stored as its canonical string tag.
type MissionType string

const (
	MissionMath   MissionType = "MATH"
	MissionShake  MissionType = "SHAKE"
	MissionMemory MissionType = "MEMORY"
	MissionOrder  MissionType = "ORDER"
	MissionTyping MissionType = "TYPING"
)

// Difficulty grades a mission. Stored as a small integer code.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// RepeatMode controls which days an alarm fires on.
// Stored as its canonical string tag.
type RepeatMode string

const (
	RepeatOnce     RepeatMode = "ONCE"
	RepeatWorkdays RepeatMode = "WORKDAYS"
	RepeatCustom   RepeatMode = "CUSTOM"
)

// ThemeMode selects the app color scheme. Stored as its canonical string tag.
type ThemeMode string

const (
	ThemeAuto  ThemeMode = "AUTO"
	ThemeLight ThemeMode = "LIGHT"
	ThemeDark  ThemeMode = "DARK"
)

// Alarm is one scheduled wake-up alarm.
//
// ID is caller-generated (typically a UUID) and immutable for the life of
// the row. Every other field is mutable via update.
type Alarm struct {
	ID   string `yaml:"id"`
	Time string `yaml:"time"` // wall-clock trigger time, "HH:mm"

	Enabled bool   `yaml:"enabled"`
	Label   string `yaml:"label"`

	Mission    MissionType `yaml:"mission"`
	Difficulty Difficulty  `yaml:"difficulty"`

	Repeat RepeatMode `yaml:"repeat"`
	// CustomDays lists weekdays (0=Sunday..6=Saturday) for RepeatCustom,
	// in the order the user picked them.
	CustomDays []int `yaml:"custom_days"`

	SkipHolidays bool `yaml:"skip_holidays"`

	// CreatedAt is epoch milliseconds at insert time.
	CreatedAt int64 `yaml:"created_at"`
}

// DateLayout is the canonical calendar-date form ("yyyy-MM-dd") as a Go
// reference layout. Every stored and parsed date uses it.
const DateLayout = "2006-01-02"

// WakeUpRecord is one morning the user actually got up.
//
// AlarmLabel and AlarmID are snapshots taken when the record is written;
// they survive deletion of the source alarm and are never enforced as
// references.
type WakeUpRecord struct {
	ID   string `yaml:"id"`
	Date string `yaml:"date"` // calendar date, "yyyy-MM-dd"
	Time string `yaml:"time"` // wake time, "HH:mm"

	AlarmLabel *string `yaml:"alarm_label,omitempty"`
	AlarmID    *string `yaml:"alarm_id,omitempty"`

	// Timestamp is epoch milliseconds at the moment the record was taken.
	Timestamp int64 `yaml:"timestamp"`
}

// AppSettings is the singleton settings row. Absence of the row means
// "not yet configured" and is distinct from a default-valued AppSettings.
type AppSettings struct {
	Theme    ThemeMode `yaml:"theme"`
	Language string    `yaml:"language"` // BCP-47 tag, e.g. "zh", "en"

	AntiSnoozeEnabled  bool `yaml:"anti_snooze_enabled"`
	AntiSnoozeInterval int  `yaml:"anti_snooze_interval"` // minutes between reminders
	AntiSnoozeCount    int  `yaml:"anti_snooze_count"`    // number of reminders

	SafetyNoticeAccepted bool `yaml:"safety_notice_accepted"`
}

// DefaultSettings returns the values a fresh install starts from.
func DefaultSettings() AppSettings {
	return AppSettings{
		Theme:              ThemeAuto,
		Language:           "zh",
		AntiSnoozeEnabled:  false,
		AntiSnoozeInterval: 5,
		AntiSnoozeCount:    2,
	}
}
