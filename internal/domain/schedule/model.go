package schedule

import "time"

// Member is a named participant in the owning user's roster. Names are
// unique case-insensitively per user.
type Member struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"size:100;not null"`
	Color     string    `gorm:"size:7;not null"`
	Icon      string    `gorm:"size:10;not null"`
	SortOrder int       `gorm:"not null;default:0;column:sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Member) TableName() string { return "family_members" }

// Activity is one concrete occurrence of a scheduled activity on one
// calendar day of an ISO week. Participants are stored through the
// activity_participants join table and loaded by the repository.
type Activity struct {
	ID        string  `gorm:"type:uuid;primaryKey"`
	UserID    string  `gorm:"type:uuid;not null;index"`
	SeriesID  string  `gorm:"type:uuid;index"`
	Name      string  `gorm:"size:150;not null"`
	Icon      *string `gorm:"size:10"`
	Day       string  `gorm:"size:20;not null"`
	Week      int     `gorm:"not null"`
	Year      int     `gorm:"not null"`
	StartTime string  `gorm:"size:5;not null;column:start_time"`
	EndTime   string  `gorm:"size:5;not null;column:end_time"`
	Location  *string `gorm:"size:150"`
	Notes     *string `gorm:"type:text"`
	Color     *string `gorm:"size:7"`

	Participants []string `gorm:"-"`
}

func (Activity) TableName() string { return "activities" }

// ActivityParticipant links an activity to a roster member. The activity
// owns the rows: deleting it removes the associations, while a member
// with remaining rows cannot be deleted.
type ActivityParticipant struct {
	ActivityID string `gorm:"type:uuid;primaryKey"`
	MemberID   string `gorm:"type:uuid;primaryKey"`
}

func (ActivityParticipant) TableName() string { return "activity_participants" }

// Settings holds the per-user schedule display preferences, created
// lazily with defaults on first read.
type Settings struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	UserID       string `gorm:"type:uuid;not null;uniqueIndex"`
	ShowWeekends bool   `gorm:"not null;default:false"`
	DayStart     int    `gorm:"not null;default:7"`
	DayEnd       int    `gorm:"not null;default:18"`
}

func (Settings) TableName() string { return "schedule_settings" }

const (
	DefaultDayStart = 7
	DefaultDayEnd   = 18
)

// DayWeekYear pins one occurrence to a weekday of an ISO week.
type DayWeekYear struct {
	Day  string
	Week int
	Year int
}

// RecurringRule describes a weekly series: the requested weekdays,
// the ISO week/year whose Monday starts the series, and an inclusive
// end date.
type RecurringRule struct {
	Days    []string
	Week    int
	Year    int
	EndDate time.Time
}

// NormalizedActivity is the validator's output. Exactly one of
// Occurrences and Recurring is set; it is never persisted directly.
type NormalizedActivity struct {
	Name         string
	Icon         *string
	StartTime    string
	EndTime      string
	Participants []string
	Location     *string
	Notes        *string
	Color        *string
	SeriesID     string

	Occurrences []DayWeekYear
	Recurring   *RecurringRule
}

// InstanceDescriptor is one expanded occurrence, ready for conflict
// checking and persistence.
type InstanceDescriptor struct {
	Name         string
	Icon         *string
	StartTime    string
	EndTime      string
	Participants []string
	Location     *string
	Notes        *string
	Color        *string
	SeriesID     string
	Day          string
	Week         int
	Year         int
}

// Conflict pairs a new instance with a stored one that shares a
// participant and overlaps in time on the same day.
type Conflict struct {
	Day      string       `json:"day"`
	Week     int          `json:"week"`
	Year     int          `json:"year"`
	New      ConflictSide `json:"new"`
	Existing ConflictSide `json:"existing"`
}

type ConflictSide struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"`
	Participants []string `json:"participants"`
}

// ActivityPayload is a raw user- or AI-submitted activity description.
// The temporal specification is one of: Date/Dates, Day/Days+Week+Year,
// or Day/Days+Week+Year+RecurringEndDate for a weekly series.
type ActivityPayload struct {
	Name             string     `json:"name"`
	Icon             *string    `json:"icon"`
	StartTime        string     `json:"startTime"`
	EndTime          string     `json:"endTime"`
	Participants     []FlexRef  `json:"participants"`
	Location         *string    `json:"location"`
	Notes            *string    `json:"notes"`
	Color            *string    `json:"color"`
	SeriesID         string     `json:"seriesId"`
	Date             string     `json:"date"`
	Dates            []string   `json:"dates"`
	Day              *FlexRef   `json:"day"`
	Days             []FlexRef  `json:"days"`
	Week             *int       `json:"week"`
	Year             *int       `json:"year"`
	RecurringEndDate string     `json:"recurringEndDate"`
}

type ActivityFilter struct {
	Week *int
	Year *int
}

type CreateMemberInput struct {
	Name  string
	Color string
	Icon  string
}

type UpdateMemberInput struct {
	Name      *string
	Color     *string
	Icon      *string
	SortOrder *int
}

type UpdateSettingsInput struct {
	ShowWeekends *bool
	DayStart     *int
	DayEnd       *int
}

// UpdateActivityInput carries partial field edits. Participants, when
// present, replace the whole set.
type UpdateActivityInput struct {
	Name         *string
	Icon         *string
	Day          *FlexRef
	Week         *int
	Year         *int
	StartTime    *string
	EndTime      *string
	Location     *string
	Notes        *string
	Color        *string
	Participants *[]FlexRef
}
