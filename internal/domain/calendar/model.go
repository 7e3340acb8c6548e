package calendar

import "time"

// Event times are stored as UTC instants but travel over the wire as
// milliseconds since the Unix epoch.
type Event struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	Title     string    `gorm:"size:255;not null"`
	StartTime time.Time `gorm:"not null"`
	EndTime   time.Time `gorm:"not null"`
	Notes     *string   `gorm:"type:text"`
	Color     *string   `gorm:"size:50"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "calendar_events"
}

// DayNote is free-form text attached to a calendar day. One row per
// (user, date).
type DayNote struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	Date      time.Time `gorm:"type:date;not null"`
	Notes     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (DayNote) TableName() string {
	return "day_notes"
}

// MillisToTime converts epoch milliseconds to a UTC instant.
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// TimeToMillis converts a UTC instant to epoch milliseconds.
func TimeToMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

type EventInput struct {
	Title   string
	StartMs int64
	EndMs   int64
	Notes   *string
	Color   *string
}

// UpdateEventInput carries partial updates. Nil means leave the field
// alone.
type UpdateEventInput struct {
	Title   *string
	StartMs *int64
	EndMs   *int64
	Notes   *string
	Color   *string
}

// EventRange filters listings by event time. Zero bounds are open.
type EventRange struct {
	Start *time.Time
	End   *time.Time
}
