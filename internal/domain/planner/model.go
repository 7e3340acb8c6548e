package planner

// Activity is one timetable slot. The live timetable has a nil
// ArchiveName; saved snapshots carry the archive they belong to.
type Activity struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	UserID      string  `gorm:"type:uuid;not null;index"`
	Title       string  `gorm:"size:150;not null"`
	Teacher     *string `gorm:"size:150"`
	Room        *string `gorm:"size:150"`
	Notes       *string `gorm:"type:text"`
	Day         string  `gorm:"size:20;not null"`
	StartTime   string  `gorm:"size:5;not null;column:start_time"`
	EndTime     string  `gorm:"size:5;not null;column:end_time"`
	Color       *string `gorm:"size:7"`
	Duration    int     `gorm:"not null"`
	ArchiveName *string `gorm:"size:150;column:archive_name"`
}

func (Activity) TableName() string { return "planner_activities" }

// ActivityInput is one slot of an incoming timetable sync.
type ActivityInput struct {
	ID        string
	Title     string
	Teacher   *string
	Room      *string
	Notes     *string
	Day       string
	StartTime string
	EndTime   string
	Color     *string
	Duration  *int
}
