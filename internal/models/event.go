package models

// KartingEvent is the stored form of a calendar event. Dates are ISO
// "YYYY-MM-DD" strings and times are optional 24h "HH:MM" strings.
type KartingEvent struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"not null" json:"title"`
	StartDate  string `gorm:"not null" json:"startDate"`
	EndDate    string `json:"endDate"`
	StartTime  string `json:"startTime,omitempty"`
	EndTime    string `json:"endTime,omitempty"`
	IsPersonal bool   `gorm:"not null;default:false" json:"isPersonal"`
}

func (KartingEvent) TableName() string {
	return "karting_events"
}
