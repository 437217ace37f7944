package domain

import "time"

// Assessment is the persisted record of one triage evaluation.
type Assessment struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	UserEmail       string    `json:"user_email,omitempty"`
	Symptoms        string    `json:"symptoms"`
	AgeAtAssessment int       `json:"age_at_assessment"`
	DaysSick        int       `json:"days_sick"`
	Priority        Priority  `json:"priority"`
	Message         string    `json:"message"`
	Description     string    `json:"description"`
	Recommendations []string  `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
}

type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied:
		return true
	default:
		return false
	}
}

type Contact struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// SavedDiagnosis is a predictor result the user chose to keep in their history.
type SavedDiagnosis struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Symptoms  []string  `json:"symptoms"`
	Diagnosis Diagnosis `json:"diagnosis"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings are the admin-editable runtime settings.
type Settings struct {
	AppName                string `json:"app_name"`
	AppDescription         string `json:"app_description"`
	ContactEmail           string `json:"contact_email"`
	SupportPhone           string `json:"support_phone"`
	TwoFactorAuth          bool   `json:"two_factor_auth"`
	LoginAttempts          int    `json:"login_attempts"`
	LockoutDurationMinutes int    `json:"lockout_duration"`
	EmailNotifications     bool   `json:"email_notifications"`
	ContactNotifications   bool   `json:"contact_notifications"`
	EmergencyNotifications bool   `json:"emergency_notifications"`
	MaintenanceMode        bool   `json:"maintenance_mode"`
	SessionTimeoutMinutes  int    `json:"session_timeout"`
	BackupFrequency        string `json:"backup_frequency"`
}

func DefaultSettings() Settings {
	return Settings{
		AppName:                "HealthFirst",
		AppDescription:         "Hệ thống hướng dẫn y tế và chăm sóc sức khỏe tại nhà",
		ContactEmail:           "admin@healthfirst.com",
		SupportPhone:           "+84 123 456 789",
		LoginAttempts:          5,
		LockoutDurationMinutes: 30,
		EmailNotifications:     true,
		ContactNotifications:   true,
		EmergencyNotifications: true,
		SessionTimeoutMinutes:  30,
		BackupFrequency:        "weekly",
	}
}

// Normalize replaces non-positive limits with defaults.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if s.LoginAttempts <= 0 {
		s.LoginAttempts = def.LoginAttempts
	}
	if s.LockoutDurationMinutes <= 0 {
		s.LockoutDurationMinutes = def.LockoutDurationMinutes
	}
	if s.SessionTimeoutMinutes <= 0 {
		s.SessionTimeoutMinutes = def.SessionTimeoutMinutes
	}
	if s.AppName == "" {
		s.AppName = def.AppName
	}
	return s
}

type MonthlyStat struct {
	Month       string `json:"month"`
	Users       int    `json:"users"`
	Assessments int    `json:"assessments"`
}

type Report struct {
	TotalUsers       int           `json:"total_users"`
	TotalAssessments int           `json:"total_assessments"`
	TotalContacts    int           `json:"total_contacts"`
	Months           []MonthlyStat `json:"months"`
	GeneratedAt      time.Time     `json:"generated_at"`
}

type Dashboard struct {
	TotalUsers        int             `json:"total_users"`
	TotalAssessments  int             `json:"total_assessments"`
	NewContacts       int             `json:"new_contacts"`
	RecentAssessments []Assessment    `json:"recent_assessments"`
	RecentContacts    []Contact       `json:"recent_contacts"`
	SyncStatistics    *SyncStatistics `json:"sync_statistics,omitempty"`
}
