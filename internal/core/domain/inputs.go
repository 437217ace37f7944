package domain

import (
	"net/mail"
	"strings"
)

type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	DisplayName     string `json:"display_name,omitempty"`
}

func (in RegisterInput) Validate() error {
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return NewUserError(ErrInvalidInput, "Email không hợp lệ")
	}
	if len(in.Password) < 6 {
		return NewUserError(ErrInvalidInput, "Mật khẩu phải có ít nhất 6 ký tự")
	}
	if in.Password != in.ConfirmPassword {
		return NewUserError(ErrInvalidInput, "Mật khẩu xác nhận không khớp")
	}
	return nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (in ContactInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Message) == "" {
		return NewUserError(ErrInvalidInput, "Thiếu thông tin bắt buộc")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return NewUserError(ErrInvalidInput, "Email không hợp lệ")
	}
	return nil
}

// QuickDiagnosisRequest runs the predictor without persisting anything.
// Missing age and duration default to 30 years and 3 days.
type QuickDiagnosisRequest struct {
	Symptoms []string `json:"symptoms"`
	Age      *int     `json:"age,omitempty"`
	DaysSick *int     `json:"days_sick,omitempty"`
}

const (
	DefaultQuickAge  = 30
	DefaultQuickDays = 3
)

func (r QuickDiagnosisRequest) Values() (age, days int) {
	age, days = DefaultQuickAge, DefaultQuickDays
	if r.Age != nil {
		age = *r.Age
	}
	if r.DaysSick != nil {
		days = *r.DaysSick
	}
	return age, days
}

// SaveDiagnosisInput keeps a predictor result in the caller's history.
type SaveDiagnosisInput struct {
	UserID    string    `json:"user_id"`
	Symptoms  []string  `json:"symptoms"`
	Diagnosis Diagnosis `json:"diagnosis"`
}

// ProfileView is the profile read model with derived health data.
type ProfileView struct {
	User     UserView       `json:"user"`
	Analysis HealthAnalysis `json:"analysis"`
	Guidance HealthGuidance `json:"guidance"`
}
