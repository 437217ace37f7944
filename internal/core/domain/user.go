package domain

import (
	"math"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	DisplayName      string     `json:"display_name"`
	Gender           Gender     `json:"gender,omitempty"`
	Age              *int       `json:"age,omitempty"`
	HeightCM         *float64   `json:"height,omitempty"`
	WeightKG         *float64   `json:"weight,omitempty"`
	MedicalHistory   string     `json:"medical_history,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Address          string     `json:"address,omitempty"`
	EmergencyContact string     `json:"emergency_contact,omitempty"`
	BloodType        string     `json:"blood_type,omitempty"`
	Allergies        string     `json:"allergies,omitempty"`
	Medications      string     `json:"medications,omitempty"`
	IsAdmin          bool       `json:"is_admin"`
	IsActive         bool       `json:"is_active"`
	LastLoginAt      *time.Time `json:"last_login,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HealthProfile returns the triage snapshot of the user's stored profile.
func (u *User) HealthProfile() *HealthProfile {
	if u == nil {
		return nil
	}
	return &HealthProfile{
		Age:      u.Age,
		Gender:   string(u.Gender),
		HeightCM: u.HeightCM,
		WeightKG: u.WeightKG,
	}
}

// UserView is the API representation of a user with derived health fields.
type UserView struct {
	*User
	BMI         *float64 `json:"bmi,omitempty"`
	BMICategory string   `json:"bmi_category,omitempty"`
}

func NewUserView(u *User) UserView {
	view := UserView{User: u}
	if bmi, ok := ComputeBMI(u.HeightCM, u.WeightKG); ok {
		view.BMI = &bmi
		view.BMICategory = BMICategory(bmi)
	}
	return view
}

// ProfileUpdate carries the fields a user may change on their profile. A nil
// pointer leaves the stored value untouched.
type ProfileUpdate struct {
	DisplayName      *string  `json:"display_name,omitempty"`
	Gender           *string  `json:"gender,omitempty"`
	Age              *int     `json:"age,omitempty"`
	HeightCM         *float64 `json:"height,omitempty"`
	WeightKG         *float64 `json:"weight,omitempty"`
	MedicalHistory   *string  `json:"medical_history,omitempty"`
	Phone            *string  `json:"phone,omitempty"`
	Address          *string  `json:"address,omitempty"`
	EmergencyContact *string  `json:"emergency_contact,omitempty"`
	BloodType        *string  `json:"blood_type,omitempty"`
	Allergies        *string  `json:"allergies,omitempty"`
	Medications      *string  `json:"medications,omitempty"`
}

type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ComputeBMI returns weight/(height in m)^2 rounded to one decimal.
func ComputeBMI(heightCM, weightKG *float64) (float64, bool) {
	if heightCM == nil || weightKG == nil || *heightCM <= 0 || *weightKG <= 0 {
		return 0, false
	}
	m := *heightCM / 100
	return math.Round(*weightKG/(m*m)*10) / 10, true
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Thiếu cân"
	case bmi < 25:
		return "Bình thường"
	case bmi < 30:
		return "Thừa cân"
	default:
		return "Béo phì"
	}
}

func AgeGroup(age int) string {
	switch {
	case age < 18:
		return "Trẻ em/Vị thành niên"
	case age < 65:
		return "Người trưởng thành"
	default:
		return "Người cao tuổi"
	}
}

type HealthAnalysis struct {
	BMI       *float64 `json:"bmi,omitempty"`
	BMIStatus string   `json:"bmi_status,omitempty"`
	AgeGroup  string   `json:"age_group"`
}

type HealthGuidance struct {
	GeneralTips              []string `json:"general_tips"`
	LifestyleRecommendations []string `json:"lifestyle_recommendations"`
	PreventiveMeasures       []string `json:"preventive_measures"`
}

// AnalyzeHealth derives BMI status and age group from a profile snapshot.
func AnalyzeHealth(p *HealthProfile) HealthAnalysis {
	var out HealthAnalysis
	if p == nil {
		return out
	}
	if bmi, ok := ComputeBMI(p.HeightCM, p.WeightKG); ok {
		out.BMI = &bmi
		out.BMIStatus = BMICategory(bmi)
	}
	age := 0
	if p.Age != nil {
		age = *p.Age
	}
	out.AgeGroup = AgeGroup(age)
	return out
}

func GuidanceFor(p *HealthProfile) HealthGuidance {
	g := HealthGuidance{
		GeneralTips: []string{
			"Duy trì chế độ ăn uống cân bằng và đa dạng",
			"Tập thể dục ít nhất 30 phút mỗi ngày",
			"Ngủ đủ 7-9 giờ mỗi đêm",
			"Uống đủ nước (2-3 lít/ngày)",
		},
		LifestyleRecommendations: []string{},
		PreventiveMeasures:       []string{},
	}
	age := 0
	if p != nil && p.Age != nil {
		age = *p.Age
	}
	switch {
	case age > 50:
		g.PreventiveMeasures = append(g.PreventiveMeasures,
			"Khám sức khỏe định kỳ 6 tháng/lần",
			"Kiểm tra huyết áp và cholesterol",
		)
	case age < 30:
		g.LifestyleRecommendations = append(g.LifestyleRecommendations,
			"Xây dựng thói quen tập thể dục từ sớm",
			"Hạn chế rượu bia và thuốc lá",
		)
	}
	return g
}
