package triage

import (
	"strings"

	"github.com/healthfirst/homecare/internal/core/domain"
)

// PersonalNotes derives extra advice from a profile snapshot. Weight, age and
// gender notes are independent and may all apply. Absent fields add nothing:
// a missing age must not read as 0 here, or every profile without an age
// would get the under-18 note. domain.AnalyzeHealth still buckets a missing
// age as 0 because it reports an age group rather than giving advice.
func PersonalNotes(p *domain.HealthProfile) []string {
	if p == nil {
		return nil
	}
	var notes []string

	if p.WeightKG != nil {
		switch w := *p.WeightKG; {
		case w > 80:
			notes = append(notes, "Duy trì chế độ ăn cân bằng và tập thể dục đều đặn")
		case w > 0 && w < 50:
			notes = append(notes, "Tăng cường dinh dưỡng và protein trong chế độ ăn")
		}
	}

	if p.Age != nil {
		switch age := *p.Age; {
		case age > 60:
			notes = append(notes, "Khám sức khỏe định kỳ và theo dõi huyết áp")
		case age < 18:
			notes = append(notes, "Đảm bảo ngủ đủ giấc và dinh dưỡng phù hợp với lứa tuổi")
		}
	}

	switch domain.Gender(strings.ToLower(strings.TrimSpace(p.Gender))) {
	case domain.GenderFemale:
		notes = append(notes, "Chú ý đến sức khỏe xương và canxi")
	case domain.GenderMale:
		notes = append(notes, "Kiểm tra sức khỏe tim mạch định kỳ")
	}

	return notes
}
