package diagnosis

import (
	"math"

	"github.com/healthfirst/homecare/internal/core/domain"
)

const (
	MinSeverity = 0
	MaxSeverity = 10
)

// SeverityScore sums the first-match weight of every phrase and adds the age
// and duration factors. Negative age or days count as zero.
func SeverityScore(catalog *SymptomCatalog, symptoms []string, age, daysSick int) int {
	base := 0
	for _, phrase := range symptoms {
		if hit, ok := catalog.Match(phrase); ok {
			base += hit.Weight
		}
	}
	total := float64(base) + ageFactor(age) + durationFactor(daysSick)
	return clampSeverity(int(math.Floor(total)))
}

func ageFactor(age int) float64 {
	if age < 0 {
		age = 0
	}
	return math.Max(0, float64(age-30)/10)
}

func durationFactor(days int) float64 {
	if days < 0 {
		days = 0
	}
	return math.Min(float64(days)/7, 2)
}

func clampSeverity(score int) int {
	if score < MinSeverity {
		return MinSeverity
	}
	if score > MaxSeverity {
		return MaxSeverity
	}
	return score
}

// DecidePriority maps a severity score to a priority bucket. Rows are
// evaluated top to bottom and the first satisfied row wins.
func DecidePriority(score int, confidence float64, age, daysSick int) domain.Priority {
	switch {
	case score >= 8 || (score >= 6 && age > 60):
		return domain.PriorityEmergency
	case score >= 6 || (score >= 4 && daysSick > 7):
		return domain.PriorityHigh
	case score >= 4 || confidence < 0.5:
		return domain.PriorityConsultDoctor
	default:
		return domain.PrioritySelfCare
	}
}

const elderlyCaution = "⚠️ Bệnh nhân cao tuổi nên thận trọng hơn và tìm kiếm lời khuyên y tế sớm hơn"

// Recommendations returns the localized action list for a priority. Patients
// over 60 always get an extra caution line.
func Recommendations(priority domain.Priority, age int) []string {
	var out []string
	switch priority {
	case domain.PriorityEmergency:
		out = []string{
			"🚨 Tìm kiếm sự chăm sóc y tế ngay lập tức",
			"Gọi cấp cứu nếu triệu chứng trở nên tồi tệ hơn",
			"Không trì hoãn điều trị",
		}
	case domain.PriorityHigh:
		out = []string{
			"🏥 Đặt lịch hẹn với bác sĩ trong vòng 24-48 giờ",
			"Theo dõi triệu chứng chặt chẽ",
			"Nghỉ ngơi và tránh các hoạt động gắng sức",
		}
	case domain.PriorityConsultDoctor:
		out = []string{
			"👨‍⚕️ Xem xét tham khảo ý kiến bác sĩ nếu triệu chứng kéo dài",
			"Theo dõi triệu chứng để phát hiện bất kỳ thay đổi nào",
			"Tuân theo các hướng dẫn sức khỏe chung",
		}
	default:
		out = []string{
			"🏠 Tự chăm sóc thường là đủ",
			"Nghỉ ngơi và uống nhiều nước",
			"Theo dõi bất kỳ triệu chứng trở nên tồi tệ hơn",
		}
	}
	if age > 60 {
		out = append(out, elderlyCaution)
	}
	return out
}
