package triage

import (
	"fmt"
	"strings"

	"github.com/healthfirst/homecare/internal/core/domain"
)

// Engine evaluates free-text symptoms against keyword rules. It holds only
// read-only configuration and is safe for concurrent use.
type Engine struct {
	rules  RuleSet
	topics []domain.Topic
}

func NewEngine(rules RuleSet, topics []domain.Topic) *Engine {
	return &Engine{
		rules:  rules,
		topics: append([]domain.Topic(nil), topics...),
	}
}

func (e *Engine) Rules() RuleSet { return e.rules }

func (e *Engine) Topics() []domain.Topic {
	return append([]domain.Topic(nil), e.topics...)
}

// Assess runs the emergency, high priority, age and duration checks in that
// order. The first check that fires decides the result; when none fires the
// report is home care with matched topics and profile notes.
func (e *Engine) Assess(req domain.AssessmentRequest) domain.AssessmentResult {
	text := strings.ToLower(req.Symptoms)

	if kw, ok := firstKeyword(e.rules.EmergencyKeywords, text); ok {
		return result(domain.PriorityEmergency,
			"CẦN ĐI CẤP CỨU NGAY!",
			fmt.Sprintf("Phát hiện dấu hiệu khẩn cấp: \"%s\". Vui lòng đến bệnh viện gần nhất hoặc gọi 115.", kw),
			e.rules.EmergencyActions,
		)
	}

	if kw, ok := firstKeyword(e.rules.HighPriorityKeywords, text); ok {
		return result(domain.PriorityHigh,
			"Cần khám bác sĩ sớm",
			fmt.Sprintf("Triệu chứng \"%s\" cần được đánh giá bởi bác sĩ trong vòng 24-48 giờ.", kw),
			e.rules.HighPriorityActions,
		)
	}

	if req.Age < e.rules.MinAge {
		return result(domain.PriorityConsultDoctor,
			"Cần tư vấn bác sĩ",
			fmt.Sprintf("Trẻ em dưới %d tuổi cần được đánh giá bởi bác sĩ nhi khoa.", e.rules.MinAge),
			[]string{"Liên hệ bác sĩ nhi khoa", "Không tự ý dùng thuốc"},
		)
	}

	if req.DaysSick > e.rules.MaxDaysHome {
		return result(domain.PriorityConsultDoctor,
			"Cần tư vấn bác sĩ",
			fmt.Sprintf("Triệu chứng kéo dài %d ngày, vượt quá thời gian tự điều trị tại nhà (tối đa %d ngày).", req.DaysSick, e.rules.MaxDaysHome),
			[]string{"Liên hệ bác sĩ để được tư vấn", "Không tự ý dùng thuốc kéo dài"},
		)
	}

	out := result(domain.PriorityHomeCare,
		"Có thể chăm sóc tại nhà",
		"Triệu chứng có thể được chăm sóc tại nhà với các biện pháp phù hợp.",
		[]string{"Nghỉ ngơi đầy đủ", "Uống nhiều nước", "Theo dõi triệu chứng"},
	)
	out.Topics = MatchTopics(e.topics, text)
	out.PersonalizedRecommendations = PersonalNotes(req.Profile)
	return out
}

func result(p domain.Priority, message, description string, recs []string) domain.AssessmentResult {
	return domain.AssessmentResult{
		Priority:        p,
		Message:         message,
		Description:     description,
		Color:           p.Color(),
		Recommendations: append([]string{}, recs...),
	}
}

// MatchTopics returns every topic with at least one keyword contained in
// text, in topic order.
func MatchTopics(topics []domain.Topic, text string) []domain.Topic {
	lower := strings.ToLower(text)
	var out []domain.Topic
	for _, topic := range topics {
		if _, ok := firstKeyword(topic.Keywords, lower); ok {
			out = append(out, topic)
		}
	}
	return out
}
