package diagnosis

import (
	"sort"
	"strings"
)

// Symptom weights in the severity table range over [MinSymptomWeight, MaxSymptomWeight].
const (
	MinSymptomWeight = 1
	MaxSymptomWeight = 10
)

// SymptomWeight is one row of the symptom severity table.
type SymptomWeight struct {
	Key    string `json:"key"`
	Weight int    `json:"weight"`
}

// SymptomCatalog maps canonical symptom keys to severity weights. Iteration
// follows load order and the catalog is never modified after construction.
type SymptomCatalog struct {
	entries []SymptomWeight
	index   map[string]int
}

// NewSymptomCatalog builds a catalog in row order. A repeated key keeps its
// first position and takes the later weight.
func NewSymptomCatalog(rows []SymptomWeight) *SymptomCatalog {
	c := &SymptomCatalog{
		entries: make([]SymptomWeight, 0, len(rows)),
		index:   make(map[string]int, len(rows)),
	}
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		if i, ok := c.index[key]; ok {
			c.entries[i].Weight = row.Weight
			continue
		}
		c.index[key] = len(c.entries)
		c.entries = append(c.entries, SymptomWeight{Key: key, Weight: row.Weight})
	}
	return c
}

func (c *SymptomCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

func (c *SymptomCatalog) Entries() []SymptomWeight {
	if c == nil {
		return nil
	}
	out := make([]SymptomWeight, len(c.entries))
	copy(out, c.entries)
	return out
}

// Keys returns the symptom keys in catalog order.
func (c *SymptomCatalog) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Key
	}
	return out
}

func (c *SymptomCatalog) Weight(key string) (int, bool) {
	if c == nil {
		return 0, false
	}
	i, ok := c.index[key]
	if !ok {
		return 0, false
	}
	return c.entries[i].Weight, true
}

// Match returns the first entry, in catalog order, whose key contains the
// normalized phrase or is contained by it. The first hit wins even when a
// later key would be a longer match.
func (c *SymptomCatalog) Match(phrase string) (SymptomWeight, bool) {
	if c == nil {
		return SymptomWeight{}, false
	}
	normalized := Normalize(phrase)
	for _, e := range c.entries {
		if matches(normalized, e.Key) {
			return e, true
		}
	}
	return SymptomWeight{}, false
}

// Normalize lowercases a phrase and replaces spaces with underscores.
func Normalize(phrase string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(phrase)), " ", "_")
}

func matches(normalized, key string) bool {
	if normalized == "" {
		return false
	}
	return strings.Contains(key, normalized) || strings.Contains(normalized, key)
}

// matchIndex applies the catalog matching rule against an ordered key list.
func matchIndex(keys []string, phrase string) int {
	normalized := Normalize(phrase)
	for i, key := range keys {
		if matches(normalized, key) {
			return i
		}
	}
	return -1
}

// Disease is one row of the disease reference table.
type Disease struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Precautions []string `json:"precautions"`
}

// DiseaseCatalog maps disease labels to description and precautions.
type DiseaseCatalog struct {
	entries []Disease
	index   map[string]int
}

func NewDiseaseCatalog(rows []Disease) *DiseaseCatalog {
	c := &DiseaseCatalog{
		entries: make([]Disease, 0, len(rows)),
		index:   make(map[string]int, len(rows)),
	}
	for _, row := range rows {
		label := strings.TrimSpace(row.Label)
		if label == "" {
			continue
		}
		d := Disease{
			Label:       label,
			Description: row.Description,
			Precautions: append([]string(nil), row.Precautions...),
		}
		if i, ok := c.index[label]; ok {
			c.entries[i] = mergeDisease(c.entries[i], d)
			continue
		}
		c.index[label] = len(c.entries)
		c.entries = append(c.entries, d)
	}
	return c
}

func mergeDisease(old, update Disease) Disease {
	if update.Description != "" {
		old.Description = update.Description
	}
	if len(update.Precautions) > 0 {
		old.Precautions = update.Precautions
	}
	return old
}

func (c *DiseaseCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

func (c *DiseaseCatalog) Entries() []Disease {
	if c == nil {
		return nil
	}
	out := make([]Disease, len(c.entries))
	for i, d := range c.entries {
		d.Precautions = append([]string(nil), d.Precautions...)
		out[i] = d
	}
	return out
}

// Get looks a label up by exact match, then with surrounding spaces trimmed.
func (c *DiseaseCatalog) Get(label string) (Disease, bool) {
	if c == nil {
		return Disease{}, false
	}
	i, ok := c.index[label]
	if !ok {
		i, ok = c.index[strings.TrimSpace(label)]
	}
	if !ok {
		return Disease{}, false
	}
	d := c.entries[i]
	d.Precautions = append([]string(nil), d.Precautions...)
	return d, true
}

func (c *DiseaseCatalog) Labels() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.entries))
	for i, d := range c.entries {
		out[i] = d.Label
	}
	return out
}

// FallbackSymptoms is the built-in catalog used when no severity table loads.
func FallbackSymptoms() *SymptomCatalog {
	return NewSymptomCatalog([]SymptomWeight{
		{Key: "fever", Weight: 5},
		{Key: "headache", Weight: 3},
		{Key: "cough", Weight: 4},
		{Key: "fatigue", Weight: 4},
		{Key: "nausea", Weight: 5},
		{Key: "vomiting", Weight: 5},
		{Key: "diarrhea", Weight: 6},
		{Key: "abdominal_pain", Weight: 4},
		{Key: "chest_pain", Weight: 7},
		{Key: "shortness_of_breath", Weight: 6},
		{Key: "dizziness", Weight: 4},
		{Key: "joint_pain", Weight: 3},
		{Key: "muscle_pain", Weight: 2},
		{Key: "skin_rash", Weight: 3},
		{Key: "itching", Weight: 1},
		{Key: "swelling", Weight: 5},
	})
}

// FallbackDiseases is the built-in disease table.
func FallbackDiseases() *DiseaseCatalog {
	return NewDiseaseCatalog([]Disease{
		{
			Label:       "Common Cold",
			Description: "Nhiễm virus đường hô hấp trên gây ra các triệu chứng nhẹ.",
			Precautions: []string{"Nghỉ ngơi", "Uống nhiều nước", "Dùng thuốc không kê đơn", "Tránh tiếp xúc với người khác"},
		},
		{
			Label:       "Influenza",
			Description: "Nhiễm virus tấn công hệ hô hấp của bạn.",
			Precautions: []string{"Nghỉ ngơi", "Uống nhiều nước", "Dùng thuốc hạ sốt", "Tìm kiếm sự chăm sóc y tế nếu nghiêm trọng"},
		},
		{
			Label:       "Gastroenteritis",
			Description: "Viêm dạ dày và ruột gây tiêu chảy và nôn.",
			Precautions: []string{"Uống nhiều nước", "Nghỉ ngơi", "Tránh thức ăn rắn ban đầu", "Tìm kiếm sự chăm sóc y tế nếu nghiêm trọng"},
		},
		{
			Label:       "Hypertension",
			Description: "Huyết áp cao có thể dẫn đến các vấn đề sức khỏe nghiêm trọng.",
			Precautions: []string{"Giảm lượng muối", "Tập thể dục thường xuyên", "Duy trì cân nặng khỏe mạnh", "Theo dõi huyết áp"},
		},
		{
			Label:       "Diabetes",
			Description: "Bệnh ảnh hưởng đến cách cơ thể sử dụng glucose.",
			Precautions: []string{"Theo dõi đường huyết", "Tuân theo chế độ ăn", "Tập thể dục thường xuyên", "Dùng thuốc theo chỉ định"},
		},
		{
			Label:       "Migraine",
			Description: "Đau đầu dữ dội có thể gây đau dữ dội và các triệu chứng khác.",
			Precautions: []string{"Nghỉ ngơi trong phòng tối", "Tránh các yếu tố kích thích", "Dùng thuốc giảm đau", "Xem xét điều trị dự phòng"},
		},
	})
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
