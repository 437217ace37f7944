package diagnosis

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var symptomVN = map[string]string{
	"abdominal_pain":      "Đau bụng",
	"back_pain":           "Đau lưng",
	"chest_pain":          "Đau ngực",
	"cough":               "Ho",
	"depression":          "Trầm cảm",
	"dizziness":           "Chóng mặt",
	"fatigue":             "Mệt mỏi",
	"fever":               "Sốt",
	"headache":            "Đau đầu",
	"nausea":              "Buồn nôn",
	"vomiting":            "Nôn",
	"diarrhoea":           "Tiêu chảy",
	"diarrhea":            "Tiêu chảy",
	"burning_micturition": "Tiểu buốt",
	"itching":             "Ngứa",
	"skin_rash":           "Phát ban",
	"joint_pain":          "Đau khớp",
	"muscle_pain":         "Đau cơ",
	"swelling":            "Sưng",
	"shortness_of_breath": "Khó thở",
	"anxiety":             "Lo lắng",
	"constipation":        "Táo bón",
	"blister":             "Phồng rộp",
	"bruising":            "Bầm tím",
	"chills":              "Ớn lạnh",
	"congestion":          "Nghẹt mũi",
	"runny_nose":          "Sổ mũi",
	"sweating":            "Đổ mồ hôi",
	"weight_loss":         "Giảm cân",
	"weight_gain":         "Tăng cân",
}

var diseaseVN = map[string]string{
	"(vertigo) Paroymsal  Positional Vertigo": "Chóng mặt tư thế kịch phát",
	"AIDS":                         "AIDS",
	"Acne":                         "Mụn trứng cá",
	"Alcoholic hepatitis":          "Viêm gan do rượu",
	"Allergy":                      "Dị ứng",
	"Arthritis":                    "Viêm khớp",
	"Bronchial Asthma":             "Hen phế quản",
	"Cervical spondylosis":         "Thoái hóa đốt sống cổ",
	"Chicken pox":                  "Thủy đậu",
	"Chronic cholestasis":          "Ứ mật mạn tính",
	"Common Cold":                  "Cảm lạnh thông thường",
	"Dengue":                       "Sốt xuất huyết",
	"Diabetes":                     "Tiểu đường",
	"Dimorphic hemmorhoids(piles)": "Trĩ hỗn hợp",
	"Drug Reaction":                "Phản ứng thuốc",
	"Fungal infection":             "Nhiễm nấm",
	"GERD":                         "Trào ngược dạ dày thực quản",
	"Gastroenteritis":              "Viêm dạ dày ruột",
	"Heart attack":                 "Đau tim",
	"Hepatitis B":                  "Viêm gan B",
	"Hepatitis C":                  "Viêm gan C",
	"Hepatitis D":                  "Viêm gan D",
	"Hepatitis E":                  "Viêm gan E",
	"Hypertension":                 "Tăng huyết áp",
	"Hyperthyroidism":              "Cường giáp",
	"Hypoglycemia":                 "Hạ đường huyết",
	"Hypothyroidism":               "Suy giáp",
	"Impetigo":                     "Chốc lở",
	"Influenza":                    "Cúm",
	"Jaundice":                     "Vàng da",
	"Malaria":                      "Sốt rét",
	"Migraine":                     "Đau nửa đầu",
	"Osteoarthristis":              "Viêm xương khớp",
	"Paralysis (brain hemorrhage)": "Liệt (xuất huyết não)",
	"Peptic ulcer diseae":          "Loét dạ dày tá tràng",
	"Pneumonia":                    "Viêm phổi",
	"Psoriasis":                    "Vẩy nến",
	"Tuberculosis":                 "Lao",
	"Typhoid":                      "Thương hàn",
	"Urinary tract infection":      "Nhiễm trùng đường tiết niệu",
	"Varicose veins":               "Giãn tĩnh mạch",
	"hepatitis A":                  "Viêm gan A",
}

var titleCaser = cases.Title(language.Und)

// SymptomNameVN returns the Vietnamese display name of a symptom key, or a
// title-cased form of the key when no translation exists.
func SymptomNameVN(key string) string {
	if vn, ok := symptomVN[key]; ok {
		return vn
	}
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// DiseaseNameVN returns the Vietnamese display name of a disease label.
func DiseaseNameVN(label string) string {
	if vn, ok := diseaseVN[label]; ok {
		return vn
	}
	if vn, ok := diseaseVN[strings.TrimSpace(label)]; ok {
		return vn
	}
	return label
}

// diseaseFamily carries the typical symptoms and home care shown for a
// group of related diseases.
type diseaseFamily struct {
	match    []string
	symptoms []string
	care     []string
}

var diseaseFamilies = []diseaseFamily{
	{
		match:    []string{"hepatitis"},
		symptoms: []string{"Vàng da", "Mệt mỏi", "Đau bụng", "Chán ăn", "Buồn nôn"},
		care:     []string{"Tiêm vaccine", "Tránh rượu bia", "Khám gan định kỳ", "Chế độ ăn lành mạnh"},
	},
	{
		match:    []string{"diabetes"},
		symptoms: []string{"Khát nước nhiều", "Tiểu nhiều", "Mệt mỏi", "Sụt cân", "Mờ mắt"},
		care:     []string{"Theo dõi đường huyết", "Chế độ ăn kiêng", "Tập thể dục", "Dùng thuốc đúng giờ"},
	},
	{
		match:    []string{"hypertension"},
		symptoms: []string{"Đau đầu", "Chóng mặt", "Mệt mỏi", "Khó thở", "Đau ngực"},
		care:     []string{"Giảm muối", "Tập thể dục", "Giảm cân", "Dùng thuốc đều đặn"},
	},
	{
		match:    []string{"asthma"},
		symptoms: []string{"Khó thở", "Thở khò khè", "Ho", "Tức ngực", "Thở nhanh"},
		care:     []string{"Dùng thuốc hít", "Tránh chất kích thích", "Tập thở", "Khám định kỳ"},
	},
	{
		match:    []string{"arthritis"},
		symptoms: []string{"Đau khớp", "Sưng khớp", "Cứng khớp", "Giảm vận động", "Mệt mỏi"},
		care:     []string{"Tập thể dục nhẹ", "Giữ ấm khớp", "Dùng thuốc giảm đau", "Vật lý trị liệu"},
	},
	{
		match:    []string{"cold", "flu"},
		symptoms: []string{"Ho", "Sổ mũi", "Đau họng", "Hắt hơi", "Sốt", "Mệt mỏi"},
		care:     []string{"Nghỉ ngơi đầy đủ", "Uống nhiều nước", "Dùng thuốc không kê đơn", "Tránh tiếp xúc"},
	},
	{
		match:    []string{"gastroenteritis"},
		symptoms: []string{"Tiêu chảy", "Nôn mửa", "Đau bụng", "Buồn nôn", "Sốt nhẹ"},
		care:     []string{"Uống nhiều nước", "Nghỉ ngơi", "Ăn thức ăn nhẹ", "Vệ sinh sạch sẽ"},
	},
	{
		match:    []string{"migraine"},
		symptoms: []string{"Đau đầu một bên", "Buồn nôn", "Nhạy cảm ánh sáng", "Chóng mặt"},
		care:     []string{"Nghỉ ngơi trong phòng tối", "Dùng thuốc giảm đau", "Tránh stress", "Thư giãn"},
	},
}

var defaultFamily = diseaseFamily{
	symptoms: []string{"Triệu chứng sẽ được cập nhật"},
	care:     []string{"Tham khảo ý kiến bác sĩ", "Nghỉ ngơi", "Uống nhiều nước"},
}

func familyOf(label string) diseaseFamily {
	lower := strings.ToLower(label)
	for _, fam := range diseaseFamilies {
		for _, m := range fam.match {
			if strings.Contains(lower, m) {
				return fam
			}
		}
	}
	return defaultFamily
}
