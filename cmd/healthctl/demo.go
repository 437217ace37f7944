package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/healthfirst/homecare/internal/bootstrap"
	"github.com/healthfirst/homecare/internal/core/domain"
)

// demoScenario mirrors a home user's first session: sign in, fill in the
// health profile, assess symptoms, browse topics.
type demoScenario struct {
	Email    string
	Password string
	Profile  domain.ProfileUpdate
	Request  domain.AssessmentRequest
}

func defaultDemoScenario() demoScenario {
	gender, history := "male", "Không có bệnh mãn tính, đôi khi bị đau đầu"
	age, height, weight := 30, 175.0, 70.0
	return demoScenario{
		Email:    "demo@healthfirst.com",
		Password: "demo123",
		Profile: domain.ProfileUpdate{
			Gender:         &gender,
			Age:            &age,
			HeightCM:       &height,
			WeightKG:       &weight,
			MedicalHistory: &history,
		},
		Request: domain.AssessmentRequest{
			Symptoms: "Đau đầu, mệt mỏi, sốt nhẹ 37.5°C",
			Age:      30,
			DaysSick: 2,
		},
	}
}

func newDemoCmd(opts *rootOptions) *cobra.Command {
	scenario := defaultDemoScenario()
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the sign-in, profile and assessment flow against the local stack",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.setup(cmd)
			app, err := bootstrap.New(cmd.Context(), cfg, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			return runDemo(cmd, app, scenario)
		},
	}
	cmd.Flags().StringVar(&scenario.Email, "email", scenario.Email, "demo account email")
	cmd.Flags().StringVar(&scenario.Password, "password", scenario.Password, "demo account password")
	cmd.Flags().StringVar(&scenario.Request.Symptoms, "symptoms", scenario.Request.Symptoms, "symptom description")
	return cmd
}

func runDemo(cmd *cobra.Command, app *bootstrap.App, s demoScenario) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "HealthFirst - Demo Đánh Giá Sức Khỏe")

	fmt.Fprintln(out, "\n1. Đăng nhập...")
	_, err := app.AuthUC.Register(ctx, domain.RegisterInput{Email: s.Email, Password: s.Password, ConfirmPassword: s.Password})
	if err != nil && !domain.IsKind(err, domain.ErrConflict) {
		return fmt.Errorf("register demo user: %s", domain.UserMessage(err))
	}
	session, user, err := app.AuthUC.Login(ctx, domain.LoginInput{Email: s.Email, Password: s.Password})
	if err != nil {
		return fmt.Errorf("đăng nhập thất bại: %s", domain.UserMessage(err))
	}
	fmt.Fprintf(out, "   Đăng nhập thành công: %s\n", user.Email)

	fmt.Fprintln(out, "\n2. Cập nhật thông tin sức khỏe...")
	view, err := app.ProfileUC.UpdateProfile(ctx, user.ID, s.Profile)
	if err != nil {
		return fmt.Errorf("cập nhật thông tin: %s", domain.UserMessage(err))
	}
	printProfile(out, view)

	fmt.Fprintln(out, "\n3. Đánh giá triệu chứng...")
	stored, err := app.AuthUC.Authenticate(ctx, session.Token)
	if err != nil {
		return fmt.Errorf("xác thực: %s", domain.UserMessage(err))
	}
	result, err := app.AssessUC.Assess(ctx, stored, s.Request)
	if err != nil {
		return fmt.Errorf("đánh giá triệu chứng: %s", domain.UserMessage(err))
	}
	fmt.Fprintf(out, "   Mức độ: %s\n   Khuyến nghị: %s\n", result.Priority, result.Message)
	for _, rec := range result.Recommendations {
		fmt.Fprintf(out, "     - %s\n", rec)
	}
	for _, note := range result.PersonalizedRecommendations {
		fmt.Fprintf(out, "     * %s\n", note)
	}

	fmt.Fprintln(out, "\n4. Lấy chủ đề y tế...")
	topics := app.CatalogUC.Topics(ctx)
	fmt.Fprintf(out, "   Tìm thấy %d chủ đề y tế\n", len(topics))
	for i, t := range topics {
		if i == 3 {
			break
		}
		fmt.Fprintf(out, "   %d. %s\n", i+1, t.Title)
	}

	fmt.Fprintln(out, "\nDemo hoàn tất!")
	return nil
}

func printProfile(out io.Writer, view *domain.ProfileView) {
	u := view.User
	if u.Age != nil {
		fmt.Fprintf(out, "   - Tuổi: %d\n", *u.Age)
	}
	if u.HeightCM != nil {
		fmt.Fprintf(out, "   - Chiều cao: %.1f cm\n", *u.HeightCM)
	}
	if u.WeightKG != nil {
		fmt.Fprintf(out, "   - Cân nặng: %.1f kg\n", *u.WeightKG)
	}
	if u.BMI != nil {
		fmt.Fprintf(out, "   - BMI: %.1f (%s)\n", *u.BMI, u.BMICategory)
	}
}
