package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
)

type ProfileUseCase struct {
	users ports.UserRepository
	sync  syncNotifier
}

func NewProfileUseCase(users ports.UserRepository, publisher ports.SyncPublisher) *ProfileUseCase {
	return &ProfileUseCase{users: users, sync: syncNotifier{publisher: publisher}}
}

func (uc *ProfileUseCase) Profile(ctx context.Context, userID string) (*domain.ProfileView, error) {
	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return profileView(user), nil
}

// UpdateProfile applies the non-nil fields of update and mirrors the user.
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.ProfileView, error) {
	if err := validateProfileUpdate(update); err != nil {
		return nil, err
	}
	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	applyProfileUpdate(user, update)
	user.UpdatedAt = timeNow()
	if err := uc.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	uc.sync.notify(ctx, domain.SyncKindUser, user.ID, user.ID, user)
	return profileView(user), nil
}

func profileView(user *domain.User) *domain.ProfileView {
	p := user.HealthProfile()
	return &domain.ProfileView{
		User:     domain.NewUserView(user),
		Analysis: domain.AnalyzeHealth(p),
		Guidance: domain.GuidanceFor(p),
	}
}

func validateProfileUpdate(u domain.ProfileUpdate) error {
	if u.DisplayName != nil && strings.TrimSpace(*u.DisplayName) == "" {
		return domain.NewUserError(domain.ErrInvalidInput, "Tên hiển thị không được để trống")
	}
	if u.Gender != nil && *u.Gender != "" {
		switch domain.Gender(*u.Gender) {
		case domain.GenderMale, domain.GenderFemale, domain.GenderOther:
		default:
			return domain.NewUserError(domain.ErrInvalidInput, "Giới tính không hợp lệ")
		}
	}
	if u.Age != nil && (*u.Age < 0 || *u.Age > maxAge) {
		return domain.NewUserError(domain.ErrInvalidInput, "Tuổi không hợp lệ")
	}
	if u.HeightCM != nil && *u.HeightCM < 0 {
		return domain.NewUserError(domain.ErrInvalidInput, "Chiều cao không hợp lệ")
	}
	if u.WeightKG != nil && *u.WeightKG < 0 {
		return domain.NewUserError(domain.ErrInvalidInput, "Cân nặng không hợp lệ")
	}
	return nil
}

func applyProfileUpdate(user *domain.User, u domain.ProfileUpdate) {
	if u.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*u.DisplayName)
	}
	if u.Gender != nil {
		user.Gender = domain.Gender(*u.Gender)
	}
	if u.Age != nil {
		age := *u.Age
		user.Age = &age
	}
	if u.HeightCM != nil {
		h := *u.HeightCM
		user.HeightCM = &h
	}
	if u.WeightKG != nil {
		w := *u.WeightKG
		user.WeightKG = &w
	}
	setString(&user.MedicalHistory, u.MedicalHistory)
	setString(&user.Phone, u.Phone)
	setString(&user.Address, u.Address)
	setString(&user.EmergencyContact, u.EmergencyContact)
	setString(&user.BloodType, u.BloodType)
	setString(&user.Allergies, u.Allergies)
	setString(&user.Medications, u.Medications)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
