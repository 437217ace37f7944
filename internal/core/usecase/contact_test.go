package usecase

import (
	"context"
	"testing"

	"github.com/healthfirst/homecare/internal/core/domain"
)

func TestSubmitContact(t *testing.T) {
	repo := &contactRepoFake{}
	pub := &publisherFake{}
	uc := NewContactUseCase(repo, pub)

	c, err := uc.SubmitContact(context.Background(), domain.ContactInput{
		Name: " Minh ", Email: "minh@example.com", Subject: "Hỏi", Message: "Xin chào",
	})
	if err != nil {
		t.Fatalf("submit contact: %v", err)
	}
	if c.Status != domain.ContactStatusNew || c.Name != "Minh" || c.ID == "" {
		t.Fatalf("unexpected contact %+v", c)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected stored contact")
	}
	if got := pub.kinds(); len(got) != 1 || got[0] != domain.SyncKindContact {
		t.Fatalf("expected contacts event, got %v", got)
	}
}

func TestSubmitContactRequiresAllFields(t *testing.T) {
	uc := NewContactUseCase(&contactRepoFake{}, nil)
	_, err := uc.SubmitContact(context.Background(), domain.ContactInput{Name: "Minh", Email: "minh@example.com"})
	if !domain.IsKind(err, domain.ErrInvalidInput) || domain.UserMessage(err) != "Thiếu thông tin bắt buộc" {
		t.Fatalf("expected missing fields error, got %v", err)
	}
}
