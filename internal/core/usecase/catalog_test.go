package usecase

import (
	"context"
	"testing"

	"github.com/healthfirst/homecare/internal/core/domain"
)

func TestCatalogWithPredictor(t *testing.T) {
	uc := NewCatalogUseCase(testEngine(), fallbackPredictor())
	ctx := context.Background()

	if topics := uc.Topics(ctx); len(topics) != 1 {
		t.Fatalf("expected one topic, got %d", len(topics))
	}
	symptoms, err := uc.Symptoms(ctx)
	if err != nil || len(symptoms) != 16 {
		t.Fatalf("expected 16 fallback symptoms, got %d (%v)", len(symptoms), err)
	}
	diseases, err := uc.Diseases(ctx)
	if err != nil || len(diseases) != 6 || diseases[0].ID != 1 {
		t.Fatalf("expected 6 numbered diseases, got %d (%v)", len(diseases), err)
	}
	info, err := uc.SymptomInfo(ctx, "chest_pain")
	if err != nil || info.Severity != 7 {
		t.Fatalf("unexpected symptom info %+v (%v)", info, err)
	}
}

func TestCatalogWithoutPredictor(t *testing.T) {
	uc := NewCatalogUseCase(nil, nil)
	ctx := context.Background()
	if topics := uc.Topics(ctx); topics == nil || len(topics) != 0 {
		t.Fatalf("expected empty topics")
	}
	if _, err := uc.Symptoms(ctx); !domain.IsKind(err, domain.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if _, err := uc.SymptomInfo(ctx, " "); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
