package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/healthfirst/homecare/internal/core/domain"
)

func syncEvent(kind domain.SyncKind, id string, payload any) domain.SyncEvent {
	raw, _ := json.Marshal(payload)
	return domain.SyncEvent{ID: "evt-" + id, Kind: kind, EntityID: id, Payload: raw}
}

func TestApplyUpsertsAndDeletes(t *testing.T) {
	docs := newDocStoreFake()
	uc := NewSyncUseCase(docs)
	ctx := context.Background()

	user := domain.User{ID: "u-1", Email: "a@x.vn"}
	if err := uc.Apply(ctx, syncEvent(domain.SyncKindUser, "u-1", user)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := uc.Apply(ctx, syncEvent(domain.SyncKindUser, "u-1", user)); err != nil {
		t.Fatalf("re-apply: %v", err)
	}
	if len(docs.docs["users"]) != 1 {
		t.Fatalf("expected one user document, got %d", len(docs.docs["users"]))
	}

	deleted := domain.SyncEvent{ID: "evt-del", Kind: domain.SyncKindUserDeleted, EntityID: "u-1"}
	if err := uc.Apply(ctx, deleted); err != nil {
		t.Fatalf("apply delete: %v", err)
	}
	if err := uc.Apply(ctx, deleted); err != nil {
		t.Fatalf("deleting a missing document must succeed: %v", err)
	}
	if len(docs.docs["users"]) != 0 {
		t.Fatalf("user document must be removed")
	}
}

func TestApplyRejectsMalformedEvents(t *testing.T) {
	uc := NewSyncUseCase(newDocStoreFake())
	ctx := context.Background()
	bad := []domain.SyncEvent{
		{Kind: domain.SyncKindUser, Payload: json.RawMessage(`{}`)},
		{Kind: "audit", EntityID: "x", Payload: json.RawMessage(`{}`)},
		{Kind: domain.SyncKindContact, EntityID: "c-1"},
		{Kind: domain.SyncKindContact, EntityID: "c-1", Payload: json.RawMessage(`{broken`)},
	}
	for _, e := range bad {
		if err := uc.Apply(ctx, e); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", e, err)
		}
	}
}

func TestHistoryFiltersAndSortsNewestFirst(t *testing.T) {
	docs := newDocStoreFake()
	uc := NewSyncUseCase(docs)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, a := range []domain.Assessment{
		{ID: "a-1", UserID: "u-1", Priority: domain.PriorityHigh, CreatedAt: base},
		{ID: "a-2", UserID: "u-2", Priority: domain.PriorityHomeCare, CreatedAt: base.Add(time.Hour)},
		{ID: "a-3", UserID: "u-1", Priority: domain.PriorityHigh, CreatedAt: base.Add(2 * time.Hour)},
	} {
		if err := uc.Apply(ctx, syncEvent(domain.SyncKindAssessment, a.ID, a)); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}

	history, err := uc.UserHistory(ctx, "u-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected two entries, got %d", len(history))
	}
	var first domain.Assessment
	if err := json.Unmarshal(history[0], &first); err != nil || first.ID != "a-3" {
		t.Fatalf("expected newest first, got %s (%v)", first.ID, err)
	}

	stats, err := uc.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalAssessments != 3 || stats.AssessmentsByPriority["high"] != 2 || stats.AssessmentsByPriority["home_care"] != 1 {
		t.Fatalf("unexpected statistics %+v", stats)
	}
}

func TestSaveDiagnosisOnlyForSelf(t *testing.T) {
	docs := newDocStoreFake()
	uc := NewSyncUseCase(docs)
	ctx := context.Background()
	in := domain.SaveDiagnosisInput{UserID: "u-1", Symptoms: []string{"fever"}, Diagnosis: domain.Diagnosis{Disease: "Cúm"}}

	if _, err := uc.SaveDiagnosis(ctx, "u-2", in); !domain.IsKind(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := uc.SaveDiagnosis(ctx, "u-1", domain.SaveDiagnosisInput{}); domain.UserMessage(err) != "Thiếu thông tin cần thiết" {
		t.Fatalf("expected missing user id message, got %v", err)
	}

	saved, err := uc.SaveDiagnosis(ctx, "u-1", in)
	if err != nil {
		t.Fatalf("save diagnosis: %v", err)
	}
	history, err := uc.DiagnosisHistory(ctx, "u-1")
	if err != nil || len(history) != 1 {
		t.Fatalf("expected one saved diagnosis, got %d (%v)", len(history), err)
	}
	var got domain.SavedDiagnosis
	if err := json.Unmarshal(history[0], &got); err != nil || got.ID != saved.ID || got.Diagnosis.Disease != "Cúm" {
		t.Fatalf("unexpected stored diagnosis %+v (%v)", got, err)
	}

	docs.putErr = errors.New("bucket down")
	if _, err := uc.SaveDiagnosis(ctx, "u-1", in); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}

func TestDirectPublisherAppliesInProcess(t *testing.T) {
	docs := newDocStoreFake()
	pub := NewDirectPublisher(NewSyncUseCase(docs))
	contacts := NewContactUseCase(&contactRepoFake{}, pub)

	c, err := contacts.SubmitContact(context.Background(), domain.ContactInput{Name: "A", Email: "a@x.vn", Subject: "S", Message: "M"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, ok := docs.docs["contacts"][c.ID]; !ok {
		t.Fatalf("contact must be mirrored synchronously")
	}
}
