package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
)

// SyncUseCase mirrors relational writes into the document store and reads
// the mirrored collections back.
type SyncUseCase struct {
	docs ports.DocumentStore
}

func NewSyncUseCase(docs ports.DocumentStore) *SyncUseCase {
	return &SyncUseCase{docs: docs}
}

// Apply upserts the event payload, or removes the document for deletions.
// Applying the same event twice leaves the same state.
func (uc *SyncUseCase) Apply(ctx context.Context, event domain.SyncEvent) error {
	if strings.TrimSpace(event.EntityID) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "apply sync event", errors.New("missing entity id"))
	}
	collection := event.Kind.Collection()
	switch event.Kind {
	case domain.SyncKindUserDeleted:
		if err := uc.docs.Delete(ctx, collection, event.EntityID); err != nil && !domain.IsKind(err, domain.ErrNotFound) {
			return fmt.Errorf("delete %s/%s: %w", collection, event.EntityID, err)
		}
		return nil
	case domain.SyncKindUser, domain.SyncKindAssessment, domain.SyncKindContact, domain.SyncKindDiagnosis:
	default:
		return domain.WrapError(domain.ErrInvalidInput, "apply sync event", fmt.Errorf("unknown kind %q", event.Kind))
	}
	if len(event.Payload) == 0 || !json.Valid(event.Payload) {
		return domain.WrapError(domain.ErrInvalidInput, "apply sync event", errors.New("payload is not a JSON document"))
	}
	if err := uc.docs.Put(ctx, collection, event.EntityID, event.Payload); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, event.EntityID, err)
	}
	return nil
}

func (uc *SyncUseCase) Collection(ctx context.Context, kind domain.SyncKind) ([]json.RawMessage, error) {
	docs, err := uc.docs.List(ctx, kind.Collection())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Collection(), err)
	}
	return docs, nil
}

func (uc *SyncUseCase) UserHistory(ctx context.Context, userID string) ([]json.RawMessage, error) {
	return uc.history(ctx, domain.SyncKindAssessment, userID)
}

func (uc *SyncUseCase) DiagnosisHistory(ctx context.Context, userID string) ([]json.RawMessage, error) {
	return uc.history(ctx, domain.SyncKindDiagnosis, userID)
}

// docHeader is the subset of mirrored fields the reads filter and sort on.
type docHeader struct {
	UserID    string    `json:"user_id"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

type headedDoc struct {
	header docHeader
	raw    json.RawMessage
}

// history returns the user's documents of one collection, newest first.
func (uc *SyncUseCase) history(ctx context.Context, kind domain.SyncKind, userID string) ([]json.RawMessage, error) {
	docs, err := uc.docs.List(ctx, kind.Collection())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Collection(), err)
	}
	matched := make([]headedDoc, 0, len(docs))
	for _, raw := range docs {
		var h docHeader
		if err := json.Unmarshal(raw, &h); err != nil {
			slog.Warn("sync_document_skipped", "collection", kind.Collection(), "error", err)
			continue
		}
		if h.UserID == userID {
			matched = append(matched, headedDoc{header: h, raw: raw})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].header.CreatedAt.After(matched[j].header.CreatedAt)
	})
	out := make([]json.RawMessage, len(matched))
	for i, d := range matched {
		out[i] = d.raw
	}
	return out, nil
}

func (uc *SyncUseCase) Statistics(ctx context.Context) (*domain.SyncStatistics, error) {
	stats := &domain.SyncStatistics{AssessmentsByPriority: map[string]int{}}
	counts := []struct {
		kind domain.SyncKind
		dst  *int
	}{
		{domain.SyncKindUser, &stats.TotalUsers},
		{domain.SyncKindContact, &stats.TotalContacts},
		{domain.SyncKindDiagnosis, &stats.TotalDiagnoses},
	}
	for _, c := range counts {
		docs, err := uc.docs.List(ctx, c.kind.Collection())
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", c.kind.Collection(), err)
		}
		*c.dst = len(docs)
	}

	assessments, err := uc.docs.List(ctx, domain.SyncKindAssessment.Collection())
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	stats.TotalAssessments = len(assessments)
	for _, raw := range assessments {
		var h docHeader
		if err := json.Unmarshal(raw, &h); err != nil || h.Priority == "" {
			continue
		}
		stats.AssessmentsByPriority[h.Priority]++
	}
	return stats, nil
}

// SaveDiagnosis stores a predictor result in the caller's own history.
func (uc *SyncUseCase) SaveDiagnosis(ctx context.Context, callerID string, in domain.SaveDiagnosisInput) (*domain.SavedDiagnosis, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, domain.NewUserError(domain.ErrInvalidInput, "Thiếu thông tin cần thiết")
	}
	if in.UserID != callerID {
		return nil, domain.NewUserError(domain.ErrForbidden, "Unauthorized")
	}
	saved := &domain.SavedDiagnosis{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Symptoms:  in.Symptoms,
		Diagnosis: in.Diagnosis,
		CreatedAt: timeNow(),
	}
	if saved.Symptoms == nil {
		saved.Symptoms = []string{}
	}
	raw, err := json.Marshal(saved)
	if err != nil {
		return nil, fmt.Errorf("encode diagnosis: %w", err)
	}
	if err := uc.docs.Put(ctx, domain.SyncKindDiagnosis.Collection(), saved.ID, raw); err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "save diagnosis", err)
	}
	return saved, nil
}

// DirectPublisher applies sync events in-process when no broker is
// configured.
type DirectPublisher struct {
	applier ports.SyncApplier
}

func NewDirectPublisher(applier ports.SyncApplier) *DirectPublisher {
	return &DirectPublisher{applier: applier}
}

func (p *DirectPublisher) PublishSync(ctx context.Context, event domain.SyncEvent) error {
	return p.applier.Apply(ctx, event)
}
