package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
)

type ContactUseCase struct {
	contacts ports.ContactRepository
	sync     syncNotifier
}

func NewContactUseCase(contacts ports.ContactRepository, publisher ports.SyncPublisher) *ContactUseCase {
	return &ContactUseCase{contacts: contacts, sync: syncNotifier{publisher: publisher}}
}

func (uc *ContactUseCase) SubmitContact(ctx context.Context, in domain.ContactInput) (*domain.Contact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	contact := &domain.Contact{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		Status:    domain.ContactStatusNew,
		CreatedAt: timeNow(),
	}
	if err := uc.contacts.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	uc.sync.notify(ctx, domain.SyncKindContact, contact.ID, "", contact)
	return contact, nil
}
