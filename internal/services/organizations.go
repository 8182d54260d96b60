package services

import (
	"context"
	"fmt"
	"time"

	"github.com/eventsync/eventsync/internal/common"
	"github.com/eventsync/eventsync/internal/cryptox"
	"github.com/eventsync/eventsync/internal/logging"
	"github.com/eventsync/eventsync/internal/models"
	"github.com/eventsync/eventsync/internal/repositories/organizations"
)

// OrganizationService manages organizations and their dump keys.
type OrganizationService struct {
	repo   organizations.Repository
	logger logging.Logger
}

func NewOrganizationService(repo organizations.Repository, logger logging.Logger) *OrganizationService {
	return &OrganizationService{repo: repo, logger: logger.With("module", "org_service")}
}

// CreateOrganization registers an organization with a fresh random dump
// key. The key is what a field kit must be provisioned with to exchange
// dumps; it is printed once at creation and never again.
func (s *OrganizationService) CreateOrganization(ctx context.Context, org *models.Organization) error {
	if org.Name == "" || org.Inn == "" {
		return fmt.Errorf("organization name and inn are required")
	}
	if len(org.EncryptionKey) == 0 {
		org.EncryptionKey = common.GenerateRandByteArray(cryptox.KeySize)
	}
	org.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, org); err != nil {
		return fmt.Errorf("creating organization: %w", err)
	}
	s.logger.Info(ctx, "organization created", "org_id", org.ID, "inn", org.Inn)
	return nil
}

// DeriveKeyFromPassphrase provisions a field kit's copy of the dump key
// from a shared passphrase instead of raw key bytes. The salt is the
// organization's inn, which both sides already know.
func DeriveKeyFromPassphrase(passphrase, inn string) []byte {
	return cryptox.DeriveOrgKey([]byte(passphrase), []byte(inn))
}

func (s *OrganizationService) GetByID(ctx context.Context, id int64) (*models.Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OrganizationService) GetByInn(ctx context.Context, inn string) (*models.Organization, error) {
	return s.repo.GetByInn(ctx, inn)
}

func (s *OrganizationService) List(ctx context.Context) ([]models.Organization, error) {
	return s.repo.List(ctx)
}
