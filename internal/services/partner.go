package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/internal/repositories"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/utils"
)

type PartnerServiceInterface interface {
	List(ctx context.Context) ([]dto.PartnerResponseDTO, error)
	Create(ctx context.Context, payload dto.CreatePartnerDTO) (*dto.PartnerResponseDTO, error)
	SetApproved(ctx context.Context, id uint64, approved bool) (*dto.PartnerResponseDTO, error)
}

type PartnerService struct {
	partnerRepo repositories.PartnerRepositoryInterface
	logger      *zap.Logger
}

func NewPartnerService(partnerRepo repositories.PartnerRepositoryInterface, logger *zap.Logger) *PartnerService {
	return &PartnerService{partnerRepo: partnerRepo, logger: logger}
}

func (s *PartnerService) List(ctx context.Context) ([]dto.PartnerResponseDTO, error) {
	partners, err := s.partnerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]dto.PartnerResponseDTO, 0, len(partners))
	for i := range partners {
		res = append(res, dto.NewPartnerResponse(&partners[i]))
	}
	return res, nil
}

// Create - заведение партнёра администратором. Логин без пароля (и наоборот) не принимается.
func (s *PartnerService) Create(ctx context.Context, payload dto.CreatePartnerDTO) (*dto.PartnerResponseDTO, error) {
	username := strings.TrimSpace(utils.DerefString(payload.Username))
	password := utils.DerefString(payload.Password)
	if (username == "") != (password == "") {
		return nil, apperrors.NewInvalidInputError("Логин и пароль указываются вместе")
	}

	partner := &entities.Partner{
		Name:     strings.TrimSpace(payload.Name),
		Approved: payload.Approved,
	}
	if username != "" {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		partner.Username = &username
		partner.PasswordHash = &hash
	}
	if email := strings.TrimSpace(utils.DerefString(payload.Email)); email != "" {
		partner.Email = &email
	}

	if _, err := s.partnerRepo.Create(ctx, partner); err != nil {
		return nil, err
	}
	s.logger.Info("Партнёр создан администратором", zap.Uint64("partnerID", partner.ID), zap.String("name", partner.Name))

	res := dto.NewPartnerResponse(partner)
	return &res, nil
}

func (s *PartnerService) SetApproved(ctx context.Context, id uint64, approved bool) (*dto.PartnerResponseDTO, error) {
	if err := s.partnerRepo.SetApproved(ctx, id, approved); err != nil {
		return nil, err
	}
	partner, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Изменено одобрение партнёра", zap.Uint64("partnerID", id), zap.Bool("approved", approved))
	res := dto.NewPartnerResponse(partner)
	return &res, nil
}
