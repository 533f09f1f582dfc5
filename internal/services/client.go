package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/internal/repositories"
	"os-tracker/pkg/service"
	"os-tracker/pkg/utils"
)

type ClientServiceInterface interface {
	List(ctx context.Context) ([]dto.ClientResponseDTO, error)
	Create(ctx context.Context, payload dto.CreateClientDTO) (*dto.ClientResponseDTO, error)
	Rename(ctx context.Context, id uint64, payload dto.RenameClientDTO) (*dto.ClientResponseDTO, error)
}

type ClientService struct {
	txManager   repositories.TxManagerInterface
	clientRepo  repositories.ClientRepositoryInterface
	partnerRepo repositories.PartnerRepositoryInterface
	logger      *zap.Logger
}

func NewClientService(
	txManager repositories.TxManagerInterface,
	clientRepo repositories.ClientRepositoryInterface,
	partnerRepo repositories.PartnerRepositoryInterface,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{txManager: txManager, clientRepo: clientRepo, partnerRepo: partnerRepo, logger: logger}
}

func (s *ClientService) List(ctx context.Context) ([]dto.ClientResponseDTO, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]dto.ClientResponseDTO, 0, len(clients))
	for i := range clients {
		res = append(res, dto.NewClientResponse(&clients[i]))
	}
	return res, nil
}

// Create работает как find-or-create: существующий клиент возвращается как есть.
// Партнёр, создающий клиента, становится его источником.
func (s *ClientService) Create(ctx context.Context, payload dto.CreateClientDTO) (*dto.ClientResponseDTO, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	var client *entities.Client
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var originating *uint64
		if p, ok := service.AsPartner(session); ok {
			id := p.PartnerID
			originating = &id
		} else if name := strings.TrimSpace(utils.DerefString(payload.OriginatingPartnerName)); name != "" {
			partner, err := s.partnerRepo.FindOrCreateByNameInTx(ctx, tx, name)
			if err != nil {
				return err
			}
			originating = &partner.ID
		}

		var err error
		client, err = s.clientRepo.FindOrCreateInTx(ctx, tx, payload.Name, originating)
		return err
	})
	if err != nil {
		return nil, err
	}

	res := dto.NewClientResponse(client)
	return &res, nil
}

func (s *ClientService) Rename(ctx context.Context, id uint64, payload dto.RenameClientDTO) (*dto.ClientResponseDTO, error) {
	if err := s.clientRepo.Rename(ctx, id, strings.TrimSpace(payload.Name)); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Клиент переименован", zap.Uint64("clientID", id), zap.String("name", client.Name))
	res := dto.NewClientResponse(client)
	return &res, nil
}
