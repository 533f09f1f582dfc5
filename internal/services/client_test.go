package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/internal/repositories/mocks"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/utils"
)

func newClientService() (*ClientService, *mocks.ClientRepository, *mocks.PartnerRepository) {
	clientRepo := new(mocks.ClientRepository)
	partnerRepo := new(mocks.PartnerRepository)
	return NewClientService(&mocks.TxManager{}, clientRepo, partnerRepo, zap.NewNop()), clientRepo, partnerRepo
}

func TestClientService_Create(t *testing.T) {
	t.Run("partner becomes originating partner", func(t *testing.T) {
		svc, clientRepo, partnerRepo := newClientService()
		partnerID := uint64(4)
		clientRepo.On("FindOrCreateInTx", mock.Anything, mock.Anything, "Padaria", &partnerID).
			Return(&entities.Client{ID: 1, Name: "Padaria", OriginatingPartnerID: &partnerID, CreatedAt: time.Now()}, nil)

		res, err := svc.Create(partnerCtx(4), dto.CreateClientDTO{Name: "Padaria", OriginatingPartnerName: utils.StringPtr("Outro")})
		require.NoError(t, err)

		assert.Equal(t, "Padaria", res.Name)
		require.NotNil(t, res.OriginatingPartner)
		assert.Equal(t, uint64(4), res.OriginatingPartner.ID)
		partnerRepo.AssertNotCalled(t, "FindOrCreateByNameInTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin names originating partner", func(t *testing.T) {
		svc, clientRepo, partnerRepo := newClientService()
		partnerRepo.On("FindOrCreateByNameInTx", mock.Anything, mock.Anything, "Agência Sul").
			Return(&entities.Partner{ID: 8, Name: "Agência Sul"}, nil)
		partnerID := uint64(8)
		clientRepo.On("FindOrCreateInTx", mock.Anything, mock.Anything, "Escola", &partnerID).
			Return(&entities.Client{ID: 2, Name: "Escola", OriginatingPartnerID: &partnerID, CreatedAt: time.Now()}, nil)

		_, err := svc.Create(adminCtx(), dto.CreateClientDTO{Name: "Escola", OriginatingPartnerName: utils.StringPtr(" Agência Sul ")})
		require.NoError(t, err)
		clientRepo.AssertExpectations(t)
	})

	t.Run("admin without partner", func(t *testing.T) {
		svc, clientRepo, _ := newClientService()
		clientRepo.On("FindOrCreateInTx", mock.Anything, mock.Anything, "Rota", (*uint64)(nil)).
			Return(&entities.Client{ID: 3, Name: "Rota", CreatedAt: time.Now()}, nil)

		res, err := svc.Create(adminCtx(), dto.CreateClientDTO{Name: "Rota"})
		require.NoError(t, err)
		assert.Nil(t, res.OriginatingPartner)
	})

	t.Run("no session", func(t *testing.T) {
		svc, _, _ := newClientService()
		_, err := svc.Create(context.Background(), dto.CreateClientDTO{Name: "Rota"})
		assert.Error(t, err)
	})
}

func TestClientService_Rename(t *testing.T) {
	t.Run("trims and re-reads", func(t *testing.T) {
		svc, clientRepo, _ := newClientService()
		clientRepo.On("Rename", mock.Anything, uint64(3), "Nova Rota").Return(nil)
		clientRepo.On("FindByID", mock.Anything, uint64(3)).
			Return(&entities.Client{ID: 3, Name: "Nova Rota", CreatedAt: time.Now()}, nil)

		res, err := svc.Rename(adminCtx(), 3, dto.RenameClientDTO{Name: "  Nova Rota "})
		require.NoError(t, err)
		assert.Equal(t, "Nova Rota", res.Name)
	})

	t.Run("name taken", func(t *testing.T) {
		svc, clientRepo, _ := newClientService()
		clientRepo.On("Rename", mock.Anything, uint64(3), "Padaria").Return(apperrors.ErrConflict)

		_, err := svc.Rename(adminCtx(), 3, dto.RenameClientDTO{Name: "Padaria"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		clientRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}
