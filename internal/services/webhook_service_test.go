package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/internal/repositories/mocks"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/service"
	"os-tracker/pkg/utils"
)

type orderCreatorMock struct{ mock.Mock }

func (m *orderCreatorMock) Create(ctx context.Context, data dto.CreateOrderDTO) (*dto.OrderResponseDTO, error) {
	args := m.Called(ctx, data)
	res, _ := args.Get(0).(*dto.OrderResponseDTO)
	return res, args.Error(1)
}

func TestParseSubject(t *testing.T) {
	partner := &entities.Partner{Name: "Ana"}
	cases := []struct {
		subject, client, project string
	}{
		{"Cliente: Acme - Site novo", "Acme", "Site novo"},
		{"cliente:Acme", "Acme", "cliente:Acme"},
		{"Logo redesign", "Ana", "Logo redesign"},
		{"Cliente:   ", "Ana", "Cliente:"},
	}
	for _, tc := range cases {
		client, project := parseSubject(tc.subject, partner)
		assert.Equal(t, tc.client, client, tc.subject)
		assert.Equal(t, tc.project, project, tc.subject)
	}
}

func TestInboundEmail_UnknownSenderLooksSuccessful(t *testing.T) {
	partners := new(mocks.PartnerRepository)
	creator := new(orderCreatorMock)
	svc := NewWebhookService(partners, creator, zap.NewNop())
	partners.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrNotFound)

	res, err := svc.HandleInboundEmail(context.Background(), dto.InboundEmailDTO{
		From: "Nobody <nobody@example.com>", Subject: "Hi", Body: "Please",
	})
	require.NoError(t, err)
	assert.True(t, res.Received)
	assert.Nil(t, res.OrderNumber)
	creator.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInboundEmail_KnownPartnerCreatesOrderAsPartner(t *testing.T) {
	partners := new(mocks.PartnerRepository)
	creator := new(orderCreatorMock)
	svc := NewWebhookService(partners, creator, zap.NewNop())
	username := "ana"

	partners.On("FindByEmail", mock.Anything, "ana@example.com").
		Return(&entities.Partner{ID: 7, Name: "Ana", Username: &username, Approved: true}, nil)
	creator.On("Create", mock.MatchedBy(func(ctx context.Context) bool {
		session, err := utils.GetSessionFromCtx(ctx)
		if err != nil {
			return false
		}
		p, ok := service.AsPartner(session)
		return ok && p.PartnerID == 7
	}), dto.CreateOrderDTO{ClientName: "Acme", Project: "Banner", Task: "Needs a banner"}).
		Return(&dto.OrderResponseDTO{Number: "000010"}, nil)

	res, err := svc.HandleInboundEmail(context.Background(), dto.InboundEmailDTO{
		From: "ana@example.com", Subject: "Cliente: Acme - Banner", Body: " Needs a banner ",
	})
	require.NoError(t, err)
	require.NotNil(t, res.OrderNumber)
	assert.Equal(t, "000010", *res.OrderNumber)
}

func TestInboundEmail_InvalidSender(t *testing.T) {
	svc := NewWebhookService(new(mocks.PartnerRepository), new(orderCreatorMock), zap.NewNop())
	_, err := svc.HandleInboundEmail(context.Background(), dto.InboundEmailDTO{From: "not an address", Subject: "s", Body: "b"})

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}
