package listeners

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"os-tracker/internal/entities"
	"os-tracker/internal/events"
	"os-tracker/internal/repositories/mocks"
	"os-tracker/pkg/config"
	"os-tracker/pkg/constants"
	"os-tracker/pkg/eventbus"
	"os-tracker/pkg/mailer"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func newListener(t *testing.T) (*NotificationListener, *mocks.NotificationRepository, *mocks.PartnerRepository, *recordingMailer) {
	t.Helper()
	notifications := new(mocks.NotificationRepository)
	partners := new(mocks.PartnerRepository)
	m := &recordingMailer{}
	cfg := config.MailConfig{AdminEmails: []string{"admin@example.com"}, AppURL: "https://os.example.com/"}
	return NewNotificationListener(notifications, partners, m, cfg, zap.NewNop()), notifications, partners, m
}

func TestApprovalDecided_NotifiesSubmittingPartner(t *testing.T) {
	l, notifications, partners, m := newListener(t)
	partnerID := uint64(7)
	email := "ana@example.com"

	partners.On("FindByID", mock.Anything, partnerID).Return(&entities.Partner{ID: partnerID, Email: &email}, nil)
	notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Notification) bool {
		return n.PartnerID != nil && *n.PartnerID == partnerID && n.Kind == constants.NotificationApproved
	})).Return(nil).Once()

	err := l.handleApprovalDecided(context.Background(), events.OrderApprovalDecidedEvent{
		Order:        events.OrderRef{ID: 3, Number: "000003", Project: "Site", CreatorPartnerID: &partnerID},
		Approved:     true,
		ApproverName: "admin",
	})
	require.NoError(t, err)

	require.Len(t, m.sent, 1)
	assert.Equal(t, []string{email}, m.sent[0].To)
	assert.Contains(t, m.sent[0].Body, "aprovada")
	assert.Contains(t, m.sent[0].Body, "https://os.example.com/orders/3")
	notifications.AssertExpectations(t)
}

func TestStatusChanged_AdminOrderGoesToAdmins(t *testing.T) {
	l, notifications, partners, m := newListener(t)
	notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Notification) bool {
		return n.PartnerID == nil && n.Kind == constants.NotificationStatusChanged
	})).Return(nil).Once()

	err := l.handleStatusChanged(context.Background(), events.OrderStatusChangedEvent{
		Order:     events.OrderRef{ID: 1, Number: "000001", Project: "Site"},
		OldStatus: constants.StatusQueued,
		NewStatus: constants.StatusFinalized,
	})
	require.NoError(t, err)

	require.Len(t, m.sent, 1)
	assert.Equal(t, []string{"admin@example.com"}, m.sent[0].To)
	assert.Contains(t, m.sent[0].Subject, "Finalizado")
	partners.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestDeliver_FailuresAreReportedButMailStillSent(t *testing.T) {
	l, notifications, _, m := newListener(t)
	m.err = errors.New("smtp down")
	notifications.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	err := l.handleSubmitted(context.Background(), events.OrderSubmittedEvent{
		Order:       events.OrderRef{ID: 2, Number: "000002", Project: "Logo", ClientName: "Acme"},
		PartnerName: "Ana",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.Contains(t, err.Error(), "smtp down")
	assert.Len(t, m.sent, 1)
}

func TestRegister_BusSwallowsListenerErrors(t *testing.T) {
	l, notifications, partners, m := newListener(t)
	partnerID := uint64(9)
	partners.On("FindByID", mock.Anything, partnerID).Return(&entities.Partner{ID: partnerID}, nil)
	notifications.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	bus := eventbus.New(zap.NewNop())
	l.Register(bus)

	bus.Publish(context.Background(), events.OrderStatusChangedEvent{
		Order:     events.OrderRef{ID: 5, Number: "000005", CreatorPartnerID: &partnerID},
		OldStatus: constants.StatusQueued,
		NewStatus: constants.StatusAwaitingClient,
	})
	bus.Wait()

	notifications.AssertNumberOfCalls(t, "Create", 1)
	assert.Empty(t, m.sent, "у партнёра без e-mail письмо не отправляется")
}
