package services

import (
	"context"
	"io"

	"partner-portal/internal/store"
	"partner-portal/models"

	"github.com/stretchr/testify/mock"
)

type mockTicketStore struct {
	mock.Mock
}

func (m *mockTicketStore) FindByCode(ctx context.Context, code string) (*models.Ticket, error) {
	args := m.Called(ctx, code)
	t, _ := args.Get(0).(*models.Ticket)
	return t, args.Error(1)
}

func (m *mockTicketStore) FindByID(ctx context.Context, id string) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Ticket)
	return t, args.Error(1)
}

func (m *mockTicketStore) ListByBookings(ctx context.Context, partnerID string, bookingIDs []string) ([]models.Ticket, error) {
	args := m.Called(ctx, partnerID, bookingIDs)
	tickets, _ := args.Get(0).([]models.Ticket)
	return tickets, args.Error(1)
}

func (m *mockTicketStore) ListByPartner(ctx context.Context, partnerID string, r store.Range) ([]models.Ticket, error) {
	args := m.Called(ctx, partnerID, r)
	tickets, _ := args.Get(0).([]models.Ticket)
	return tickets, args.Error(1)
}

func (m *mockTicketStore) Redeem(ctx context.Context, r models.Redemption, log models.ScanLog) error {
	return m.Called(ctx, r, log).Error(0)
}

type mockPartnerStore struct {
	mock.Mock
}

func (m *mockPartnerStore) FindByID(ctx context.Context, id string) (*models.Partner, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Partner)
	return p, args.Error(1)
}

func (m *mockPartnerStore) Authenticate(ctx context.Context, email, password string) (*models.Partner, error) {
	args := m.Called(ctx, email, password)
	p, _ := args.Get(0).(*models.Partner)
	return p, args.Error(1)
}

func (m *mockPartnerStore) IssueToken(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *mockPartnerStore) UpdateProfile(ctx context.Context, id string, form models.ProfileForm) (*models.Partner, error) {
	args := m.Called(ctx, id, form)
	p, _ := args.Get(0).(*models.Partner)
	return p, args.Error(1)
}

func (m *mockPartnerStore) SetPassword(ctx context.Context, id, password string) error {
	return m.Called(ctx, id, password).Error(0)
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) ListByPartner(ctx context.Context, partnerID string, r store.Range) ([]models.Booking, error) {
	args := m.Called(ctx, partnerID, r)
	bookings, _ := args.Get(0).([]models.Booking)
	return bookings, args.Error(1)
}

func (m *mockBookingStore) FindByID(ctx context.Context, partnerID, id string) (*models.Booking, error) {
	args := m.Called(ctx, partnerID, id)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

type mockActivityStore struct {
	mock.Mock
}

func (m *mockActivityStore) ListByPartner(ctx context.Context, partnerID string) ([]models.Activity, error) {
	args := m.Called(ctx, partnerID)
	activities, _ := args.Get(0).([]models.Activity)
	return activities, args.Error(1)
}

func (m *mockActivityStore) FindByID(ctx context.Context, partnerID, id string) (*models.Activity, error) {
	args := m.Called(ctx, partnerID, id)
	a, _ := args.Get(0).(*models.Activity)
	return a, args.Error(1)
}

func (m *mockActivityStore) Create(ctx context.Context, partnerID string, form models.ActivityForm) (*models.Activity, error) {
	args := m.Called(ctx, partnerID, form)
	a, _ := args.Get(0).(*models.Activity)
	return a, args.Error(1)
}

func (m *mockActivityStore) Update(ctx context.Context, partnerID, id string, form models.ActivityForm) (*models.Activity, error) {
	args := m.Called(ctx, partnerID, id, form)
	a, _ := args.Get(0).(*models.Activity)
	return a, args.Error(1)
}

func (m *mockActivityStore) Delete(ctx context.Context, partnerID, id string) error {
	return m.Called(ctx, partnerID, id).Error(0)
}

type mockCategoryStore struct {
	mock.Mock
}

func (m *mockCategoryStore) ListActive(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *mockCategoryStore) FindActive(ctx context.Context, id string) (*models.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

type mockTicketTypeStore struct {
	mock.Mock
}

func (m *mockTicketTypeStore) ListByPartner(ctx context.Context, partnerID string) ([]models.TicketType, error) {
	args := m.Called(ctx, partnerID)
	types, _ := args.Get(0).([]models.TicketType)
	return types, args.Error(1)
}

func (m *mockTicketTypeStore) FindByID(ctx context.Context, partnerID, id string) (*models.TicketType, error) {
	args := m.Called(ctx, partnerID, id)
	tt, _ := args.Get(0).(*models.TicketType)
	return tt, args.Error(1)
}

func (m *mockTicketTypeStore) Create(ctx context.Context, partnerID string, form models.TicketTypeForm) (*models.TicketType, error) {
	args := m.Called(ctx, partnerID, form)
	tt, _ := args.Get(0).(*models.TicketType)
	return tt, args.Error(1)
}

func (m *mockTicketTypeStore) Update(ctx context.Context, partnerID, id string, form models.TicketTypeForm) (*models.TicketType, error) {
	args := m.Called(ctx, partnerID, id, form)
	tt, _ := args.Get(0).(*models.TicketType)
	return tt, args.Error(1)
}

func (m *mockTicketTypeStore) SetActive(ctx context.Context, partnerID, id string, active bool) (*models.TicketType, error) {
	args := m.Called(ctx, partnerID, id, active)
	tt, _ := args.Get(0).(*models.TicketType)
	return tt, args.Error(1)
}

func (m *mockTicketTypeStore) Delete(ctx context.Context, partnerID, id string) error {
	return m.Called(ctx, partnerID, id).Error(0)
}

type mockPaymentStore struct {
	mock.Mock
}

func (m *mockPaymentStore) ListByPartner(ctx context.Context, partnerID string) ([]models.Payment, error) {
	args := m.Called(ctx, partnerID)
	payments, _ := args.Get(0).([]models.Payment)
	return payments, args.Error(1)
}

func (m *mockPaymentStore) RequestPayout(ctx context.Context, p models.Payment, n models.Notification) (*models.Payment, error) {
	args := m.Called(ctx, p, n)
	created, _ := args.Get(0).(*models.Payment)
	return created, args.Error(1)
}

type mockNotificationStore struct {
	mock.Mock
}

func (m *mockNotificationStore) List(ctx context.Context, partnerID string, filter models.NotificationFilter) ([]models.Notification, error) {
	args := m.Called(ctx, partnerID, filter)
	notifications, _ := args.Get(0).([]models.Notification)
	return notifications, args.Error(1)
}

func (m *mockNotificationStore) MarkRead(ctx context.Context, partnerID, id string) error {
	return m.Called(ctx, partnerID, id).Error(0)
}

func (m *mockNotificationStore) MarkAllRead(ctx context.Context, partnerID string) (int64, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationStore) Delete(ctx context.Context, partnerID, id string) error {
	return m.Called(ctx, partnerID, id).Error(0)
}

type mockClickStore struct {
	mock.Mock
}

func (m *mockClickStore) ListByPartner(ctx context.Context, partnerID string, r store.Range) ([]models.ClickLog, error) {
	args := m.Called(ctx, partnerID, r)
	clicks, _ := args.Get(0).([]models.ClickLog)
	return clicks, args.Error(1)
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Put(ctx context.Context, key string, content []byte) error {
	return m.Called(ctx, key, content).Error(0)
}

// errReader fails every read.
type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

var _ io.Reader = errReader{}
