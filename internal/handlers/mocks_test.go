package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"partner-portal/internal/aggregate"
	"partner-portal/internal/services"
	"partner-portal/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/mock"
)

var testSession = models.PartnerSession{
	PartnerID:    "p1",
	Email:        "owner@desert-tours.jo",
	Name:         "Rami",
	BusinessName: "Desert Tours",
	LoginTime:    time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
}

// newEvent builds a request event the way the router would hand it to a handler.
func newEvent(method, target string, body io.Reader) (*core.RequestEvent, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()

	e := &core.RequestEvent{}
	e.Request = req
	e.Response = rec
	return e, rec
}

func newSessionEvent(method, target string, body io.Reader) (*core.RequestEvent, *httptest.ResponseRecorder) {
	e, rec := newEvent(method, target, body)
	e.Set(sessionStoreKey, testSession)
	return e, rec
}

type mockSessionResolver struct {
	mock.Mock
}

func (m *mockSessionResolver) Login(ctx context.Context, form models.LoginForm) (*services.LoginResult, error) {
	args := m.Called(ctx, form)
	r, _ := args.Get(0).(*services.LoginResult)
	return r, args.Error(1)
}

func (m *mockSessionResolver) Resolve(ctx context.Context, partnerID string) (*models.PartnerSession, error) {
	args := m.Called(ctx, partnerID)
	s, _ := args.Get(0).(*models.PartnerSession)
	return s, args.Error(1)
}

func (m *mockSessionResolver) Logout(ctx context.Context, partnerID string) error {
	return m.Called(ctx, partnerID).Error(0)
}

type mockPasswordChanger struct {
	mock.Mock
}

func (m *mockPasswordChanger) ChangePassword(ctx context.Context, session models.PartnerSession, form models.PasswordForm) error {
	return m.Called(ctx, session, form).Error(0)
}

type mockTicketScanner struct {
	mock.Mock
}

func (m *mockTicketScanner) Validate(ctx context.Context, session models.PartnerSession, code string) models.ValidationResult {
	return m.Called(ctx, session, code).Get(0).(models.ValidationResult)
}

func (m *mockTicketScanner) Redeem(ctx context.Context, session models.PartnerSession, ticketID string, req models.RedemptionRequest, client services.ClientInfo) (*models.Ticket, error) {
	args := m.Called(ctx, session, ticketID, req, client)
	t, _ := args.Get(0).(*models.Ticket)
	return t, args.Error(1)
}

type mockSalesReporter struct {
	mock.Mock
}

func (m *mockSalesReporter) Sales(ctx context.Context, session models.PartnerSession, q services.SalesQuery) (*services.SalesView, error) {
	args := m.Called(ctx, session, q)
	v, _ := args.Get(0).(*services.SalesView)
	return v, args.Error(1)
}

func (m *mockSalesReporter) Analytics(ctx context.Context, session models.PartnerSession, q services.AnalyticsQuery) (*services.AnalyticsView, error) {
	args := m.Called(ctx, session, q)
	v, _ := args.Get(0).(*services.AnalyticsView)
	return v, args.Error(1)
}

func (m *mockSalesReporter) Summary(ctx context.Context, session models.PartnerSession, days int) (*aggregate.Summary, error) {
	args := m.Called(ctx, session, days)
	s, _ := args.Get(0).(*aggregate.Summary)
	return s, args.Error(1)
}

func (m *mockSalesReporter) Location() *time.Location {
	return time.UTC
}

type mockPaymentLister struct {
	mock.Mock
}

func (m *mockPaymentLister) List(ctx context.Context, session models.PartnerSession) ([]models.Payment, error) {
	args := m.Called(ctx, session)
	p, _ := args.Get(0).([]models.Payment)
	return p, args.Error(1)
}

type mockPayoutRequester struct {
	mock.Mock
}

func (m *mockPayoutRequester) Overview(ctx context.Context, session models.PartnerSession) (*services.PaymentOverview, error) {
	args := m.Called(ctx, session)
	o, _ := args.Get(0).(*services.PaymentOverview)
	return o, args.Error(1)
}

func (m *mockPayoutRequester) Request(ctx context.Context, session models.PartnerSession) (*models.Payment, error) {
	args := m.Called(ctx, session)
	p, _ := args.Get(0).(*models.Payment)
	return p, args.Error(1)
}

type mockActivityManager struct {
	mock.Mock
}

func (m *mockActivityManager) List(ctx context.Context, session models.PartnerSession) ([]models.Activity, error) {
	args := m.Called(ctx, session)
	a, _ := args.Get(0).([]models.Activity)
	return a, args.Error(1)
}

func (m *mockActivityManager) Categories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]models.Category)
	return c, args.Error(1)
}

func (m *mockActivityManager) Create(ctx context.Context, session models.PartnerSession, form models.ActivityForm) (*models.Activity, error) {
	args := m.Called(ctx, session, form)
	a, _ := args.Get(0).(*models.Activity)
	return a, args.Error(1)
}

func (m *mockActivityManager) Update(ctx context.Context, session models.PartnerSession, id string, form models.ActivityForm) (*models.Activity, error) {
	args := m.Called(ctx, session, id, form)
	a, _ := args.Get(0).(*models.Activity)
	return a, args.Error(1)
}

func (m *mockActivityManager) Delete(ctx context.Context, session models.PartnerSession, id string) error {
	return m.Called(ctx, session, id).Error(0)
}

type mockTicketTypeManager struct {
	mock.Mock
}

func (m *mockTicketTypeManager) List(ctx context.Context, session models.PartnerSession) ([]models.TicketType, error) {
	args := m.Called(ctx, session)
	t, _ := args.Get(0).([]models.TicketType)
	return t, args.Error(1)
}

func (m *mockTicketTypeManager) Create(ctx context.Context, session models.PartnerSession, form models.TicketTypeForm) (*models.TicketType, error) {
	args := m.Called(ctx, session, form)
	t, _ := args.Get(0).(*models.TicketType)
	return t, args.Error(1)
}

func (m *mockTicketTypeManager) Update(ctx context.Context, session models.PartnerSession, id string, form models.TicketTypeForm) (*models.TicketType, error) {
	args := m.Called(ctx, session, id, form)
	t, _ := args.Get(0).(*models.TicketType)
	return t, args.Error(1)
}

func (m *mockTicketTypeManager) Toggle(ctx context.Context, session models.PartnerSession, id string) (*models.TicketType, error) {
	args := m.Called(ctx, session, id)
	t, _ := args.Get(0).(*models.TicketType)
	return t, args.Error(1)
}

func (m *mockTicketTypeManager) Delete(ctx context.Context, session models.PartnerSession, id string) error {
	return m.Called(ctx, session, id).Error(0)
}

type mockImageServer struct {
	mock.Mock
}

func (m *mockImageServer) Serve(w http.ResponseWriter, r *http.Request, key string) error {
	return m.Called(w, r, key).Error(0)
}

func (m *mockImageServer) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

type mockNotificationFeed struct {
	mock.Mock
}

func (m *mockNotificationFeed) List(ctx context.Context, session models.PartnerSession, filter models.NotificationFilter) ([]models.Notification, error) {
	args := m.Called(ctx, session, filter)
	n, _ := args.Get(0).([]models.Notification)
	return n, args.Error(1)
}

func (m *mockNotificationFeed) MarkRead(ctx context.Context, session models.PartnerSession, id string) error {
	return m.Called(ctx, session, id).Error(0)
}

func (m *mockNotificationFeed) MarkAllRead(ctx context.Context, session models.PartnerSession) (int64, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationFeed) Delete(ctx context.Context, session models.PartnerSession, id string) error {
	return m.Called(ctx, session, id).Error(0)
}

func (m *mockNotificationFeed) Subscribe(ctx context.Context, session models.PartnerSession) (<-chan models.Notification, func()) {
	args := m.Called(ctx, session)
	return args.Get(0).(<-chan models.Notification), args.Get(1).(func())
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Put(ctx context.Context, key string, content []byte) error {
	return m.Called(ctx, key, content).Error(0)
}
