package service

import (
	"context"
	"sync"

	"github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"

	"github.com/ecavus/techsupport-backend/internal/models"
)

// fakeGateway records provider calls and returns canned artifacts.
type fakeGateway struct {
	sessionCalls int
	linkCalls    int
	lastPlan     models.Plan
	lastSuccess  string
	lastCancel   string
	lastRedirect string
	err          error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, plan models.Plan, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	g.sessionCalls++
	g.lastPlan = plan
	g.lastSuccess = successURL
	g.lastCancel = cancelURL
	if g.err != nil {
		return nil, g.err
	}
	return &stripe.CheckoutSession{
		ID:       "cs_test_1",
		URL:      "https://checkout.stripe.test/cs_test_1",
		Metadata: map[string]string{"planId": plan.ID},
	}, nil
}

func (g *fakeGateway) CreatePaymentLink(_ context.Context, plan models.Plan, redirectURL string) (*stripe.PaymentLink, error) {
	g.linkCalls++
	g.lastPlan = plan
	g.lastRedirect = redirectURL
	if g.err != nil {
		return nil, g.err
	}
	return &stripe.PaymentLink{
		ID:       "plink_test_1",
		URL:      "https://buy.stripe.test/plink_test_1",
		Metadata: map[string]string{"planId": plan.ID},
	}, nil
}

// fakeVerifier hands back a prepared event, or rejects the delivery.
type fakeVerifier struct {
	event stripe.Event
	err   error
}

func (v *fakeVerifier) VerifyEvent(_ []byte, _ string) (stripe.Event, error) {
	if v.err != nil {
		return stripe.Event{}, v.err
	}
	return v.event, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendPaymentLink(toEmail, _, _ string) error {
	m.sent = append(m.sent, toEmail)
	return m.err
}

// memStore implements both repository interfaces in memory, with the
// same uniqueness semantics the Postgres constraints give us.
type memStore struct {
	mu        sync.Mutex
	nextID    uint
	customers map[string]*models.Customer // by email
	orders    map[string]*models.Order    // by stripe checkout id
}

func newMemStore() *memStore {
	return &memStore{
		customers: make(map[string]*models.Customer),
		orders:    make(map[string]*models.Order),
	}
}

func (s *memStore) GetByEmail(email string) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.customers[email]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) GetOrCreateByEmail(email, fullName string) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.customers[email]; ok {
		cp := *c
		return &cp, nil
	}
	s.nextID++
	c := &models.Customer{ID: s.nextID, Email: email, FullName: fullName}
	s.customers[email] = c
	cp := *c
	return &cp, nil
}

func (s *memStore) Create(customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[customer.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	s.nextID++
	customer.ID = s.nextID
	s.customers[customer.Email] = customer
	return nil
}

func (s *memStore) GetByStripeCustomerID(stripeCustomerID string) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.StripeCustomerID != stripeCustomerID {
			continue
		}
		for _, c := range s.customers {
			if c.ID == o.CustomerID {
				cp := *c
				return &cp, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) CreateIfNotExists(order *models.Order) (bool, *models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.orders[order.StripeCheckoutID]; ok {
		cp := *existing
		return false, &cp, nil
	}
	s.nextID++
	order.ID = s.nextID
	stored := *order
	s.orders[order.StripeCheckoutID] = &stored
	cp := stored
	return true, &cp, nil
}

func (s *memStore) customerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.customers)
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) orderByCheckoutID(id string) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		cp := *o
		return &cp
	}
	return nil
}
