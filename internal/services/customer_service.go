package services

import (
	"context"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

type CustomerService struct {
	Repo        CustomerStore
	InvoiceRepo InvoiceStore
	PaymentRepo PaymentStore
	MeterRepo   MeterStore
	Now         func() time.Time
}

func (s *CustomerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// DefaultUsername is the first name followed by the initial of the last name,
// lower-cased and without spaces.
func DefaultUsername(first, last string) string {
	name := stripSpaces(first)
	if l := []rune(stripSpaces(last)); len(l) > 0 {
		name += string(l[0])
	}
	return strings.ToLower(name)
}

// DefaultPassword is the first name with only its first letter upper-cased,
// followed by "@123".
func DefaultPassword(first string) string {
	r := []rune(strings.ToLower(strings.TrimSpace(first)))
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r) + "@123"
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func (s *CustomerService) List(ctx context.Context) ([]models.CustomerOverview, error) {
	return s.Repo.List(ctx)
}

func (s *CustomerService) Detail(ctx context.Context, id int64) (models.CustomerDetail, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return models.CustomerDetail{}, err
	}
	detail := models.CustomerDetail{Customer: c}
	if detail.Invoices, err = s.InvoiceRepo.ListByCustomer(ctx, id, 0); err != nil {
		return models.CustomerDetail{}, err
	}
	if detail.Payments, err = s.PaymentRepo.ListByCustomer(ctx, id, 0); err != nil {
		return models.CustomerDetail{}, err
	}
	if detail.Meters, err = s.MeterRepo.ListByCustomer(ctx, id); err != nil {
		return models.CustomerDetail{}, err
	}
	return detail, nil
}

// Create stores the customer, a login and optionally a first meter together.
// Missing credentials are generated and returned in clear once.
func (s *CustomerService) Create(ctx context.Context, req models.CreateCustomerRequest) (models.CreatedCustomer, error) {
	first, last := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
	if first == "" || last == "" {
		return models.CreatedCustomer{}, billing.Invalid("first name and last name are required")
	}

	var meter *models.Meter
	if req.CreateMeter {
		if req.Meter == nil {
			return models.CreatedCustomer{}, billing.Invalid("meter details are required")
		}
		m, err := meterFromRequest(*req.Meter)
		if err != nil {
			return models.CreatedCustomer{}, err
		}
		meter = &m
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		username = DefaultUsername(first, last)
	}
	password := req.Password
	if password == "" {
		password = DefaultPassword(first)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.CreatedCustomer{}, err
	}

	c := models.Customer{
		FirstName:  first,
		MiddleName: strings.TrimSpace(req.MiddleName),
		LastName:   last,
		Aadhaar:    strings.TrimSpace(req.Aadhaar),
		Email:      strings.TrimSpace(req.Email),
		ContactNo:  strings.TrimSpace(req.ContactNo),
		Address:    strings.TrimSpace(req.Address),
		CreatedAt:  s.now(),
	}
	id, meterID, err := s.Repo.CreateWithAccess(ctx, c, username, string(hash), meter)
	if err != nil {
		return models.CreatedCustomer{}, err
	}
	return models.CreatedCustomer{Success: true, CustID: id, Username: username, Password: password, MeterID: meterID}, nil
}

func (s *CustomerService) Update(ctx context.Context, id int64, req models.UpdateCustomerRequest) (models.Customer, error) {
	c := models.Customer{
		ID:         id,
		FirstName:  strings.TrimSpace(req.FirstName),
		MiddleName: strings.TrimSpace(req.MiddleName),
		LastName:   strings.TrimSpace(req.LastName),
		Aadhaar:    strings.TrimSpace(req.Aadhaar),
		Email:      strings.TrimSpace(req.Email),
		ContactNo:  strings.TrimSpace(req.ContactNo),
		Address:    strings.TrimSpace(req.Address),
	}
	if c.FirstName == "" || c.LastName == "" {
		return models.Customer{}, billing.Invalid("first name and last name are required")
	}
	if err := s.Repo.Update(ctx, c); err != nil {
		return models.Customer{}, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

func (s *CustomerService) AddMeter(ctx context.Context, customerID int64, req models.MeterRequest) (int64, error) {
	m, err := meterFromRequest(req)
	if err != nil {
		return 0, err
	}
	ok, err := s.Repo.Exists(ctx, customerID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, billing.NotFound("customer")
	}
	m.CustomerID = customerID
	return s.MeterRepo.Create(ctx, m)
}

func (s *CustomerService) Meters(ctx context.Context, customerID int64) ([]models.Meter, error) {
	return s.MeterRepo.ListByCustomer(ctx, customerID)
}

func (s *CustomerService) Meter(ctx context.Context, meterID int64) (models.Meter, error) {
	return s.MeterRepo.GetByID(ctx, meterID)
}

func (s *CustomerService) Invoices(ctx context.Context, customerID int64) ([]models.Invoice, error) {
	if _, err := s.Repo.Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.InvoiceRepo.ListByCustomer(ctx, customerID, 0)
}

func meterFromRequest(req models.MeterRequest) (models.Meter, error) {
	if strings.TrimSpace(req.MeterType) == "" || strings.TrimSpace(req.City) == "" ||
		strings.TrimSpace(req.Street) == "" || strings.TrimSpace(req.HouseNo) == "" ||
		strings.TrimSpace(req.State) == "" || req.Pincode <= 0 || req.TariffID <= 0 {
		return models.Meter{}, billing.Invalid("all meter fields are required")
	}
	installed, err := time.Parse(dueDateLayout, strings.TrimSpace(req.InstallationDate))
	if err != nil {
		return models.Meter{}, billing.Invalid("installation date must be in YYYY-MM-DD format")
	}
	return models.Meter{
		TariffID:         req.TariffID,
		MeterType:        strings.TrimSpace(req.MeterType),
		InstallationDate: installed,
		City:             strings.TrimSpace(req.City),
		Pincode:          req.Pincode,
		Street:           strings.TrimSpace(req.Street),
		HouseNo:          strings.TrimSpace(req.HouseNo),
		State:            strings.TrimSpace(req.State),
	}, nil
}
