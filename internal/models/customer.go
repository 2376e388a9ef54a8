package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
)

type Customer struct {
	ID         int64     `json:"customerId"`
	FirstName  string    `json:"firstName"`
	MiddleName string    `json:"middleName,omitempty"`
	LastName   string    `json:"lastName"`
	Aadhaar    string    `json:"aadhaar,omitempty"`
	Email      string    `json:"email"`
	ContactNo  string    `json:"contactNo"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FullName joins the name parts the way receipts print them.
func (c Customer) FullName() string {
	parts := []string{c.FirstName}
	if strings.TrimSpace(c.MiddleName) != "" {
		parts = append(parts, c.MiddleName)
	}
	parts = append(parts, c.LastName)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// CustomerOverview is one row of the admin customer list.
type CustomerOverview struct {
	Customer
	LatestBillID    *int64              `json:"latestBillId"`
	LatestBillPaid  *bool               `json:"latestBillPaid"`
	LatestBillDue   *time.Time          `json:"latestBillDueDate"`
	InvoiceStatus   *billing.Status     `json:"latestInvoiceStatus"`
	InvoiceTotal    decimal.NullDecimal `json:"latestInvoiceTotal"`
	LastUnits       decimal.NullDecimal `json:"lastUnitsConsumed"`
	LastPaymentMode *string             `json:"lastPaymentMode"`
	LastPaymentDate *time.Time          `json:"lastPaymentDate"`
}

type CustomerDetail struct {
	Customer Customer         `json:"customer"`
	Invoices []Invoice        `json:"invoices"`
	Payments []PaymentSummary `json:"payments"`
	Meters   []Meter          `json:"meters"`
}

type CreateCustomerRequest struct {
	FirstName  string `json:"firstName" validate:"required,max=50"`
	MiddleName string `json:"middleName" validate:"max=50"`
	LastName   string `json:"lastName" validate:"required,max=50"`
	Aadhaar    string `json:"aadhaar" validate:"omitempty,len=12,numeric"`
	Email      string `json:"email" validate:"omitempty,email"`
	ContactNo  string `json:"contactNo" validate:"omitempty,max=15"`
	Address    string `json:"address" validate:"max=200"`
	Username   string `json:"username" validate:"max=50"`
	Password   string `json:"password"`

	CreateMeter bool          `json:"createMeter"`
	Meter       *MeterRequest `json:"meter"`
}

type UpdateCustomerRequest struct {
	FirstName  string `json:"firstName" validate:"required,max=50"`
	MiddleName string `json:"middleName" validate:"max=50"`
	LastName   string `json:"lastName" validate:"required,max=50"`
	Aadhaar    string `json:"aadhaar" validate:"omitempty,len=12,numeric"`
	Email      string `json:"email" validate:"omitempty,email"`
	ContactNo  string `json:"contactNo" validate:"omitempty,max=15"`
	Address    string `json:"address" validate:"max=200"`
}

// CreatedCustomer echoes the generated credentials once so the admin can hand
// them over.
type CreatedCustomer struct {
	Success  bool   `json:"success"`
	CustID   int64  `json:"custId"`
	Username string `json:"username"`
	Password string `json:"password"`
	MeterID  *int64 `json:"meterId"`
}
