package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

type TariffStore interface {
	GetByID(ctx context.Context, id int64) (models.Tariff, error)
	List(ctx context.Context) ([]models.Tariff, error)
}

type InvoiceStore interface {
	billing.IssueStore
	Get(ctx context.Context, invoiceID int64) (models.Invoice, error)
	GetForCustomer(ctx context.Context, customerID, invoiceID int64) (models.Invoice, error)
	ListByCustomer(ctx context.Context, customerID int64, limit int) ([]models.Invoice, error)
	Owner(ctx context.Context, invoiceID int64) (int64, error)
	OverdueSummary(ctx context.Context, asOf time.Time) (models.OverdueSummary, error)
}

type PaymentStore interface {
	List(ctx context.Context, f models.PaymentFilter) ([]models.PaymentListItem, error)
	Stats(ctx context.Context) (models.PaymentStats, error)
	Detail(ctx context.Context, paymentID int64) (models.PaymentDetail, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]models.PaymentSummary, error)
	ListByCustomer(ctx context.Context, customerID int64, limit int) ([]models.PaymentSummary, error)
}

type CustomerStore interface {
	List(ctx context.Context) ([]models.CustomerOverview, error)
	Get(ctx context.Context, id int64) (models.Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	CreateWithAccess(ctx context.Context, c models.Customer, username, passwordHash string, meter *models.Meter) (int64, *int64, error)
	Update(ctx context.Context, c models.Customer) error
	Delete(ctx context.Context, id int64) error
}

type MeterStore interface {
	Create(ctx context.Context, m models.Meter) (int64, error)
	GetByID(ctx context.Context, id int64) (models.Meter, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Meter, error)
}

type BillStore interface {
	ListForCustomer(ctx context.Context, customerID int64) ([]models.Bill, error)
}

type FeedbackStore interface {
	Create(ctx context.Context, f models.Feedback) (int64, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Feedback, error)
	ListAll(ctx context.Context) ([]models.Feedback, error)
}

type CredentialStore interface {
	GetAdminByUsername(ctx context.Context, username string) (models.Credential, error)
	GetCustomerByUsername(ctx context.Context, username string) (models.Credential, error)
}

type DashboardStore interface {
	CountCustomers(ctx context.Context) (int, error)
	InvoiceCounts(ctx context.Context) (models.InvoiceCounts, error)
	TotalReceived(ctx context.Context) (decimal.Decimal, error)
	MonthlyReceived(ctx context.Context, since time.Time) ([]models.MonthlyTotal, error)
	CustomerOutstanding(ctx context.Context, customerID int64) (decimal.Decimal, *time.Time, error)
	CustomerPaidSince(ctx context.Context, customerID int64, since time.Time) (decimal.Decimal, error)
}

// PaymentEvents receives every committed payment.
type PaymentEvents interface {
	PaymentRecorded(r billing.Receipt)
}

// ReceiptArchive keeps a durable copy of receipts.
type ReceiptArchive interface {
	Put(ctx context.Context, r billing.Receipt) (string, error)
}

type TokenIssuer interface {
	NewAccessToken(id int64, role, username string) (string, error)
}
