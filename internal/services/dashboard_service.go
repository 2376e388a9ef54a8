package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"billingBack/internal/models"
)

const (
	recentPaymentsLimit = 5
	recentInvoicesLimit = 6
	revenueMonths       = 6
)

type DashboardService struct {
	Stats     DashboardStore
	Payments  PaymentStore
	Invoices  InvoiceStore
	Customers CustomerStore
	Meters    MeterStore
	Bills     BillStore
	Now       func() time.Time
}

func (s *DashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Admin runs the aggregate queries concurrently; the first failure cancels
// the rest.
func (s *DashboardService) Admin(ctx context.Context) (models.AdminDashboard, error) {
	var d models.AdminDashboard
	now := s.now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(revenueMonths - 1), 0)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.TotalCustomers, err = s.Stats.CountCustomers(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.InvoiceCounts, err = s.Stats.InvoiceCounts(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.TotalReceived, err = s.Stats.TotalReceived(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Overdue, err = s.Invoices.OverdueSummary(ctx, now)
		return err
	})
	g.Go(func() (err error) {
		d.RecentPayments, err = s.Payments.List(ctx, models.PaymentFilter{Status: "Completed", Limit: recentPaymentsLimit})
		return err
	})
	g.Go(func() (err error) {
		d.MonthlyRevenue, err = s.Stats.MonthlyReceived(ctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.AdminDashboard{}, err
	}
	if d.RecentPayments == nil {
		d.RecentPayments = []models.PaymentListItem{}
	}
	return d, nil
}

func (s *DashboardService) Customer(ctx context.Context, customerID int64) (models.CustomerDashboard, error) {
	customer, err := s.Customers.Get(ctx, customerID)
	if err != nil {
		return models.CustomerDashboard{}, err
	}
	d := models.CustomerDashboard{Customer: customer}
	now := s.now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	var bills []models.Bill
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.TotalOutstanding, d.NextDueDate, err = s.Stats.CustomerOutstanding(ctx, customerID)
		return err
	})
	g.Go(func() (err error) {
		d.PaidThisYear, err = s.Stats.CustomerPaidSince(ctx, customerID, yearStart)
		return err
	})
	g.Go(func() (err error) {
		d.RecentInvoices, err = s.Invoices.ListByCustomer(ctx, customerID, recentInvoicesLimit)
		return err
	})
	g.Go(func() (err error) {
		d.RecentPayments, err = s.Payments.ListByCustomer(ctx, customerID, recentPaymentsLimit)
		return err
	})
	g.Go(func() (err error) {
		d.Meters, err = s.Meters.ListByCustomer(ctx, customerID)
		return err
	})
	g.Go(func() (err error) {
		bills, err = s.Bills.ListForCustomer(ctx, customerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.CustomerDashboard{}, err
	}

	if len(d.RecentPayments) > 0 {
		last := d.RecentPayments[0]
		d.LastPayment = &last
	}
	if len(bills) > 0 {
		active := bills[0]
		d.ActiveBill = &active
	}
	return d, nil
}
