package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MonthlyTotal struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type InvoiceCounts struct {
	Total   int `json:"totalInvoices"`
	Paid    int `json:"paidInvoices"`
	Pending int `json:"pendingInvoices"`
}

type AdminDashboard struct {
	TotalCustomers int `json:"totalCustomers"`
	InvoiceCounts
	TotalReceived  decimal.Decimal   `json:"totalReceived"`
	Overdue        OverdueSummary    `json:"overdue"`
	RecentPayments []PaymentListItem `json:"recentPayments"`
	MonthlyRevenue []MonthlyTotal    `json:"monthlyRevenue"`
}

type CustomerDashboard struct {
	Customer         Customer         `json:"customer"`
	TotalOutstanding decimal.Decimal  `json:"totalOutstanding"`
	NextDueDate      *time.Time       `json:"nextDueDate"`
	LastPayment      *PaymentSummary  `json:"lastPayment"`
	PaidThisYear     decimal.Decimal  `json:"paidThisYear"`
	ActiveBill       *Bill            `json:"activeBill"`
	RecentInvoices   []Invoice        `json:"recentInvoices"`
	RecentPayments   []PaymentSummary `json:"recentPayments"`
	Meters           []Meter          `json:"meters"`
}
