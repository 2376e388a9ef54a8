package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Meter struct {
	ID                int64               `json:"meterId"`
	CustomerID        int64               `json:"customerId"`
	TariffID          int64               `json:"tariffId"`
	MeterType         string              `json:"meterType"`
	InstallationDate  time.Time           `json:"installationDate"`
	City              string              `json:"city"`
	Pincode           int                 `json:"pincode"`
	Street            string              `json:"street"`
	HouseNo           string              `json:"houseNo"`
	State             string              `json:"state"`
	TariffDescription string              `json:"tariffDescription,omitempty"`
	RatePerUnit       decimal.NullDecimal `json:"ratePerUnit"`
}

// Address renders the service address on one line.
func (m Meter) Address() string {
	return fmt.Sprintf("%s, %s, %s, %s - %d", m.City, m.Street, m.HouseNo, m.State, m.Pincode)
}

type MeterRequest struct {
	MeterType        string `json:"meterType" validate:"required,max=30"`
	InstallationDate string `json:"installationDate" validate:"required,datetime=2006-01-02"`
	City             string `json:"city" validate:"required,max=50"`
	Pincode          int    `json:"pincode" validate:"required,gt=0"`
	Street           string `json:"street" validate:"required,max=100"`
	HouseNo          string `json:"houseNo" validate:"required,max=20"`
	State            string `json:"state" validate:"required,max=50"`
	TariffID         int64  `json:"tariffId" validate:"required,gt=0"`
}
