package handlers

import (
	"github.com/condopay/billing/internal/models"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Status  int         `json:"status"`
}

// RespSubscription wraps a single subscription in the standard envelope.
type RespSubscription struct {
	Message string               `json:"message"`
	Data    *models.Subscription `json:"data"`
	Status  int                  `json:"status"`
}

// RespSubscriptionList wraps the organization's subscriptions in the standard envelope.
type RespSubscriptionList struct {
	Message string                 `json:"message"`
	Data    []*models.Subscription `json:"data"`
	Status  int                    `json:"status"`
}

// RespSubscriptionWithBills wraps the create-subscription payload in the standard envelope.
type RespSubscriptionWithBills struct {
	Message string                 `json:"message"`
	Data    *SubscriptionWithBills `json:"data"`
	Status  int                    `json:"status"`
}

// RespBill wraps a single bill in the standard envelope.
type RespBill struct {
	Message string    `json:"message"`
	Data    *BillItem `json:"data"`
	Status  int       `json:"status"`
}

// RespBillList wraps the organization's bills in the standard envelope.
type RespBillList struct {
	Message string      `json:"message"`
	Data    []*BillItem `json:"data"`
	Status  int         `json:"status"`
}

// RespCancelledBills reports how many bills a cancel-bills call transitioned.
type RespCancelledBills struct {
	Message string           `json:"message"`
	Data    map[string]int64 `json:"data"`
	Status  int              `json:"status"`
}
