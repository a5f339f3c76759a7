package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction is the persisted record the CRUD layer stores after a
// receipt has been parsed and classified.
type Transaction struct {
	CreatedAt       time.Time
	ID              string
	Owner           string
	Merchant        string
	Date            string // receipt-native date string, may be empty
	Items           []LineItem
	Category        string
	Subcategory     string
	Recurrence      RecurrenceType
	PaymentMethod   string
	Backend         OCRBackend
	RawText         string
	Amount          float64
	Subtotal        float64
	Tax             float64
	Confidence      float64
	IsDiscretionary bool
}

// GenerateHash creates a stable hash for duplicate detection across
// repeated ingestions of the same receipt.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s", t.Date, t.Amount, t.Merchant, t.Owner)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// SubscriptionPattern is a recurring merchant+amount charge detected in
// stored transactions.
type SubscriptionPattern struct {
	Merchant    string  `json:"merchant"`
	Frequency   string  `json:"frequency"`
	Amount      float64 `json:"amount"`
	ChargeCount int     `json:"charge_count"`
	Confidence  float64 `json:"confidence"`
}

// RunwayReport projects how long a balance lasts at the recent spending
// rate recorded in stored transactions.
type RunwayReport struct {
	ProjectedDepletion time.Time `json:"projected_depletion"`
	Status             string    `json:"status"`
	DaysRemaining      int       `json:"days_remaining"`
	MonthsRemaining    float64   `json:"months_remaining"`
	DailyBurn          float64   `json:"daily_burn"`
	MonthlyBurn        float64   `json:"monthly_burn"`
	CurrentBalance     float64   `json:"current_balance"`
}
