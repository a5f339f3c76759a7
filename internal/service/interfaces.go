// Package service defines the interfaces between the receipt pipeline
// and its collaborators.
package service

import (
	"context"

	"github.com/levynexus/nexus/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	Owner    string
	Category string
	Limit    int
}

// Storage is the persistence contract the pipeline consumes. The
// pipeline produces structured records; storage owns IDs and timestamps.
type Storage interface {
	Init(ctx context.Context) error
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	DetectSubscriptions(ctx context.Context, owner string) ([]model.SubscriptionPattern, error)
	CalculateRunway(ctx context.Context, owner string, balance float64) (*model.RunwayReport, error)
	Close() error
}
