package service

import (
	"context"
	"errors"
	"finease-api/common"
	"finease-api/logger"
	"finease-api/model"
	"finease-api/repository"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidID           = errors.New("invalid transaction id")
	ErrInvalidAmount       = errors.New("amount is not a number")
	ErrEmptyBatch          = errors.New("no transactions to insert")
	ErrNotAnObject         = errors.New("transaction must be a JSON object")
	ErrNotFoundOrUnchanged = errors.New("no transaction found or data unchanged")
)

const (
	SortByDate   = "date"
	SortByAmount = "amount"
)

type TransactionService struct {
	repo repository.ITransactionRepository
}

func NewTransactionService(repo repository.ITransactionRepository) *TransactionService {
	return &TransactionService{repo: repo}
}

// CreateTransaction stores a single record exactly as submitted. A client
// supplied _id is discarded so the driver always assigns one.
func (s *TransactionService) CreateTransaction(ctx context.Context, transaction model.Transaction) (*model.InsertResult, error) {
	if transaction == nil {
		return nil, ErrNotAnObject
	}
	delete(transaction, model.IDKey)

	id, err := s.repo.InsertOne(ctx, transaction)
	if err != nil {
		return nil, err
	}

	return &model.InsertResult{
		Acknowledged:  true,
		InsertedCount: 1,
		InsertedID:    id.Hex(),
		InsertedIDs:   []string{id.Hex()},
	}, nil
}

// CreateTransactions stores an ordered batch. Amounts are not coerced here.
func (s *TransactionService) CreateTransactions(ctx context.Context, transactions []model.Transaction) (*model.InsertResult, error) {
	if len(transactions) == 0 {
		return nil, ErrEmptyBatch
	}
	for i, transaction := range transactions {
		if transaction == nil {
			return nil, fmt.Errorf("%w: item %d", ErrNotAnObject, i)
		}
		delete(transaction, model.IDKey)
	}

	ids, err := s.repo.InsertMany(ctx, transactions)
	if err != nil {
		return nil, err
	}

	hexIDs := make([]string, len(ids))
	for i, id := range ids {
		hexIDs[i] = id.Hex()
	}

	logger.Log.WithField("count", len(ids)).Info("Transaction batch inserted")
	return &model.InsertResult{
		Acknowledged:  true,
		InsertedCount: len(ids),
		InsertedIDs:   hexIDs,
	}, nil
}

// BuildQuery maps the listing parameters onto a storage query. Only "amount"
// selects the amount field and only "asc" sorts ascending.
func BuildQuery(req model.ListTransactionsRequest) model.TransactionQuery {
	query := model.TransactionQuery{
		Email:     req.Email,
		SortField: SortByDate,
		Order:     model.SortDescending,
	}
	if req.SortBy == SortByAmount {
		query.SortField = SortByAmount
	}
	if req.Order == "asc" {
		query.Order = model.SortAscending
	}
	return query
}

func (s *TransactionService) ListTransactions(ctx context.Context, req model.ListTransactionsRequest) ([]model.Transaction, error) {
	return s.repo.Find(ctx, BuildQuery(req))
}

// GetTransaction returns (nil, nil) when the id matches nothing.
func (s *TransactionService) GetTransaction(ctx context.Context, rawID string) (model.Transaction, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateTransaction replaces the submitted fields. A result with zero
// modified documents is returned together with ErrNotFoundOrUnchanged.
func (s *TransactionService) UpdateTransaction(ctx context.Context, rawID string, req model.UpdateTransactionRequest) (*model.UpdateResult, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	fields, err := BuildUpdate(req)
	if err != nil {
		return nil, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": rawID,
		"fields":         len(fields),
	})

	if len(fields) == 0 {
		log.Info("Update request carried no fields")
		return &model.UpdateResult{Acknowledged: true}, ErrNotFoundOrUnchanged
	}

	result, err := s.repo.UpdateByID(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if result.ModifiedCount == 0 {
		log.Warn("Update matched no document or changed nothing")
		return result, ErrNotFoundOrUnchanged
	}
	return result, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, rawID string) (*model.DeleteResult, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.DeleteByID(ctx, id)
}

// replaceableFields are stored as submitted; amount is coerced separately.
var replaceableFields = []string{"type", "category", "description", "date"}

// BuildUpdate turns the keys present in the request into a $set document.
func BuildUpdate(req model.UpdateTransactionRequest) (bson.M, error) {
	fields := bson.M{}
	for _, key := range replaceableFields {
		if v, ok := req[key]; ok {
			fields[key] = v
		}
	}
	if v, ok := req["amount"]; ok {
		amount, err := CoerceAmount(v)
		if err != nil {
			return nil, err
		}
		fields["amount"] = amount
	}
	return fields, nil
}

// CoerceAmount converts a decoded JSON value to a number. Null and blank
// strings are zero and booleans are 0 or 1; anything else that is not finite fails.
func CoerceAmount(v interface{}) (float64, error) {
	var amount float64
	switch val := v.(type) {
	case nil:
		return 0, nil
	case float64:
		amount = val
	case bool:
		if val {
			amount = 1
		}
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, val)
		}
		amount = parsed
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, v)
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, v)
	}
	return amount, nil
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := common.ParseObjectID(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return id, nil
}
