package repository

import (
	"context"
	"errors"
	"finease-api/logger"
	"finease-api/model"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ITransactionRepository defines the contract for transaction storage operations.
type ITransactionRepository interface {
	InsertOne(ctx context.Context, transaction model.Transaction) (primitive.ObjectID, error)
	InsertMany(ctx context.Context, transactions []model.Transaction) ([]primitive.ObjectID, error)
	Find(ctx context.Context, query model.TransactionQuery) ([]model.Transaction, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (model.Transaction, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.UpdateResult, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error)
}

// TransactionRepository implements ITransactionRepository on a Mongo collection.
type TransactionRepository struct {
	Coll *mongo.Collection
}

func NewTransactionRepository(coll *mongo.Collection) *TransactionRepository {
	return &TransactionRepository{Coll: coll}
}

// InsertOne stores the document and records the assigned id on it.
func (r *TransactionRepository) InsertOne(ctx context.Context, transaction model.Transaction) (primitive.ObjectID, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"email":  transaction["email"],
		"fields": len(transaction),
	})
	log.Info("Executing insert of a single transaction")

	res, err := r.Coll.InsertOne(ctx, transaction)
	if err != nil {
		log.WithError(err).Error("Failed to execute insert transaction")
		return primitive.NilObjectID, err
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	transaction[model.IDKey] = id
	return id, nil
}

func (r *TransactionRepository) InsertMany(ctx context.Context, transactions []model.Transaction) ([]primitive.ObjectID, error) {
	log := logger.Log.WithField("count", len(transactions))
	log.Info("Executing insert of a transaction batch")

	docs := make([]interface{}, len(transactions))
	for i := range transactions {
		docs[i] = transactions[i]
	}

	res, err := r.Coll.InsertMany(ctx, docs)
	if err != nil {
		log.WithError(err).Error("Failed to execute insert transaction batch")
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(res.InsertedIDs))
	for i, raw := range res.InsertedIDs {
		id, _ := raw.(primitive.ObjectID)
		transactions[i][model.IDKey] = id
		ids = append(ids, id)
	}
	return ids, nil
}

// Find returns the matching transactions in the requested order. An empty
// email matches every document.
func (r *TransactionRepository) Find(ctx context.Context, query model.TransactionQuery) ([]model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"email":      query.Email,
		"sort_field": query.SortField,
		"order":      query.Order,
	})
	log.Info("Executing query to list transactions")

	filter := bson.M{}
	if query.Email != "" {
		filter["email"] = query.Email
	}
	opts := options.Find().SetSort(bson.D{{Key: query.SortField, Value: int(query.Order)}})

	cursor, err := r.Coll.Find(ctx, filter, opts)
	if err != nil {
		log.WithError(err).Error("Failed to execute list transactions query")
		return nil, err
	}

	transactions := make([]model.Transaction, 0)
	if err := cursor.All(ctx, &transactions); err != nil {
		log.WithError(err).Error("Failed to decode transaction documents")
		return nil, err
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	return transactions, nil
}

// FindByID returns (nil, nil) when no document has the given id.
func (r *TransactionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (model.Transaction, error) {
	log := logger.Log.WithField("transaction_id", id.Hex())
	log.Info("Executing query to get transaction by ID")

	var transaction model.Transaction
	err := r.Coll.FindOne(ctx, bson.M{model.IDKey: id}).Decode(&transaction)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Info("Transaction not found")
			return nil, nil
		}
		log.WithError(err).Error("Failed to execute get transaction by ID query")
		return nil, err
	}
	return transaction, nil
}

// UpdateByID applies fields with $set. It never inserts.
func (r *TransactionRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.UpdateResult, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": id.Hex(),
		"fields":         len(fields),
	})
	log.Info("Executing update of a transaction")

	res, err := r.Coll.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		log.WithError(err).Error("Failed to execute update transaction")
		return nil, err
	}

	return &model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (r *TransactionRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	log := logger.Log.WithField("transaction_id", id.Hex())
	log.Info("Executing delete of a transaction")

	res, err := r.Coll.DeleteOne(ctx, bson.M{model.IDKey: id})
	if err != nil {
		log.WithError(err).Error("Failed to execute delete transaction")
		return nil, err
	}

	return &model.DeleteResult{
		Acknowledged: true,
		DeletedCount: res.DeletedCount,
	}, nil
}
