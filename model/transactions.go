package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction is a single document of the transactions collection. It is
// stored and returned exactly as submitted, plus the _id the driver assigns.
type Transaction map[string]interface{}

// IDKey is the document key holding the primary key.
const IDKey = "_id"

// ID returns the document's ObjectID, or the zero value when it has none.
func (t Transaction) ID() primitive.ObjectID {
	id, _ := t[IDKey].(primitive.ObjectID)
	return id
}

// SortOrder mirrors the driver's 1 / -1 sort direction.
type SortOrder int

const (
	SortAscending  SortOrder = 1
	SortDescending SortOrder = -1
)

// TransactionQuery is the resolved filter and sort of a listing request.
type TransactionQuery struct {
	Email     string
	SortField string
	Order     SortOrder
}
