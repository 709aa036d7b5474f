// file: model/request.go

package model

// ListTransactionsRequest carries the raw query parameters of GET /my-transactions.
type ListTransactionsRequest struct {
	Email  string
	SortBy string
	Order  string
}

// UpdateTransactionRequest is the decoded PUT body. Only type, category,
// description, amount and date are read from it; an absent key is left
// untouched while an explicit null is applied.
type UpdateTransactionRequest map[string]interface{}
