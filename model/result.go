package model

// InsertResult is returned by POST /add-transactions.
type InsertResult struct {
	Acknowledged  bool     `json:"acknowledged"`
	InsertedCount int      `json:"insertedCount"`
	InsertedID    string   `json:"insertedId,omitempty"`
	InsertedIDs   []string `json:"insertedIds"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// MessageResponse wraps a write result with a human readable message.
type MessageResponse struct {
	Message string      `json:"message"`
	Result  interface{} `json:"result"`
}
