package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"finease-api/common"
	"finease-api/logger"
	"finease-api/model"
	"finease-api/service"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

// TransactionHandler holds dependencies for transaction-related handlers.
type TransactionHandler struct {
	service *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(s *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// AddTransactions godoc
// @Summary      Add one or many transactions
// @Description  Accepts a single transaction object or an array of them. Amounts are stored as submitted.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        transaction body model.Transaction true "A transaction or an array of transactions"
// @Success      201  {object}  model.MessageResponse{result=model.InsertResult}
// @Failure      500  {object}  common.AppError "Malformed body or storage failure"
// @Router       /add-transactions [post]
func (h *TransactionHandler) AddTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	const failure = "Failed to insert transaction(s)"

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, failure, err)
	}

	var (
		result  *model.InsertResult
		message string
	)

	if isJSONArray(body) {
		var batch []model.Transaction
		if err := json.Unmarshal(body, &batch); err != nil {
			return common.NewAppError(http.StatusInternalServerError, failure, err)
		}
		result, err = h.service.CreateTransactions(r.Context(), batch)
		message = fmt.Sprintf("%d transactions added successfully.", len(batch))
	} else {
		var transaction model.Transaction
		if err := json.Unmarshal(body, &transaction); err != nil {
			return common.NewAppError(http.StatusInternalServerError, failure, err)
		}
		result, err = h.service.CreateTransaction(r.Context(), transaction)
		message = "Single transaction added successfully."
	}
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, failure, err)
	}

	common.WriteJSON(w, http.StatusCreated, model.MessageResponse{
		Message: message,
		Result:  result,
	})
	return nil
}

// ListTransactions godoc
// @Summary      List transactions
// @Description  Filters by owner email and sorts by date (default) or amount, descending unless order=asc.
// @Tags         transactions
// @Produce      json
// @Param        email   query  string  false  "Owner email"
// @Param        sortBy  query  string  false  "amount or date"  Enums(amount, date)
// @Param        order   query  string  false  "asc or desc"     Enums(asc, desc)
// @Success      200  {array}   model.Transaction
// @Failure      500  {object}  common.AppError
// @Router       /my-transactions [get]
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	q := r.URL.Query()
	req := model.ListTransactionsRequest{
		Email:  q.Get("email"),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
	}

	transactions, err := h.service.ListTransactions(r.Context(), req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Failed to fetch transactions", err)
	}

	common.WriteJSON(w, http.StatusOK, transactions)
	return nil
}

// GetTransaction godoc
// @Summary      Get a transaction
// @Description  Returns the transaction or null when the id matches nothing.
// @Tags         transactions
// @Produce      json
// @Param        id   path  string  true  "Transaction ObjectID"
// @Success      200  {object}  model.Transaction
// @Failure      500  {object}  common.AppError "Invalid id or storage failure"
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	transaction, err := h.service.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Failed to fetch transaction", err)
	}

	common.WriteJSON(w, http.StatusOK, transaction)
	return nil
}

// UpdateTransaction godoc
// @Summary      Update a transaction
// @Description  Replaces type, category, description, amount and date when present. Amount is coerced to a number.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id           path  string                          true  "Transaction ObjectID"
// @Param        transaction  body  model.UpdateTransactionRequest  true  "Fields to replace"
// @Success      200  {object}  model.MessageResponse{result=model.UpdateResult}
// @Failure      404  {object}  common.AppError "No transaction found or data unchanged"
// @Failure      500  {object}  common.AppError "Invalid id, malformed body or storage failure"
// @Router       /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	const failure = "Failed to update transaction"
	id := r.PathValue("id")

	var req model.UpdateTransactionRequest
	if appErr := common.DecodeJSON(r, &req); appErr != nil {
		return common.NewAppError(http.StatusInternalServerError, failure, appErr.Err)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"request_id":     RequestIDFromContext(r.Context()),
		"transaction_id": id,
	})
	log.Info("Update transaction request received")

	result, err := h.service.UpdateTransaction(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFoundOrUnchanged) {
			return common.NewAppError(http.StatusNotFound, "No transaction found or data unchanged.", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, failure, err)
	}

	common.WriteJSON(w, http.StatusOK, model.MessageResponse{
		Message: "Transaction updated successfully.",
		Result:  result,
	})
	return nil
}

// DeleteTransaction godoc
// @Summary      Delete a transaction
// @Tags         transactions
// @Produce      json
// @Param        id   path  string  true  "Transaction ObjectID"
// @Success      200  {object}  model.DeleteResult
// @Failure      500  {object}  common.AppError "Invalid id or storage failure"
// @Router       /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	result, err := h.service.DeleteTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Failed to delete transaction", err)
	}

	common.WriteJSON(w, http.StatusOK, result)
	return nil
}

func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
