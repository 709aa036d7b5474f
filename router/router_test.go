// file: router/router_test.go

package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"finease-api/handler"
	"finease-api/logger"
	"finease-api/model"
	"finease-api/router"
	"finease-api/service"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// memoryRepository is an in-process stand-in for the Mongo collection.
type memoryRepository struct {
	mu   sync.Mutex
	docs []model.Transaction
}

func clone(tr model.Transaction) model.Transaction {
	out := make(model.Transaction, len(tr))
	for k, v := range tr {
		out[k] = v
	}
	return out
}

func (m *memoryRepository) InsertOne(_ context.Context, tr model.Transaction) (primitive.ObjectID, error) {
	if tr == nil {
		return primitive.NilObjectID, errors.New("document is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	tr[model.IDKey] = id
	m.docs = append(m.docs, clone(tr))
	return id, nil
}

func (m *memoryRepository) InsertMany(ctx context.Context, trs []model.Transaction) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, len(trs))
	for i := range trs {
		var err error
		if ids[i], err = m.InsertOne(ctx, trs[i]); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (m *memoryRepository) Find(_ context.Context, q model.TransactionQuery) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []model.Transaction{}
	for _, d := range m.docs {
		if q.Email == "" || d["email"] == q.Email {
			out = append(out, clone(d))
		}
	}
	less := func(a, b model.Transaction) bool {
		if q.SortField == "amount" {
			return toFloat(a["amount"]) < toFloat(b["amount"])
		}
		return fmt.Sprint(a["date"]) < fmt.Sprint(b["date"])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Order == model.SortAscending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out, nil
}

func (m *memoryRepository) FindByID(_ context.Context, id primitive.ObjectID) (model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if d.ID() == id {
			return clone(d), nil
		}
	}
	return nil, nil
}

func (m *memoryRepository) UpdateByID(_ context.Context, id primitive.ObjectID, fields bson.M) (*model.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := &model.UpdateResult{Acknowledged: true}
	for i := range m.docs {
		if m.docs[i].ID() != id {
			continue
		}
		res.MatchedCount = 1
		updated := clone(m.docs[i])
		for k, v := range fields {
			updated[k] = v
		}
		if !reflect.DeepEqual(updated, m.docs[i]) {
			m.docs[i] = updated
			res.ModifiedCount = 1
		}
	}
	return res, nil
}

func (m *memoryRepository) DeleteByID(_ context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := &model.DeleteResult{Acknowledged: true}
	for i, d := range m.docs {
		if d.ID() == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			res.DeletedCount = 1
			break
		}
	}
	return res, nil
}

func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	}
	return 0
}

type readiness struct{ ready bool }

func (r *readiness) Ready() bool { return r.ready }

func newTestRouter(ready bool) http.Handler {
	repo := &memoryRepository{}
	svc := service.NewTransactionService(repo)
	return router.NewRouter(
		handler.NewTransactionHandler(svc),
		handler.NewHealthHandler(&readiness{ready: ready}),
		&readiness{ready: ready},
	)
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type insertResponse struct {
	Message string             `json:"message"`
	Result  model.InsertResult `json:"result"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestRoot_Integration(t *testing.T) {
	rr := do(t, newTestRouter(true), "GET", "/", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "FinEase Server is running", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(handler.RequestIDHeader))
}

func TestCreateThenGet_Integration(t *testing.T) {
	r := newTestRouter(true)
	body := `{"email":"a@x.com","type":"expense","category":"food","description":"lunch","amount":"12.5","date":"2024-01-01"}`

	rr := do(t, r, "POST", "/add-transactions", body)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[insertResponse](t, rr)
	assert.NotEmpty(t, created.Message)
	require.NotEmpty(t, created.Result.InsertedID)

	rr = do(t, r, "GET", "/transactions/"+created.Result.InsertedID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[map[string]interface{}](t, rr)
	assert.Equal(t, created.Result.InsertedID, got["_id"])
	assert.Equal(t, "a@x.com", got["email"])
	assert.Equal(t, "expense", got["type"])
	assert.Equal(t, "food", got["category"])
	assert.Equal(t, "lunch", got["description"])
	assert.Equal(t, "12.5", got["amount"], "amount is stored as submitted on create")
	assert.Equal(t, "2024-01-01", got["date"])
}

func TestCreateThenGetKeepsDocumentAsSent_Integration(t *testing.T) {
	r := newTestRouter(true)
	body := `{"email":"a@x.com","type":"expense","amount":12,"date":1704067200000,"name":"Ann","tags":["cash"]}`

	rr := do(t, r, "POST", "/add-transactions", body)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[insertResponse](t, rr)

	rr = do(t, r, "GET", "/transactions/"+created.Result.InsertedID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var want map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &want))
	want["_id"] = created.Result.InsertedID
	assert.Equal(t, want, decode[map[string]interface{}](t, rr))
}

func TestCreateIgnoresClientID_Integration(t *testing.T) {
	r := newTestRouter(true)
	clientID := primitive.NewObjectID().Hex()

	created := decode[insertResponse](t, do(t, r, "POST", "/add-transactions", `{"_id":"`+clientID+`","email":"a@x.com"}`))

	assert.NotEqual(t, clientID, created.Result.InsertedID)
	got := decode[map[string]interface{}](t, do(t, r, "GET", "/transactions/"+created.Result.InsertedID, ""))
	assert.Equal(t, created.Result.InsertedID, got["_id"])
}

func TestCreateBatch_Integration(t *testing.T) {
	r := newTestRouter(true)
	body := `[{"email":"a@x.com","amount":1},{"email":"a@x.com","amount":2},{"email":"b@x.com","amount":3}]`

	rr := do(t, r, "POST", "/add-transactions", body)

	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[insertResponse](t, rr)
	assert.Equal(t, 3, created.Result.InsertedCount)
	assert.Len(t, created.Result.InsertedIDs, 3)
	assert.Equal(t, "3 transactions added successfully.", created.Message)
}

func TestListFilterAndSort_Integration(t *testing.T) {
	r := newTestRouter(true)
	body := `[
		{"email":"a@x.com","amount":30,"date":"2024-01-02"},
		{"email":"a@x.com","amount":10,"date":"2024-01-03"},
		{"email":"b@x.com","amount":20,"date":"2024-01-01"}
	]`
	require.Equal(t, http.StatusCreated, do(t, r, "POST", "/add-transactions", body).Code)

	t.Run("no filter returns everything newest first", func(t *testing.T) {
		list := decode[[]map[string]interface{}](t, do(t, r, "GET", "/my-transactions", ""))
		require.Len(t, list, 3)
		for i := 1; i < len(list); i++ {
			assert.GreaterOrEqual(t, list[i-1]["date"].(string), list[i]["date"].(string))
		}
	})

	t.Run("email filter", func(t *testing.T) {
		list := decode[[]map[string]interface{}](t, do(t, r, "GET", "/my-transactions?email=a@x.com", ""))
		require.Len(t, list, 2)
		for _, tr := range list {
			assert.Equal(t, "a@x.com", tr["email"])
		}
	})

	t.Run("amount ascending", func(t *testing.T) {
		list := decode[[]map[string]interface{}](t, do(t, r, "GET", "/my-transactions?sortBy=amount&order=asc", ""))
		require.Len(t, list, 3)
		for i := 1; i < len(list); i++ {
			assert.LessOrEqual(t, list[i-1]["amount"].(float64), list[i]["amount"].(float64))
		}
	})

	t.Run("unknown email is an empty array", func(t *testing.T) {
		rr := do(t, r, "GET", "/my-transactions?email=nobody@x.com", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}

func TestUpdate_Integration(t *testing.T) {
	r := newTestRouter(true)
	created := decode[insertResponse](t, do(t, r, "POST", "/add-transactions", `{"email":"a@x.com","amount":"5"}`))
	id := created.Result.InsertedID

	rr := do(t, r, "PUT", "/transactions/"+id, `{"amount":"42.25","category":"rent"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	got := decode[map[string]interface{}](t, do(t, r, "GET", "/transactions/"+id, ""))
	assert.Equal(t, 42.25, got["amount"], "amount is coerced on update")
	assert.Equal(t, "rent", got["category"])

	t.Run("null amount becomes zero", func(t *testing.T) {
		rr := do(t, r, "PUT", "/transactions/"+id, `{"amount":null}`)
		require.Equal(t, http.StatusOK, rr.Code)
		got := decode[map[string]interface{}](t, do(t, r, "GET", "/transactions/"+id, ""))
		assert.Equal(t, 0.0, got["amount"])

		rr = do(t, r, "PUT", "/transactions/"+id, `{"amount":42.25}`)
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("same values again is unchanged", func(t *testing.T) {
		rr := do(t, r, "PUT", "/transactions/"+id, `{"amount":42.25,"category":"rent"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		rr := do(t, r, "PUT", "/transactions/"+primitive.NewObjectID().Hex(), `{"category":"food"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "No transaction found or data unchanged.")
	})

	t.Run("invalid id", func(t *testing.T) {
		rr := do(t, r, "PUT", "/transactions/xyz", `{"category":"food"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestDeleteThenGet_Integration(t *testing.T) {
	r := newTestRouter(true)
	created := decode[insertResponse](t, do(t, r, "POST", "/add-transactions", `{"email":"a@x.com"}`))
	id := created.Result.InsertedID

	rr := do(t, r, "DELETE", "/transactions/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rr.Body.String())

	rr = do(t, r, "GET", "/transactions/"+id, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", strings.TrimSpace(rr.Body.String()))
}

func TestNotReady_Integration(t *testing.T) {
	r := newTestRouter(false)

	for _, tc := range []struct{ method, path, body string }{
		{"POST", "/add-transactions", `{"email":"a@x.com"}`},
		{"GET", "/my-transactions", ""},
		{"GET", "/transactions/" + primitive.NewObjectID().Hex(), ""},
		{"DELETE", "/transactions/" + primitive.NewObjectID().Hex(), ""},
	} {
		rr := do(t, r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code, "%s %s", tc.method, tc.path)
	}

	assert.Equal(t, http.StatusServiceUnavailable, do(t, r, "GET", "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, r, "GET", "/", "").Code, "liveness does not depend on the database")
}

func TestCORS_Integration(t *testing.T) {
	r := newTestRouter(true)

	req := httptest.NewRequest(http.MethodOptions, "/transactions/"+primitive.NewObjectID().Hex(), nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestUnknownMethod_Integration(t *testing.T) {
	rr := do(t, newTestRouter(true), "PATCH", "/my-transactions", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
