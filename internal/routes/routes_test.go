package routes

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/valeriaulyamaeva/fintrack/internal/ai"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
	"github.com/valeriaulyamaeva/fintrack/internal/reports"
)

type stubGenerator struct{ output string }

func (g stubGenerator) Generate(context.Context, string, []byte, string) (string, error) {
	return g.output, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Account struct {
		ID      string `json:"id"`
		Balance string `json:"balance"`
	} `json:"account"`
	Transaction struct {
		ID     string `json:"id"`
		Type   string `json:"type"`
		Amount string `json:"amount"`
	} `json:"transaction"`
	Transactions []json.RawMessage `json:"transactions"`
	Budget       struct {
		ID            string `json:"id"`
		CurrentAmount string `json:"current_amount"`
	} `json:"budget"`
	Items []json.RawMessage `json:"items"`
}

type RoutesTestSuite struct {
	suite.Suite
	db     *database.DB
	router *gin.Engine
	token  string
	userID string
}

func (suite *RoutesTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), db.Migrate(ctx))
	suite.db = db

	suite.router = SetupRouter(Deps{
		DB:             db,
		Ledger:         ledger.New(db, nil, nil),
		Reports:        reports.NewService(db),
		Tokens:         auth.NewTokens("test-secret", time.Hour),
		Receipts:       ai.NewReceiptParser(stubGenerator{output: `[{"category":"Food","amount":4.2,"note":"tea"}]`}, nil),
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	w, body := suite.do(http.MethodPost, "/users/register", map[string]any{
		"name": "Maria", "email": "maria@example.com", "password": "secret123",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	require.True(suite.T(), body.Success)
	suite.token = body.Token

	var user struct {
		ID string `json:"id"`
	}
	require.NoError(suite.T(), json.Unmarshal(body.User, &user))
	suite.userID = user.ID
}

func (suite *RoutesTestSuite) TearDownTest() {
	suite.db.Close()
}

func (suite *RoutesTestSuite) do(method, path string, payload any) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if suite.token != "" {
		req.Header.Set("Authorization", "Bearer "+suite.token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var body envelope
	if bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w, body
}

func (suite *RoutesTestSuite) TestRegisterOpensEmptyAccount() {
	w, body := suite.do(http.MethodGet, "/accounts/get?userId="+suite.userID, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "0", body.Account.Balance)
}

func (suite *RoutesTestSuite) TestDuplicateRegistration() {
	w, body := suite.do(http.MethodPost, "/users/register", map[string]any{
		"name": "Maria", "email": "MARIA@example.com", "password": "secret123",
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.False(suite.T(), body.Success)
}

func (suite *RoutesTestSuite) TestLogin() {
	w, body := suite.do(http.MethodPost, "/users/login", map[string]any{"email": "maria@example.com", "password": "secret123"})
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.NotEmpty(suite.T(), body.Token)

	w, body = suite.do(http.MethodPost, "/users/login", map[string]any{"email": "maria@example.com", "password": "nope"})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.False(suite.T(), body.Success)
}

func (suite *RoutesTestSuite) TestRequiresToken() {
	suite.token = ""
	w, _ := suite.do(http.MethodGet, "/transactions/getall", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *RoutesTestSuite) TestTransactionLifecycle() {
	w, body := suite.do(http.MethodPost, "/accounts/adjust", map[string]any{"amount": 500, "isIncrease": true})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	assert.Equal(suite.T(), "500", body.Account.Balance)

	w, body = suite.do(http.MethodPost, "/transactions/create", map[string]any{
		"userId": suite.userID, "type": "Expense", "amount": "100", "note": "shoes",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(suite.T(), "Expense", body.Transaction.Type)
	assert.Equal(suite.T(), "100", body.Transaction.Amount)
	id := body.Transaction.ID

	_, body = suite.do(http.MethodGet, "/accounts/get", nil)
	assert.Equal(suite.T(), "400", body.Account.Balance)

	w, _ = suite.do(http.MethodPut, "/transactions/update", map[string]any{"id": id, "amount": "150"})
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	_, body = suite.do(http.MethodGet, "/accounts/get", nil)
	assert.Equal(suite.T(), "350", body.Account.Balance)

	_, body = suite.do(http.MethodGet, "/transactions/getall", nil)
	assert.Len(suite.T(), body.Transactions, 1)

	w, _ = suite.do(http.MethodDelete, "/transactions/delete?id="+id, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	_, body = suite.do(http.MethodGet, "/accounts/get", nil)
	assert.Equal(suite.T(), "500", body.Account.Balance)

	w, _ = suite.do(http.MethodGet, "/transactions/get?id="+id, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *RoutesTestSuite) TestErrorStatuses() {
	w, body := suite.do(http.MethodPost, "/transactions/create", map[string]any{"type": "Expense", "amount": "1"})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
	assert.False(suite.T(), body.Success)
	assert.NotEmpty(suite.T(), body.Message)

	w, _ = suite.do(http.MethodPost, "/transactions/create", map[string]any{"type": "Income", "amount": "ten"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w, _ = suite.do(http.MethodPost, "/transactions/create", map[string]any{"type": "Gift", "amount": "10"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w, _ = suite.do(http.MethodGet, "/transactions/getall?userId=someone-else", nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w, _ = suite.do(http.MethodPut, "/budgets/amount", map[string]any{"id": "missing", "amount": "1", "isAdd": true})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *RoutesTestSuite) TestBudgetAmount() {
	w, body := suite.do(http.MethodPost, "/budgets/create", map[string]any{
		"name": "Food", "initialAmount": "1000", "startDate": "2026-01-01", "endDate": "2026-02-01",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	id := body.Budget.ID

	_, body = suite.do(http.MethodPut, "/budgets/amount", map[string]any{"id": id, "amount": "500", "isAdd": true})
	assert.Equal(suite.T(), "500", body.Budget.CurrentAmount)

	_, body = suite.do(http.MethodPut, "/budgets/amount", map[string]any{"id": id, "amount": "700", "isAdd": false})
	assert.Equal(suite.T(), "-200", body.Budget.CurrentAmount)

	w, _ = suite.do(http.MethodDelete, "/budgets/delete?id="+id, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	w, _ = suite.do(http.MethodDelete, "/budgets/delete?id="+id, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *RoutesTestSuite) TestReports() {
	_, _ = suite.do(http.MethodPost, "/transactions/create", map[string]any{"type": "Income", "amount": "75"})

	w, _ := suite.do(http.MethodGet, "/reports/pdf", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(suite.T(), w.Header().Get("Content-Disposition"), ".pdf")

	w, _ = suite.do(http.MethodGet, "/reports/excel?from=2026-13-01", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w, _ = suite.do(http.MethodGet, "/reports/summary", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"income":"75"`)
}

func (suite *RoutesTestSuite) TestReceipt() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "receipt.jpg")
	require.NoError(suite.T(), err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ai/receipt", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	var body envelope
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(suite.T(), body.Items, 1)

	w, _ = suite.do(http.MethodPost, "/ai/extract", map[string]any{"text": "paid rent"})
	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func (suite *RoutesTestSuite) TestHealthAndCORS() {
	req := httptest.NewRequest(http.MethodOptions, "/transactions/create", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w, body := suite.do(http.MethodGet, "/health", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.True(suite.T(), body.Success)
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}
