package webapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraprovider "github.com/pennywiseapp/pennywise/infra/provider"
	"github.com/pennywiseapp/pennywise/internal/fixtures"
	"github.com/pennywiseapp/pennywise/pkg/eventbus"
	budgetsvc "github.com/pennywiseapp/pennywise/pkg/service/budget"
	categorysvc "github.com/pennywiseapp/pennywise/pkg/service/category"
	ledgersvc "github.com/pennywiseapp/pennywise/pkg/service/ledger"
	notificationsvc "github.com/pennywiseapp/pennywise/pkg/service/notification"
	transfersvc "github.com/pennywiseapp/pennywise/pkg/service/transfer"
	"github.com/pennywiseapp/pennywise/webapi"
	"github.com/pennywiseapp/pennywise/webapi/common"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	uow := fixtures.NewUnitOfWork()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.NewMemoryEventBus()
	budgets := budgetsvc.New(uow, bus, logger)
	ledger := ledgersvc.New(uow, budgets, logger)
	rates := infraprovider.NewStaticExchangeRate(map[string]decimal.Decimal{
		"USD:EUR": decimal.NewFromFloat(0.9),
	})
	notifications := notificationsvc.New(uow, logger)
	notifications.SubscribeTo(bus)
	return webapi.SetupApp(webapi.Services{
		Ledger:        ledger,
		Transfers:     transfersvc.New(uow, rates, logger),
		Budgets:       budgets,
		Categories:    categorysvc.New(uow, logger),
		Notifications: notifications,
	})
}

func jsonRequest(method, target string, userID uuid.UUID, payload any) *http.Request {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set(common.HeaderUserID, userID.String())
	}
	return req
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMissingUserHeaderIsUnauthorized(t *testing.T) {
	app := setupTestApp(t)
	resp, err := app.Test(jsonRequest("GET", "/accounts", uuid.Nil, nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAccountAndReadBalance(t *testing.T) {
	app := setupTestApp(t)
	userID := uuid.New()

	resp, err := app.Test(jsonRequest("POST", "/accounts", userID, map[string]any{
		"name":            "everyday checking",
		"type":            "checking",
		"currency":        "USD",
		"initial_balance": 125.50,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	accountID := decodeData(t, resp)["ID"].(string)

	resp, err = app.Test(jsonRequest("GET", fmt.Sprintf("/accounts/%s/balance", accountID), userID, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.InDelta(t, 125.50, data["balance"].(float64), 0.001)
	assert.Equal(t, "USD", data["currency"])
}

func TestCreateAccountValidation(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest("POST", "/accounts", uuid.New(), map[string]any{
		"name": "no type given",
	}))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetAccountOfAnotherUserIsForbidden(t *testing.T) {
	app := setupTestApp(t)
	owner := uuid.New()

	resp, err := app.Test(jsonRequest("POST", "/accounts", owner, map[string]any{
		"name": "private", "type": "savings",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	accountID := decodeData(t, resp)["ID"].(string)

	resp, err = app.Test(jsonRequest("GET", "/accounts/"+accountID, uuid.New(), nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUnknownAccountIsNotFound(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest("GET", "/accounts/"+uuid.NewString(), uuid.New(), nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func createAccount(t *testing.T, app *fiber.App, userID uuid.UUID, balance float64) string {
	t.Helper()
	resp, err := app.Test(jsonRequest("POST", "/accounts", userID, map[string]any{
		"name": "checking", "type": "checking", "currency": "USD", "initial_balance": balance,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decodeData(t, resp)["ID"].(string)
}

func TestTransferOfAnotherUserIsForbidden(t *testing.T) {
	app := setupTestApp(t)
	owner := uuid.New()
	intruder := uuid.New()

	source := createAccount(t, app, owner, 200.0)
	destination := createAccount(t, app, owner, 0.0)

	resp, err := app.Test(jsonRequest("POST", "/transfers", owner, map[string]any{
		"source_account_id":      source,
		"destination_account_id": destination,
		"amount":                 25.0,
		"date":                   "2026-09-01",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	transferID := decodeData(t, resp)["ID"].(string)

	resp, err = app.Test(jsonRequest("GET", "/transfers/"+transferID, intruder, nil))
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest("DELETE", "/transfers/"+transferID, intruder, nil))
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest("GET", "/transfers/"+transferID, owner, nil))
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest("GET", fmt.Sprintf("/accounts/%s/balance", destination), owner, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.InDelta(t, 25.0, decodeData(t, resp)["balance"].(float64), 0.001)
}

func TestMarkReadOfAnotherUsersNotificationIsForbidden(t *testing.T) {
	app := setupTestApp(t)
	owner := uuid.New()
	intruder := uuid.New()

	accountID := createAccount(t, app, owner, 1000.0)

	resp, err := app.Test(jsonRequest("POST", "/budgets", owner, map[string]any{
		"name":       "groceries",
		"amount":     100.0,
		"currency":   "USD",
		"period":     "yearly",
		"start_date": "2026-01-01",
		"end_date":   "2026-12-31",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp, err = app.Test(jsonRequest("POST", "/transactions", owner, map[string]any{
		"account_id": accountID,
		"type":       "expense",
		"amount":     120.0,
		"date":       "2026-09-01",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp, err = app.Test(jsonRequest("GET", "/notifications?unread=true", owner, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decodeList(t, resp)
	require.NotEmpty(t, list)
	notificationID := list[0]["ID"].(string)

	resp, err = app.Test(jsonRequest("POST", "/notifications/"+notificationID+"/read", intruder, nil))
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest("GET", "/notifications?unread=true", owner, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), len(list))
}

func TestDeleteAccount(t *testing.T) {
	app := setupTestApp(t)
	owner := uuid.New()
	accountID := createAccount(t, app, owner, 50.0)

	resp, err := app.Test(jsonRequest("DELETE", "/accounts/"+accountID, uuid.New(), nil))
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest("DELETE", "/accounts/"+accountID, owner, nil))
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest("GET", "/accounts/"+accountID, owner, nil))
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRecordExpenseEndToEnd(t *testing.T) {
	app := setupTestApp(t)
	userID := uuid.New()

	resp, err := app.Test(jsonRequest("POST", "/accounts", userID, map[string]any{
		"name": "checking", "type": "checking", "initial_balance": 500.0,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	accountID := decodeData(t, resp)["ID"].(string)

	resp, err = app.Test(jsonRequest("POST", "/transactions", userID, map[string]any{
		"account_id": accountID,
		"type":       "expense",
		"amount":     42.75,
		"date":       "2026-09-01",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest("GET", fmt.Sprintf("/accounts/%s/balance", accountID), userID, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.InDelta(t, 457.25, decodeData(t, resp)["balance"].(float64), 0.001)
}
