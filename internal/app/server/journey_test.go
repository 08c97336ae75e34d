package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hrpayroll/internal/app/server"
	"hrpayroll/internal/auth"
	"hrpayroll/internal/domain/user"
	"hrpayroll/internal/platform/config"
	"hrpayroll/internal/platform/db"
)

// newTestServer stands up the full router against the database named by
// TEST_DATABASE_URL. Tests are skipped when it is unset.
func newTestServer(t *testing.T) (*httptest.Server, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool, "../../../migrations"))
	_, err = pool.Exec(ctx, "TRUNCATE attendances, payrolls, employees, departments, users RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	cfg := config.Config{
		DatabaseURL:  dsn,
		JWTSecret:    "journey-test-secret",
		TokenExpiry:  time.Hour,
		MaxBodyBytes: 1 << 20,
		MaxListLimit: 500,
		CORSOrigins:  []string{"*"},
	}

	ts := httptest.NewServer(server.NewRouter(cfg, zap.NewNop(), pool))
	t.Cleanup(ts.Close)
	return ts, pool
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var envelope map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&envelope))
	}
	return resp, envelope
}

func data(envelope map[string]any) map[string]any {
	d, _ := envelope["data"].(map[string]any)
	return d
}

func loginAsAdmin(t *testing.T, ts *httptest.Server, pool *pgxpool.Pool) *client {
	t.Helper()

	svc := user.NewService(user.NewStore(pool))
	_, err := svc.Create(context.Background(), user.CreateInput{
		Email:    "admin@example.com",
		Username: "admin",
		Password: "admin-pass-1",
		Role:     auth.RoleAdmin,
	})
	require.NoError(t, err)

	c := &client{t: t, base: ts.URL + "/api/v1"}
	resp, envelope := c.do(http.MethodPost, "/auth/login", map[string]any{
		"username": "admin",
		"password": "admin-pass-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c.token = data(envelope)["token"].(string)
	require.NotEmpty(t, c.token)
	return c
}

func TestPayrollJourney(t *testing.T) {
	ts, pool := newTestServer(t)
	c := loginAsAdmin(t, ts, pool)

	resp, envelope := c.do(http.MethodPost, "/departments", map[string]any{
		"name": "Engineering",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	deptID := int64(data(envelope)["id"].(float64))

	resp, _ = c.do(http.MethodPost, "/departments", map[string]any{"name": "Engineering"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, envelope = c.do(http.MethodPost, "/employees", map[string]any{
		"departmentId": deptID,
		"firstName":    "Ada",
		"lastName":     "Lovelace",
		"hireDate":     "2023-06-01",
		"position":     "Engineer",
		"baseSalary":   50000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	empID := int64(data(envelope)["id"].(float64))

	resp, envelope = c.do(http.MethodGet, fmt.Sprintf("/departments/%d/employees", deptID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, data(envelope)["total"])

	resp, envelope = c.do(http.MethodGet, fmt.Sprintf("/departments/%d/statistics", deptID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.InDelta(t, 50000, data(envelope)["averageSalary"].(float64), 0.001)

	// Department cannot be removed while it still has employees.
	resp, _ = c.do(http.MethodDelete, fmt.Sprintf("/departments/%d", deptID), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, envelope = c.do(http.MethodPost, "/payroll", map[string]any{
		"employeeId":     empID,
		"payPeriodStart": "2024-01-01",
		"payPeriodEnd":   "2024-01-31",
		"baseSalary":     50000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	payrollID := int64(data(envelope)["id"].(float64))
	require.Equal(t, "pending", data(envelope)["status"])
	require.Nil(t, data(envelope)["paymentDate"])

	// Overlapping period for the same employee is rejected.
	resp, _ = c.do(http.MethodPost, "/payroll", map[string]any{
		"employeeId":     empID,
		"payPeriodStart": "2024-01-31",
		"payPeriodEnd":   "2024-02-28",
		"baseSalary":     50000,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, envelope = c.do(http.MethodPost, fmt.Sprintf("/payroll/%d/process", payrollID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "processed", data(envelope)["status"])
	require.InDelta(t, 50000, data(envelope)["netSalary"].(float64), 0.001)

	// Processing twice is a conflict.
	resp, _ = c.do(http.MethodPost, fmt.Sprintf("/payroll/%d/process", payrollID), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, envelope = c.do(http.MethodPost, fmt.Sprintf("/payroll/%d/pay", payrollID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "paid", data(envelope)["status"])
	paymentDate, ok := data(envelope)["paymentDate"].(string)
	require.True(t, ok)
	require.Contains(t, paymentDate, time.Now().UTC().Format("2006-01-02"))

	// Paid records are immutable.
	resp, _ = c.do(http.MethodPut, fmt.Sprintf("/payroll/%d", payrollID), map[string]any{"tax": 100})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = c.do(http.MethodDelete, fmt.Sprintf("/payroll/%d", payrollID), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = c.do(http.MethodPost, fmt.Sprintf("/payroll/%d/pay", payrollID), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The employee cannot be deleted while payroll history references it.
	resp, _ = c.do(http.MethodDelete, fmt.Sprintf("/employees/%d", empID), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = c.do(http.MethodGet, fmt.Sprintf("/payroll/%d", payrollID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Payslips render once a record has been processed.
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/v1/payroll/%d/payslip", ts.URL, payrollID), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+c.token)
	pdfResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer pdfResp.Body.Close()
	require.Equal(t, http.StatusOK, pdfResp.StatusCode)
	require.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
}

func TestAttendanceJourney(t *testing.T) {
	ts, pool := newTestServer(t)
	c := loginAsAdmin(t, ts, pool)

	_, envelope := c.do(http.MethodPost, "/departments", map[string]any{"name": "Support"})
	deptID := int64(data(envelope)["id"].(float64))

	_, envelope = c.do(http.MethodPost, "/employees", map[string]any{
		"departmentId": deptID,
		"firstName":    "Grace",
		"lastName":     "Hopper",
		"hireDate":     "2023-01-15",
		"position":     "Analyst",
		"baseSalary":   42000,
	})
	empID := int64(data(envelope)["id"].(float64))

	resp, envelope := c.do(http.MethodPost, fmt.Sprintf("/employees/%d/attendance", empID), map[string]any{
		"date":     "2024-03-04",
		"status":   "present",
		"checkIn":  "2024-03-04T09:00:00Z",
		"checkOut": "2024-03-04T17:30:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.InDelta(t, 8.5, data(envelope)["workHours"].(float64), 0.001)

	// Without both timestamps no hours are derived.
	resp, envelope = c.do(http.MethodPost, fmt.Sprintf("/employees/%d/attendance", empID), map[string]any{
		"date":   "2024-03-05",
		"status": "leave",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Nil(t, data(envelope)["workHours"])

	resp, envelope = c.do(http.MethodGet, fmt.Sprintf("/employees/%d/attendance?start_date=2024-03-04&end_date=2024-03-04", empID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, data(envelope)["total"])
}

func TestAuthAndRBAC(t *testing.T) {
	ts, pool := newTestServer(t)
	c := loginAsAdmin(t, ts, pool)

	// Unauthenticated requests are rejected.
	anon := &client{t: t, base: ts.URL + "/api/v1"}
	resp, _ := anon.do(http.MethodGet, "/departments", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, envelope := c.do(http.MethodPost, "/users", map[string]any{
		"email":    "worker@example.com",
		"username": "worker",
		"password": "worker-pass-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "employee", data(envelope)["role"])

	worker := &client{t: t, base: ts.URL + "/api/v1"}
	resp, envelope = worker.do(http.MethodPost, "/auth/login", map[string]any{
		"username": "worker",
		"password": "worker-pass-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	worker.token = data(envelope)["token"].(string)

	// Employees can read directories but not mutate them.
	resp, _ = worker.do(http.MethodGet, "/departments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = worker.do(http.MethodPost, "/departments", map[string]any{"name": "Rogue"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = worker.do(http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Salary data stays behind the HR tier, reads included.
	resp, _ = worker.do(http.MethodGet, "/payroll", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = worker.do(http.MethodGet, "/payroll/1", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = worker.do(http.MethodGet, "/payroll/1/payslip", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = worker.do(http.MethodGet, "/departments/1/statistics", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, envelope = worker.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "worker", data(envelope)["username"])

	// Deactivated accounts lose access even with a valid token.
	workerID := int64(data(envelope)["id"].(float64))
	resp, _ = c.do(http.MethodPut, fmt.Sprintf("/users/%d", workerID), map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = worker.do(http.MethodGet, "/departments", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Bad credentials and validation failures.
	resp, _ = anon.do(http.MethodPost, "/auth/login", map[string]any{
		"username": "worker",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = c.do(http.MethodPost, "/users", map[string]any{
		"email":    "short@example.com",
		"username": "short",
		"password": "short",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
