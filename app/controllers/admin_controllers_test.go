package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MwizaSimbeye/StreamKick/app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubPaymentRepo struct {
	payments map[string]*models.Payment
}

func (r *stubPaymentRepo) GetByReference(reference string) (*models.Payment, error) {
	p, ok := r.payments[reference]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPaymentRepo) ListByUser(userID uint, offset, limit int) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) List(status string, offset, limit int) ([]models.Payment, int64, error) {
	var out []models.Payment
	for _, p := range r.payments {
		if status == "" || p.Status == status {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubPaymentRepo) Search(query string) ([]models.Payment, error) {
	return nil, nil
}

func (r *stubPaymentRepo) CountByStatus(status string) (int64, error) {
	var count int64
	for _, p := range r.payments {
		if p.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *stubPaymentRepo) SumCompleted() (float64, error) {
	var total float64
	for _, p := range r.payments {
		if p.Status == models.PaymentStatusCompleted {
			total += p.Amount
		}
	}
	return total, nil
}

type stubUserRepo struct {
	users map[uint]*models.User
}

func (r *stubUserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) List(offset, limit int) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Count() (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) Search(query string) ([]models.User, error) {
	return nil, nil
}

func (r *stubUserRepo) CountActiveSupporters(now time.Time) (int64, error) {
	var count int64
	for _, u := range r.users {
		if u.IsSupporterActive(now) {
			count++
		}
	}
	return count, nil
}

func seedAdminRepos() {
	expiry := time.Now().AddDate(0, 0, 10)
	adminUserRepo = &stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Name: "Chanda", Email: "chanda@example.com", SupporterTier: models.DonationTierVIP, SupporterExpiresAt: &expiry},
		2: {ID: 2, Name: "Mutale", Email: "mutale@example.com"},
	}}
	adminPaymentRepo = &stubPaymentRepo{payments: map[string]*models.Payment{
		"SK-VIP-1": {ID: 10, UserID: 1, Reference: "SK-VIP-1", Amount: 50, Status: models.PaymentStatusCompleted},
		"SK-SUPPORTER-2": {ID: 11, UserID: 2, Reference: "SK-SUPPORTER-2", Amount: 15, Status: models.PaymentStatusPending},
	}}
}

func decodeJSONBody(t *testing.T, resp io.Reader) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp).Decode(&body))
	return body
}

func TestHandleAdminPaymentList(t *testing.T) {
	seedAdminRepos()
	app := fiber.New()
	app.Get("/api/admin/payments", HandleAdminPaymentList)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/payments", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSONBody(t, resp.Body)
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, float64(1), body["pending_count"])
	assert.Equal(t, float64(50), body["total_collected"])
	assert.Equal(t, float64(1), body["active_supporters"])
}

func TestHandleAdminPaymentDetail(t *testing.T) {
	seedAdminRepos()
	app := fiber.New()
	app.Get("/api/admin/payments/:reference", HandleAdminPaymentDetail)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/payments/SK-VIP-1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSONBody(t, resp.Body)
	payment := body["payment"].(map[string]interface{})
	assert.Equal(t, "SK-VIP-1", payment["reference"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/admin/payments/SK-MISSING", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleAdminUserList(t *testing.T) {
	seedAdminRepos()
	app := fiber.New()
	app.Get("/api/admin/users", HandleAdminUserList)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/users", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSONBody(t, resp.Body)
	assert.Equal(t, float64(2), body["total"])
	assert.Len(t, body["users"], 2)
}

func TestHandleAdminUserDetail(t *testing.T) {
	seedAdminRepos()
	app := fiber.New()
	app.Get("/api/admin/users/:id", HandleAdminUserDetail)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/users/1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSONBody(t, resp.Body)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "chanda@example.com", user["email"])
	perks := body["perks"].(map[string]interface{})
	assert.Equal(t, true, perks["vip_rooms"])
	assert.Len(t, body["payments"], 1)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/admin/users/99", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/admin/users/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
