package handlers

import (
	"testing"

	"github.com/cargolink/cargolink-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesCompanyAndAdminUser(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	w := performRequest(t, r, "POST", "/api/auth/register", "",
		map[string]interface{}{
			"companyName":  "Haulers Ltd",
			"companyEmail": "info@haulers.test",
			"username":     "ops",
			"email":        "ops@haulers.test",
			"password":     "password123",
		})
	require.Equal(t, 201, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["role"])
	company := body["company"].(map[string]interface{})
	assert.Equal(t, "KE", company["regionCode"])

	// First user becomes the company admin
	var stored models.User
	require.NoError(t, db.Where("email = ?", "ops@haulers.test").First(&stored).Error)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestRegister_DuplicateCompanyName(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	createTestCompany(t, db, "Haulers Ltd", "KE")

	w := performRequest(t, r, "POST", "/api/auth/register", "",
		map[string]interface{}{
			"companyName":  "Haulers Ltd",
			"companyEmail": "other@haulers.test",
			"username":     "ops",
			"email":        "ops@haulers.test",
			"password":     "password123",
		})
	assert.Equal(t, 409, w.Code)
}

func TestRegister_Validation(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	tests := []struct {
		name  string
		input map[string]interface{}
	}{
		{"missing company name", map[string]interface{}{
			"companyEmail": "a@b.test", "username": "u", "email": "u@b.test", "password": "password123"}},
		{"bad email", map[string]interface{}{
			"companyName": "A", "companyEmail": "not-an-email", "username": "u", "email": "u@b.test", "password": "password123"}},
		{"short password", map[string]interface{}{
			"companyName": "A", "companyEmail": "a@b.test", "username": "u", "email": "u@b.test", "password": "123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(t, r, "POST", "/api/auth/register", "", tt.input)
			assert.Equal(t, 400, w.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	company := createTestCompany(t, db, "haulers-ltd", "KE")
	createTestUser(t, db, company.ID, "ops@haulers.test", models.RoleMember)

	w := performRequest(t, r, "POST", "/api/auth/login", "",
		map[string]interface{}{"email": "ops@haulers.test", "password": "password123"})
	require.Equal(t, 200, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.EqualValues(t, company.ID, user["companyId"])

	// Wrong password and unknown user both read the same to the caller
	w = performRequest(t, r, "POST", "/api/auth/login", "",
		map[string]interface{}{"email": "ops@haulers.test", "password": "wrong"})
	assert.Equal(t, 401, w.Code)

	w = performRequest(t, r, "POST", "/api/auth/login", "",
		map[string]interface{}{"email": "ghost@haulers.test", "password": "password123"})
	assert.Equal(t, 401, w.Code)
}

func TestAuthMiddleware_RejectsMissingAndBadTokens(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	w := performRequest(t, r, "GET", "/api/companies/me", "", nil)
	assert.Equal(t, 401, w.Code)

	w = performRequest(t, r, "GET", "/api/companies/me", "not-a-jwt", nil)
	assert.Equal(t, 401, w.Code)
}
