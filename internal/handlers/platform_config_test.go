package handlers

import (
	"encoding/json"
	"testing"

	"github.com/cargolink/cargolink-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlatformConfig_DefaultsWhenEmpty(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	company := createTestCompany(t, db, "platform", "KE")
	_, token := createTestUser(t, db, company.ID, "root@platform.test", models.RolePlatformAdmin)

	w := performRequest(t, r, "GET", "/api/platform-config", token, nil)
	require.Equal(t, 200, w.Code)

	body := decodeBody(t, w)
	cfg := body["config"].(map[string]interface{})
	assert.InDelta(t, 0.10, cfg["commissionRate"].(float64), 0.001)
	assert.InDelta(t, 0.16, cfg["taxRate"].(float64), 0.001)
	assert.Equal(t, "KES", cfg["currency"])
	assert.EqualValues(t, 0, cfg["version"])

	// Reading defaults must not persist a row
	var count int64
	db.Model(&models.PlatformConfig{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdatePlatformConfig_VersioningAndHistory(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	company := createTestCompany(t, db, "platform", "KE")
	_, adminToken := createTestUser(t, db, company.ID, "root@platform.test", models.RolePlatformAdmin)
	_, memberToken := createTestUser(t, db, company.ID, "member@platform.test", models.RoleMember)

	// Non-admins are rejected
	w := performRequest(t, r, "PATCH", "/api/platform-config", memberToken,
		map[string]interface{}{"commissionRate": 0.15})
	assert.Equal(t, 403, w.Code)

	// First write creates the singleton at version 1
	w = performRequest(t, r, "PATCH", "/api/platform-config", adminToken,
		map[string]interface{}{"commissionRate": 0.15})
	require.Equal(t, 200, w.Code, w.Body.String())

	var cfg models.PlatformConfig
	require.NoError(t, db.Where("is_active = ?", true).First(&cfg).Error)
	assert.Equal(t, 1, cfg.Version)
	assert.InDelta(t, 0.15, cfg.CommissionRate, 0.001)

	// Second write bumps the version
	w = performRequest(t, r, "PATCH", "/api/platform-config", adminToken,
		map[string]interface{}{"reviewsEnabled": false})
	require.Equal(t, 200, w.Code)

	require.NoError(t, db.Where("is_active = ?", true).First(&cfg).Error)
	assert.Equal(t, 2, cfg.Version)
	assert.False(t, cfg.ReviewsEnabled)

	// Still a singleton
	var rows int64
	db.Model(&models.PlatformConfig{}).Count(&rows)
	assert.EqualValues(t, 1, rows)

	// History classifies each change
	var history []models.ConfigurationHistory
	require.NoError(t, db.Order("version ASC").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, models.ChangeTypeFinancial, history[0].ChangeType)
	assert.Equal(t, models.ChangeTypeFeatureToggle, history[1].ChangeType)

	var prev models.ConfigSnapshot
	require.NoError(t, json.Unmarshal([]byte(history[1].PreviousValues), &prev))
	assert.InDelta(t, 0.15, prev.CommissionRate, 0.001)
	assert.True(t, prev.ReviewsEnabled)
}

func TestUpdatePlatformConfig_FirstWriteCanDisableToggles(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	company := createTestCompany(t, db, "platform", "KE")
	_, adminToken := createTestUser(t, db, company.ID, "root@platform.test", models.RolePlatformAdmin)

	// The very first write creates the row; false must survive the insert
	w := performRequest(t, r, "PATCH", "/api/platform-config", adminToken,
		map[string]interface{}{"bookingsEnabled": false, "reviewsEnabled": false})
	require.Equal(t, 200, w.Code, w.Body.String())

	var cfg models.PlatformConfig
	require.NoError(t, db.Where("is_active = ?", true).First(&cfg).Error)
	assert.False(t, cfg.BookingsEnabled)
	assert.False(t, cfg.ReviewsEnabled)
}

func TestUpdatePlatformConfig_Validation(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	company := createTestCompany(t, db, "platform", "KE")
	_, adminToken := createTestUser(t, db, company.ID, "root@platform.test", models.RolePlatformAdmin)

	w := performRequest(t, r, "PATCH", "/api/platform-config", adminToken,
		map[string]interface{}{"commissionRate": 1.5})
	assert.Equal(t, 400, w.Code)

	w = performRequest(t, r, "PATCH", "/api/platform-config", adminToken,
		map[string]interface{}{"taxRate": -0.1})
	assert.Equal(t, 400, w.Code)

	w = performRequest(t, r, "PATCH", "/api/platform-config", adminToken,
		map[string]interface{}{"minBookingAmount": 500.0, "maxBookingAmount": 100.0})
	assert.Equal(t, 400, w.Code)
}

func TestRollbackPlatformConfig(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	company := createTestCompany(t, db, "platform", "KE")
	_, adminToken := createTestUser(t, db, company.ID, "root@platform.test", models.RolePlatformAdmin)

	w := performRequest(t, r, "PATCH", "/api/platform-config", adminToken,
		map[string]interface{}{"commissionRate": 0.12, "taxRate": 0.18})
	require.Equal(t, 200, w.Code)

	w = performRequest(t, r, "PATCH", "/api/platform-config", adminToken,
		map[string]interface{}{"commissionRate": 0.25})
	require.Equal(t, 200, w.Code)

	// Unknown target version
	w = performRequest(t, r, "POST", "/api/platform-config/rollback/42", adminToken, nil)
	assert.Equal(t, 404, w.Code)

	// Roll back to version 1
	w = performRequest(t, r, "POST", "/api/platform-config/rollback/1", adminToken, nil)
	require.Equal(t, 200, w.Code, w.Body.String())

	var cfg models.PlatformConfig
	require.NoError(t, db.Where("is_active = ?", true).First(&cfg).Error)
	assert.Equal(t, 3, cfg.Version)
	assert.InDelta(t, 0.12, cfg.CommissionRate, 0.001)
	assert.InDelta(t, 0.18, cfg.TaxRate, 0.001)

	// Rollback appends history instead of rewriting it
	var history []models.ConfigurationHistory
	require.NoError(t, db.Order("version ASC").Find(&history).Error)
	require.Len(t, history, 3)
	assert.Equal(t, models.ChangeTypeRollback, history[2].ChangeType)
	assert.Equal(t, 3, history[2].Version)
}

func TestSetPaymentMethods(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	company := createTestCompany(t, db, "platform", "KE")
	_, adminToken := createTestUser(t, db, company.ID, "root@platform.test", models.RolePlatformAdmin)

	disabled := false
	w := performRequest(t, r, "PUT", "/api/platform-config/payment-methods", adminToken,
		map[string]interface{}{
			"methods": []map[string]interface{}{
				{"method": "card", "surchargeRate": 0.025},
				{"method": "mobile_money"},
				{"method": "bank_transfer", "enabled": disabled},
			},
		})
	require.Equal(t, 200, w.Code, w.Body.String())

	var cfg models.PlatformConfig
	require.NoError(t, db.Where("is_active = ?", true).First(&cfg).Error)

	var methods []models.PaymentMethodConfig
	require.NoError(t, db.Where("config_version = ?", cfg.Version).Find(&methods).Error)
	require.Len(t, methods, 3)

	byMethod := map[models.PaymentMethod]models.PaymentMethodConfig{}
	for _, m := range methods {
		byMethod[m.Method] = m
	}
	assert.True(t, byMethod[models.PaymentMethodMobileMoney].Enabled)
	assert.False(t, byMethod[models.PaymentMethodBankTransfer].Enabled)
	assert.InDelta(t, 0.025, byMethod[models.PaymentMethodCard].SurchargeRate, 0.0001)

	var history models.ConfigurationHistory
	require.NoError(t, db.Order("id DESC").First(&history).Error)
	assert.Equal(t, models.ChangeTypePaymentConfig, history.ChangeType)

	// Rejected method names fail validation
	w = performRequest(t, r, "PUT", "/api/platform-config/payment-methods", adminToken,
		map[string]interface{}{
			"methods": []map[string]interface{}{{"method": "barter"}},
		})
	assert.Equal(t, 400, w.Code)
}

func TestSetGeoRestrictions(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	company := createTestCompany(t, db, "platform", "KE")
	_, adminToken := createTestUser(t, db, company.ID, "root@platform.test", models.RolePlatformAdmin)

	w := performRequest(t, r, "PUT", "/api/platform-config/geo-restrictions", adminToken,
		map[string]interface{}{
			"restrictions": []map[string]interface{}{
				{"regionCode": "UG", "regionName": "Uganda", "reason": "licensing"},
				{"regionCode": "TZ", "restricted": false},
			},
		})
	require.Equal(t, 200, w.Code, w.Body.String())

	var cfg models.PlatformConfig
	require.NoError(t, db.Where("is_active = ?", true).First(&cfg).Error)

	var restrictions []models.GeographicRestriction
	require.NoError(t, db.Where("config_version = ?", cfg.Version).Find(&restrictions).Error)
	require.Len(t, restrictions, 2)

	byRegion := map[string]models.GeographicRestriction{}
	for _, restriction := range restrictions {
		byRegion[restriction.RegionCode] = restriction
	}
	assert.True(t, byRegion["UG"].Restricted)
	assert.False(t, byRegion["TZ"].Restricted)

	var history models.ConfigurationHistory
	require.NoError(t, db.Order("id DESC").First(&history).Error)
	assert.Equal(t, models.ChangeTypeGeoRestriction, history.ChangeType)

	// Entries without a region code fail validation
	w = performRequest(t, r, "PUT", "/api/platform-config/geo-restrictions", adminToken,
		map[string]interface{}{
			"restrictions": []map[string]interface{}{{"regionName": "Nowhere"}},
		})
	assert.Equal(t, 400, w.Code)
}

func TestGetConfigHistory_AdminOnly(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	company := createTestCompany(t, db, "platform", "KE")
	_, adminToken := createTestUser(t, db, company.ID, "root@platform.test", models.RolePlatformAdmin)
	_, memberToken := createTestUser(t, db, company.ID, "member@platform.test", models.RoleMember)

	w := performRequest(t, r, "GET", "/api/platform-config/history", memberToken, nil)
	assert.Equal(t, 403, w.Code)

	w = performRequest(t, r, "GET", "/api/platform-config/history", adminToken, nil)
	assert.Equal(t, 200, w.Code)
}
