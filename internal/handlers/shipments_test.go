package handlers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cargolink/cargolink-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShipment(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	company := createTestCompany(t, db, "haulers-ltd", "KE")
	_, token := createTestUser(t, db, company.ID, "ops@haulers.test", models.RoleMember)

	w := performRequest(t, r, "POST", "/api/shipments", token,
		map[string]interface{}{
			"origin":           "Nairobi",
			"destination":      "Mombasa",
			"cargoDescription": "FMCG pallets",
			"weightTons":       8,
			"offerPrice":       40000,
		})
	require.Equal(t, 201, w.Code, w.Body.String())

	var shipment models.Shipment
	require.NoError(t, db.Where("company_id = ?", company.ID).First(&shipment).Error)
	assert.True(t, strings.HasPrefix(shipment.Reference, "SHP-"))
	assert.Equal(t, models.ShipmentStatusOpen, shipment.Status)

	w = performRequest(t, r, "POST", "/api/shipments", token,
		map[string]interface{}{"origin": "A", "destination": "B", "weightTons": -1, "offerPrice": 100})
	assert.Equal(t, 400, w.Code)
}

func TestGetOpenShipments_ExcludesNonOpen(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	owner := createTestCompany(t, db, "haulers-ltd", "KE")
	viewer := createTestCompany(t, db, "fleet-co", "KE")
	_, token := createTestUser(t, db, viewer.ID, "fleet@fleet.test", models.RoleMember)

	createTestShipment(t, db, owner.ID, "SHP-OPEN")
	booked := createTestShipment(t, db, owner.ID, "SHP-BOOKED")
	require.NoError(t, db.Model(&booked).Update("status", models.ShipmentStatusBooked).Error)

	w := performRequest(t, r, "GET", "/api/shipments", token, nil)
	require.Equal(t, 200, w.Code)

	var listed []models.Shipment
	decodeInto(t, w, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "SHP-OPEN", listed[0].Reference)
}

func TestUpdateShipmentStatus_Rules(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	owner := createTestCompany(t, db, "haulers-ltd", "KE")
	other := createTestCompany(t, db, "fleet-co", "KE")
	_, ownerToken := createTestUser(t, db, owner.ID, "ops@haulers.test", models.RoleMember)
	_, otherToken := createTestUser(t, db, other.ID, "fleet@fleet.test", models.RoleMember)

	shipment := createTestShipment(t, db, owner.ID, "SHP-1")
	path := fmt.Sprintf("/api/shipments/%d/status", shipment.ID)

	w := performRequest(t, r, "PATCH", path, otherToken,
		map[string]interface{}{"status": "cancelled"})
	assert.Equal(t, 403, w.Code)

	// Booked shipments are controlled by the booking flow
	require.NoError(t, db.Model(&shipment).Update("status", models.ShipmentStatusBooked).Error)
	w = performRequest(t, r, "PATCH", path, ownerToken,
		map[string]interface{}{"status": "cancelled"})
	assert.Equal(t, 400, w.Code)

	require.NoError(t, db.Model(&shipment).Update("status", models.ShipmentStatusOpen).Error)
	w = performRequest(t, r, "PATCH", path, ownerToken,
		map[string]interface{}{"status": "cancelled"})
	require.Equal(t, 200, w.Code)

	// Terminal statuses are locked
	w = performRequest(t, r, "PATCH", path, ownerToken,
		map[string]interface{}{"status": "open"})
	assert.Equal(t, 400, w.Code)
}
