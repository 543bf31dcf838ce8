package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/internal/domain"
	"vitrine/internal/errors"
	"vitrine/internal/testutil"
)

// Unit Tests

func TestNewMySQLShipmentRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLShipmentRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestNewMySQLAddressRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLAddressRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestShipmentRepository_InsertUpdateFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLShipmentRepository(db)
	orderID := testutil.InsertOrder(t, db, "user-1", 1000)

	_, err := repo.FindByOrderID(context.Background(), orderID)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	id, err := repo.Insert(context.Background(), tx, domain.Shipment{
		OrderID:      orderID,
		Carrier:      domain.CarrierCorreios,
		TrackingCode: "AA123456789BR",
		TrackingURL:  "https://rastreamento.correios.com.br/app/index.php?objeto=AA123456789BR",
		Status:       domain.ShipmentStatusLabelCreated,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx, err = db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	s, err := repo.FindByOrderIDForUpdate(context.Background(), tx, orderID)
	require.NoError(t, err)
	assert.Equal(t, id, s.ID)

	s.Status = domain.ShipmentStatusInTransit
	require.NoError(t, repo.Update(context.Background(), tx, *s))
	require.NoError(t, tx.Commit())

	found, err := repo.FindByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShipmentStatusInTransit, found.Status)
	assert.Equal(t, domain.CarrierCorreios, found.Carrier)
	assert.Equal(t, "AA123456789BR", found.TrackingCode)
}

func TestShipmentRepository_OnePerOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLShipmentRepository(db)
	orderID := testutil.InsertOrder(t, db, "user-1", 1000)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	s := domain.Shipment{OrderID: orderID, Carrier: domain.CarrierUnknown, TrackingCode: "X1", TrackingURL: "u", Status: domain.ShipmentStatusLabelCreated}
	_, err = repo.Insert(context.Background(), tx, s)
	require.NoError(t, err)

	_, err = repo.Insert(context.Background(), tx, s)
	assert.Error(t, err)
}

func TestAddressRepository_InsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLAddressRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	id, err := repo.Insert(context.Background(), tx, domain.Address{
		UserID: "user-1", RecipientName: "Ana", Street: "Rua da Bahia", Number: "1000",
		Neighborhood: "Centro", City: "Belo Horizonte", State: "MG", PostalCode: "30160011",
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	a, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Belo Horizonte", a.City)
	assert.Nil(t, a.Complement)

	_, err = repo.FindByID(context.Background(), 99999)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}
