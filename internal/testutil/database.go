package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the MySQL test database. Tests are skipped when it is
// not reachable. TEST_DATABASE_DSN overrides the default local DSN.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/vitrine_test?parseTime=true&loc=UTC"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table, children first, and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"PaymentAttempts", "Shipments", "OrderItems", "Orders", "Addresses", "CreatorShippingConfig", "Product"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductTable := `
	CREATE TABLE IF NOT EXISTS Product (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		creatorId INT NOT NULL,
		slug VARCHAR(160) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		kind VARCHAR(20) NOT NULL DEFAULT 'physical',
		priceCents BIGINT NOT NULL,
		compareAtPriceCents BIGINT,
		active TINYINT(1) NOT NULL DEFAULT 1,
		stockQuantity INT,
		weightGrams INT,
		heightCm INT,
		widthCm INT,
		lengthCm INT,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT chk_stock CHECK (stockQuantity IS NULL OR stockQuantity >= 0),
		INDEX idx_creator (creatorId)
	)`

	createCreatorShippingConfigTable := `
	CREATE TABLE IF NOT EXISTS CreatorShippingConfig (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		creatorId INT NOT NULL UNIQUE,
		originPostalCode CHAR(8) NOT NULL,
		handlingDays INT NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createAddressesTable := `
	CREATE TABLE IF NOT EXISTS Addresses (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		userId VARCHAR(64) NOT NULL,
		recipientName VARCHAR(120) NOT NULL,
		street VARCHAR(160) NOT NULL,
		number VARCHAR(20) NOT NULL,
		complement VARCHAR(80),
		neighborhood VARCHAR(80) NOT NULL,
		city VARCHAR(80) NOT NULL,
		state CHAR(2) NOT NULL,
		postalCode CHAR(8) NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_user (userId)
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		userId VARCHAR(64) NOT NULL,
		customerName VARCHAR(120) NOT NULL DEFAULT '',
		customerEmail VARCHAR(150) NOT NULL,
		addressId INT UNSIGNED,
		subtotalCents BIGINT NOT NULL,
		shippingCents BIGINT NOT NULL DEFAULT 0,
		discountCents BIGINT NOT NULL DEFAULT 0,
		totalCents BIGINT NOT NULL,
		paymentMethod VARCHAR(20) NOT NULL,
		shippingService VARCHAR(60),
		shippingCarrier VARCHAR(60),
		status VARCHAR(30) NOT NULL DEFAULT 'AGUARDANDO_PAGAMENTO',
		adminNotes TEXT,
		customerNotes TEXT,
		paidAt DATETIME,
		shippedAt DATETIME,
		deliveredAt DATETIME,
		cancelledAt DATETIME,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (addressId) REFERENCES Addresses(id),
		INDEX idx_user (userId),
		INDEX idx_status (status)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		productId INT NOT NULL,
		productName VARCHAR(255) NOT NULL,
		quantity INT NOT NULL,
		unitPriceCents BIGINT NOT NULL,
		totalCents BIGINT NOT NULL,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId),
		INDEX idx_product (productId)
	)`

	createShipmentsTable := `
	CREATE TABLE IF NOT EXISTS Shipments (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL UNIQUE,
		carrier VARCHAR(30) NOT NULL,
		trackingCode VARCHAR(40) NOT NULL,
		trackingUrl VARCHAR(255) NOT NULL,
		status VARCHAR(30) NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_tracking (trackingCode)
	)`

	createPaymentAttemptsTable := `
	CREATE TABLE IF NOT EXISTS PaymentAttempts (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		provider VARCHAR(30) NOT NULL,
		reference VARCHAR(120) NOT NULL DEFAULT '',
		method VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL,
		message VARCHAR(255) NOT NULL DEFAULT '',
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Product", createProductTable},
		{"CreatorShippingConfig", createCreatorShippingConfigTable},
		{"Addresses", createAddressesTable},
		{"Orders", createOrdersTable},
		{"OrderItems", createOrderItemsTable},
		{"Shipments", createShipmentsTable},
		{"PaymentAttempts", createPaymentAttemptsTable},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}

// InsertProduct inserts a product row and returns its id.
func InsertProduct(t *testing.T, db *sql.DB, slug, kind string, priceCents int64, stock *int, active bool) int {
	t.Helper()

	result, err := db.Exec(`
		INSERT INTO Product (creatorId, slug, name, kind, priceCents, active, stockQuantity)
		VALUES (1, ?, ?, ?, ?, ?, ?)`,
		slug, "Produto "+slug, kind, priceCents, active, stock,
	)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read product id: %v", err)
	}
	return int(id)
}

// InsertOrder inserts a bare order row awaiting payment and returns its id.
func InsertOrder(t *testing.T, db *sql.DB, userID string, totalCents int64) uint {
	t.Helper()

	result, err := db.Exec(`
		INSERT INTO Orders (userId, customerName, customerEmail, subtotalCents, totalCents, paymentMethod)
		VALUES (?, 'Cliente Teste', 'cliente@example.com', ?, ?, 'pix')`,
		userID, totalCents, totalCents,
	)
	if err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read order id: %v", err)
	}
	return uint(id)
}
