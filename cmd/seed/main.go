package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/enum"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	// CLI flags
	email := flag.String("email", "", "Owner email address")
	password := flag.String("password", "", "Owner password")
	name := flag.String("name", "", "Owner full name")
	flag.Parse()

	// Fall back to environment variables
	if *email == "" {
		*email = os.Getenv("SEED_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("SEED_PASSWORD")
	}
	if *name == "" {
		*name = os.Getenv("SEED_NAME")
	}

	// Fall back to defaults
	if *email == "" {
		*email = "owner@dinepos.local"
	}
	if *password == "" {
		*password = "password123"
		log.Println("WARNING: Using default password 'password123'. Change immediately in production!")
	}
	if *name == "" {
		*name = "Outlet Owner"
	}

	driver := os.Getenv("DATABASE_DRIVER")
	if driver == "" {
		driver = database.DriverSQLite
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "file:pos.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	ctx := context.Background()
	db, err := database.Open(ctx, driver, dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	log.Println("Connected to database")

	// Skip when the owner already exists
	if u, err := database.New(db).GetUserByEmail(ctx, *email); err == nil {
		log.Printf("User '%s' already exists (ID: %d), skipping", *email, u.ID)
		return
	} else if !errors.Is(err, database.ErrNoRows) {
		log.Fatalf("Failed to check user: %v", err)
	}

	// Seed in a transaction (outlet, masters and users or nothing)
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	q := database.New(tx)

	outletID, err := seedOutlet(ctx, q)
	if err != nil {
		log.Fatalf("Failed to seed outlet: %v", err)
	}
	if err := seedMasters(ctx, q, outletID); err != nil {
		log.Fatalf("Failed to seed masters: %v", err)
	}
	if err := seedUsers(ctx, q, outletID, *email, *password, *name); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed completed successfully")
	log.Printf("Outlet ID: %d", outletID)
}

func seedOutlet(ctx context.Context, q *database.Queries) (int64, error) {
	id, err := q.CreateOutlet(ctx, database.CreateOutletParams{
		Name:       "Dine Demo Outlet",
		Address:    "12 MG Road, Bengaluru",
		TaxMode:    enum.TaxModeExclusive,
		BillPrefix: "DD",
	})
	if err != nil {
		return 0, fmt.Errorf("insert outlet: %w", err)
	}
	log.Printf("Created outlet (ID: %d)", id)
	return id, nil
}

func seedMasters(ctx context.Context, q *database.Queries, outletID int64) error {
	gstID, err := q.CreateTaxGroup(ctx, database.TaxGroup{
		OutletID: outletID,
		Name:     "GST 5%",
		CGST:     decimal.RequireFromString("2.5"),
		SGST:     decimal.RequireFromString("2.5"),
		IGST:     decimal.Zero,
		CESS:     decimal.Zero,
	})
	if err != nil {
		return fmt.Errorf("insert tax group: %w", err)
	}

	depts := []struct {
		name   string
		tables []string
	}{
		{"Main Hall", []string{"T1", "T2", "T3", "T4", "T5", "T6"}},
		{"Terrace", []string{"R1", "R2", "R3"}},
	}
	for _, d := range depts {
		deptID, err := q.CreateDepartment(ctx, outletID, d.name, sql.NullInt64{Int64: gstID, Valid: true})
		if err != nil {
			return fmt.Errorf("insert department %s: %w", d.name, err)
		}
		for i, t := range d.tables {
			if _, err := q.CreateTable(ctx, outletID, deptID, t, i+1); err != nil {
				return fmt.Errorf("insert table %s: %w", t, err)
			}
		}
	}

	items := []struct {
		no, name, rate string
	}{
		{"101", "Paneer Tikka", "240.00"},
		{"102", "Veg Biryani", "220.00"},
		{"103", "Butter Naan", "45.00"},
		{"104", "Dal Makhani", "190.00"},
		{"201", "Masala Chai", "30.00"},
		{"202", "Fresh Lime Soda", "60.00"},
	}
	for _, it := range items {
		if _, err := q.CreateMenuItem(ctx, outletID, it.no, it.name, decimal.RequireFromString(it.rate)); err != nil {
			return fmt.Errorf("insert menu item %s: %w", it.no, err)
		}
	}

	modes := [][2]string{{"CASH", "Cash"}, {"CARD", "Card"}, {"UPI", "UPI"}}
	for _, m := range modes {
		if _, err := q.CreatePaymentMode(ctx, outletID, m[0], m[1]); err != nil {
			return fmt.Errorf("insert payment mode %s: %w", m[0], err)
		}
	}

	log.Printf("Created %d departments, %d menu items, %d payment modes", len(depts), len(items), len(modes))
	return nil
}

func seedUsers(ctx context.Context, q *database.Queries, outletID int64, email, password, fullName string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	users := []database.CreateUserParams{
		{Email: email, FullName: fullName, Role: enum.UserRoleOwner},
		{OutletID: sql.NullInt64{Int64: outletID, Valid: true}, Email: "manager@dinepos.local", FullName: "Floor Manager", Role: enum.UserRoleManager},
		{OutletID: sql.NullInt64{Int64: outletID, Valid: true}, Email: "cashier@dinepos.local", FullName: "Front Cashier", Role: enum.UserRoleCashier},
		{OutletID: sql.NullInt64{Int64: outletID, Valid: true}, Email: "waiter@dinepos.local", FullName: "Table Waiter", Role: enum.UserRoleWaiter},
	}
	for _, u := range users {
		u.PasswordHash = string(hashed)
		id, err := q.CreateUser(ctx, u)
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.Email, err)
		}
		log.Printf("Created %s user '%s' (ID: %d)", u.Role, u.Email, id)
	}
	return nil
}
