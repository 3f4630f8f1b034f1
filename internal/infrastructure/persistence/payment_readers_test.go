package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/hotelops/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	may1 = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	may2 = time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)
	may3 = time.Date(2026, 5, 3, 20, 15, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func dateRange(from, to time.Time) payment.DateRange {
	return payment.DateRange{From: &from, To: &to}
}

func seed(t *testing.T, db *gorm.DB, values ...any) {
	t.Helper()
	for _, v := range values {
		require.NoError(t, db.Create(v).Error)
	}
}

// newMockDB creates a GORM DB over go-sqlmock with the postgres dialect
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormPOSSaleReader_ListPOSSales(t *testing.T) {
	t.Run("returns completed sales inside the range", func(t *testing.T) {
		db := newTestDatabase(t).DB
		seed(t, db,
			&models.POSSaleModel{RegisterType: "Bar", Total: decimal.NewFromInt(100), Status: "completed", SoldAt: may1},
			&models.POSSaleModel{RegisterType: "Restaurante", CustomerName: strPtr("Ana"), Total: decimal.NewFromInt(1200),
				Status: "completed", SoldAt: may2, PaymentColumns: models.PaymentColumns{PaymentMethod: strPtr("tarjeta")}},
			&models.POSSaleModel{RegisterType: "Bar", Total: decimal.NewFromInt(50), Status: "voided", SoldAt: may2},
			&models.POSSaleModel{RegisterType: "Bar", Total: decimal.NewFromInt(70), Status: "completed", SoldAt: may3},
		)

		sales, err := NewGormPOSSaleReader(db).ListPOSSales(context.Background(),
			dateRange(may2.Truncate(24*time.Hour), may2.Truncate(24*time.Hour).Add(24*time.Hour-time.Second)))
		require.NoError(t, err)
		require.Len(t, sales, 1)

		sale := sales[0]
		assert.Equal(t, "Restaurante", sale.RegisterType)
		assert.Equal(t, "Ana", sale.CustomerName)
		assert.True(t, sale.Total.Equal(decimal.NewFromInt(1200)))
		require.NotNil(t, sale.PaymentMethod)
		assert.Equal(t, "tarjeta", *sale.PaymentMethod)
		assert.Nil(t, sale.BankReference)
		assert.True(t, sale.SoldAt.Equal(may2))
	})

	t.Run("open range returns everything completed", func(t *testing.T) {
		db := newTestDatabase(t).DB
		seed(t, db,
			&models.POSSaleModel{RegisterType: "Bar", Total: decimal.NewFromInt(1), Status: "completed", SoldAt: may1},
			&models.POSSaleModel{RegisterType: "Bar", Total: decimal.NewFromInt(2), Status: "completed", SoldAt: may3},
		)
		sales, err := NewGormPOSSaleReader(db).ListPOSSales(context.Background(), payment.DateRange{})
		require.NoError(t, err)
		assert.Len(t, sales, 2)
	})

	t.Run("query failure is wrapped and keeps its cause", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		from, to := may1, may3
		mock.ExpectQuery(`SELECT \* FROM "pos_sales" WHERE status = \$1 AND sold_at >= \$2 AND sold_at <= \$3 ORDER BY sold_at DESC, id DESC`).
			WithArgs("completed", from, to).
			WillReturnError(context.DeadlineExceeded)

		_, err := NewGormPOSSaleReader(db).ListPOSSales(context.Background(), dateRange(from, to))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list pos sales")
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.Equal(t, payment.ErrorKindTimeout, payment.ClassifyError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("canceled context", func(t *testing.T) {
		db := newTestDatabase(t).DB
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewGormPOSSaleReader(db).ListPOSSales(ctx, payment.DateRange{})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGormReservationPaymentReader_ListReservationPayments(t *testing.T) {
	db := newTestDatabase(t).DB
	reservation := &models.ReservationModel{GuestName: "Luis Pérez", CheckIn: may1, CheckOut: may3, Status: "confirmed"}
	seed(t, db, reservation)
	seed(t, db,
		&models.ReservationPaymentModel{ReservationID: reservation.ID, PaymentType: "anticipo",
			Amount: decimal.NewFromInt(3000), PaidAt: may1},
		&models.ReservationPaymentModel{ReservationID: 999, PaymentType: "saldo",
			Amount: decimal.NewFromInt(500), PaidAt: may2,
			PaymentColumns: models.PaymentColumns{BankReference: strPtr("TRX-9")}},
	)

	payments, err := NewGormReservationPaymentReader(db).ListReservationPayments(context.Background(), payment.DateRange{})
	require.NoError(t, err)
	require.Len(t, payments, 2)

	// newest first
	assert.Equal(t, "saldo", payments[0].PaymentType)
	assert.Empty(t, payments[0].GuestName, "orphan payment has no guest")
	require.NotNil(t, payments[0].BankReference)
	assert.Equal(t, "TRX-9", *payments[0].BankReference)

	assert.Equal(t, "Luis Pérez", payments[1].GuestName)
	assert.Equal(t, reservation.ID, payments[1].ReservationID)
	assert.True(t, payments[1].Amount.Equal(decimal.NewFromInt(3000)))

	from := may2.Add(-time.Hour)
	filtered, err := NewGormReservationPaymentReader(db).ListReservationPayments(context.Background(),
		payment.DateRange{From: &from})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestGormSupplierPaymentReader_ListSupplierPayments(t *testing.T) {
	db := newTestDatabase(t).DB
	supplier := &models.SupplierModel{Name: "Lavandería Central"}
	seed(t, db, supplier)
	seed(t, db,
		&models.SupplierPaymentModel{SupplierID: &supplier.ID, Amount: decimal.NewFromInt(500), PaidAt: may2},
		&models.SupplierPaymentModel{Description: strPtr("Compra sin proveedor"), Amount: decimal.NewFromInt(80), PaidAt: may3},
	)

	payments, err := NewGormSupplierPaymentReader(db).ListSupplierPayments(context.Background(), dateRange(may2, may2))
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "Lavandería Central", payments[0].SupplierName)
	require.NotNil(t, payments[0].SupplierID)
	assert.Equal(t, supplier.ID, *payments[0].SupplierID)
	assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(500)), "stored unsigned, sign applied later")
}

func TestGormInvoicePaymentReader_ListInvoicePayments(t *testing.T) {
	db := newTestDatabase(t).DB
	client := &models.ClientModel{FirstName: "María", LastName: "López"}
	seed(t, db, client)
	invoice := &models.InvoiceModel{Number: "A-0001-00000123", ClientID: client.ID, Total: decimal.NewFromInt(2000), IssuedAt: may1}
	seed(t, db, invoice)
	seed(t, db, &models.InvoicePaymentModel{
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("1520.50"),
		PaidAt:    may2,
		PaymentColumns: models.PaymentColumns{
			PaymentMethod: strPtr("transferencia"),
			BankAccount:   strPtr("0110-22"),
		},
	})

	payments, err := NewGormInvoicePaymentReader(db).ListInvoicePayments(context.Background(), payment.DateRange{})
	require.NoError(t, err)
	require.Len(t, payments, 1)

	p := payments[0]
	assert.Equal(t, invoice.ID, p.InvoiceID)
	assert.Equal(t, "A-0001-00000123", p.InvoiceNumber)
	assert.Equal(t, "María", p.ClientFirstName)
	assert.Equal(t, "López", p.ClientLastName)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("1520.50")))
	require.NotNil(t, p.BankAccount)
	assert.Equal(t, "0110-22", *p.BankAccount)
}

func TestGormPettyCashReaders(t *testing.T) {
	db := newTestDatabase(t).DB
	seed(t, db,
		&models.PettyCashIncomeModel{BaseModel: models.BaseModel{CreatedAt: may1}, SessionID: int64Ptr(3),
			Description: strPtr("Reposición"), Amount: decimal.NewFromInt(200)},
		&models.PettyCashIncomeModel{BaseModel: models.BaseModel{CreatedAt: may3}, Amount: decimal.NewFromInt(40)},
		&models.PettyCashExpenseModel{BaseModel: models.BaseModel{CreatedAt: may2}, Category: "limpieza",
			Description: strPtr("Detergente"), Amount: decimal.NewFromInt(150)},
	)

	incomes, err := NewGormPettyCashIncomeReader(db).ListPettyCashIncomes(context.Background(), dateRange(may1, may2))
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	require.NotNil(t, incomes[0].SessionID)
	assert.Equal(t, int64(3), *incomes[0].SessionID)
	assert.True(t, incomes[0].CreatedAt.Equal(may1))

	expenses, err := NewGormPettyCashExpenseReader(db).ListPettyCashExpenses(context.Background(), payment.DateRange{})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "limpieza", expenses[0].Category)
	assert.True(t, expenses[0].Amount.Equal(decimal.NewFromInt(150)))
}
