package subscription

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceMock(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	closer := func() { sqlDB.Close() }
	return NewService(gdb), mock, closer
}

func storeColumns() []string {
	return []string{
		"id", "subscription_plan", "subscription_status",
		"subscription_start_date", "subscription_end_date", "is_permanent",
	}
}

func TestRenewSubscription_RejectsContradictoryDurations(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	_, err := svc.RenewSubscription(1, RenewInput{DurationMonths: 1, DurationYears: 1})
	assert.True(t, IsValidation(err))

	_, err = svc.RenewSubscription(1, RenewInput{})
	assert.True(t, IsValidation(err))

	// Validation failures must not touch the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewSubscription_StoreNotFound(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := svc.RenewSubscription(99, RenewInput{DurationMonths: 1})
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewSubscription_ExtendsFromFutureEndDate(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	start := time.Now().AddDate(0, -2, 0)
	endDate := time.Now().Add(10 * 24 * time.Hour).Truncate(time.Second)

	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows(storeColumns()).
			AddRow(7, "PRO", "EXPIRING_SOON", start, endDate, false))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stores" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	snapshot, err := svc.RenewSubscription(7, RenewInput{DurationMonths: 1})
	require.NoError(t, err)

	require.NotNil(t, snapshot.EndDate)
	assert.True(t, snapshot.EndDate.Equal(endDate.AddDate(0, 1, 0)),
		"renewal should extend the remaining period, not restart it")
	assert.Equal(t, StatusActive, snapshot.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewSubscription_ExpiredRestartsFromNow(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	start := time.Now().AddDate(0, -2, 0)
	endDate := time.Now().Add(-10 * 24 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows(storeColumns()).
			AddRow(7, "BASICO", "EXPIRED", start, endDate, false))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stores" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	snapshot, err := svc.RenewSubscription(7, RenewInput{DurationYears: 1})
	require.NoError(t, err)

	require.NotNil(t, snapshot.EndDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 12, 0), *snapshot.EndDate, 5*time.Second,
		"expired renewals count from now, not the old end date")
	assert.Equal(t, StatusActive, snapshot.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPlan_InvalidPlan(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	_, err := svc.SetPlan(1, Plan("ENTERPRISE"))
	assert.True(t, IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPlan_FreeForcesPermanentAndClearsDates(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	start := time.Now().AddDate(0, -1, 0)
	endDate := time.Now().Add(20 * 24 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows(storeColumns()).
			AddRow(3, "PRO", "ACTIVE", start, endDate, false))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stores" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	snapshot, err := svc.SetPlan(3, PlanFree)
	require.NoError(t, err)

	assert.Equal(t, PlanFree, snapshot.Plan)
	assert.Equal(t, StatusPermanent, snapshot.Status)
	assert.True(t, snapshot.IsPermanent)
	assert.Nil(t, snapshot.EndDate, "downgrading to FREE clears the paid period")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTogglePermanent_OffWithPastEndDateExpires(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	start := time.Now().AddDate(-1, 0, 0)
	endDate := time.Now().Add(-5 * 24 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows(storeColumns()).
			AddRow(4, "BASICO", "PERMANENT", start, endDate, true))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stores" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	snapshot, err := svc.TogglePermanent(4, false)
	require.NoError(t, err)

	// Removing permanence over a lapsed period lands on EXPIRED until an
	// explicit renewal. That is the intended behavior.
	assert.Equal(t, StatusExpired, snapshot.Status)
	assert.False(t, snapshot.IsPermanent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPayment_RequiresExactlyOneDuration(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	base := PaymentInput{Amount: 29.99, Method: "cash", PaymentDate: time.Now()}

	none := base
	_, err := svc.RecordPayment(1, none, 10)
	assert.True(t, IsValidation(err), "no duration and not permanent must be rejected")

	both := base
	both.DurationMonths = 1
	both.DurationYears = 1
	_, err = svc.RecordPayment(1, both, 10)
	assert.True(t, IsValidation(err))

	mixed := base
	mixed.DurationMonths = 1
	mixed.IsPermanent = true
	_, err = svc.RecordPayment(1, mixed, 10)
	assert.True(t, IsValidation(err))

	// Rejections happen before any database write.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPayment_InsertsLedgerRow(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	paymentDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows(storeColumns()).
			AddRow(5, "BASICO", "ACTIVE", nil, nil, false))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "subscription_payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	payment, err := svc.RecordPayment(5, PaymentInput{
		Amount:         49.99,
		Method:         "transfer",
		Reference:      "TX-1001",
		PaymentDate:    paymentDate,
		DurationMonths: 6,
	}, 10)
	require.NoError(t, err)

	assert.Equal(t, uint(5), payment.StoreID)
	assert.Equal(t, uint(10), payment.RecordedByID)
	assert.Equal(t, "USD", payment.Currency)
	require.NotNil(t, payment.PeriodEndDate)
	assert.True(t, payment.PeriodEndDate.Equal(paymentDate.AddDate(0, 6, 0)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPayment_PermanentHasNoPeriod(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows(storeColumns()).
			AddRow(5, "PRO", "ACTIVE", nil, nil, false))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "subscription_payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	payment, err := svc.RecordPayment(5, PaymentInput{
		Amount:      499,
		Method:      "transfer",
		PaymentDate: time.Now(),
		IsPermanent: true,
	}, 10)
	require.NoError(t, err)

	assert.Nil(t, payment.PeriodStartDate)
	assert.Nil(t, payment.PeriodEndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
