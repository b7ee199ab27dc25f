package subscription

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sweepColumns() []string {
	return []string{
		"id", "name", "email", "subscription_plan", "subscription_status",
		"subscription_end_date", "is_permanent",
	}
}

func TestUpdateAllSubscriptionStatuses_WritesOnlyChanges(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	sweepNow := time.Now()
	past := sweepNow.Add(-2 * 24 * time.Hour)
	future := sweepNow.Add(60 * 24 * time.Hour)

	// Store 1 still says ACTIVE but its period lapsed; store 2 is fine as-is.
	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows(sweepColumns()).
			AddRow(1, "Tienda Uno", "uno@example.com", "BASICO", "ACTIVE", past, false).
			AddRow(2, "Tienda Dos", "dos@example.com", "PRO", "ACTIVE", future, false))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stores" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.UpdateAllSubscriptionStatuses(sweepNow)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, 0, result.ExpiringSoon)
	assert.Empty(t, result.Errors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAllSubscriptionStatuses_SecondRunIsIdempotent(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	sweepNow := time.Now()
	past := sweepNow.Add(-2 * 24 * time.Hour)
	soon := sweepNow.Add(3 * 24 * time.Hour)

	// Statuses already match what the deriver computes: no writes at all.
	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows(sweepColumns()).
			AddRow(1, "Tienda Uno", "", "BASICO", "EXPIRED", past, false).
			AddRow(2, "Tienda Dos", "", "PRO", "EXPIRING_SOON", soon, false))

	result, err := svc.UpdateAllSubscriptionStatuses(sweepNow)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 0, result.Updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAllSubscriptionStatuses_IsolatesPerStoreFailures(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	sweepNow := time.Now()
	past := sweepNow.Add(-24 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows(sweepColumns()).
			AddRow(1, "Tienda Uno", "", "BASICO", "ACTIVE", past, false).
			AddRow(2, "Tienda Dos", "", "PRO", "ACTIVE", past, false))

	// First update blows up; the sweep must keep going.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stores" SET`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stores" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.UpdateAllSubscriptionStatuses(sweepNow)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "store 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAllSubscriptionStatuses_CorrectsStalePermanentStore(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	sweepNow := time.Now()
	past := sweepNow.Add(-2 * 24 * time.Hour)

	// A paid store marked permanent but carrying a stale EXPIRED status gets
	// rewritten to PERMANENT instead of being skipped.
	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows(sweepColumns()).
			AddRow(1, "Tienda Uno", "", "BASICO", "EXPIRED", past, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stores" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.UpdateAllSubscriptionStatuses(sweepNow)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSubscriptionAlerts(t *testing.T) {
	svc, mock, closeFn := setupServiceMock(t)
	defer closeFn()

	alertNow := time.Now()
	past := alertNow.Add(-3 * 24 * time.Hour)
	soon := alertNow.Add(5 * 24 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows(sweepColumns()).
			AddRow(1, "Tienda Uno", "uno@example.com", "BASICO", "EXPIRED", past, false).
			AddRow(2, "Tienda Dos", "dos@example.com", "PRO", "EXPIRING_SOON", soon, false))

	alerts, err := svc.GetSubscriptionAlerts(alertNow)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, StatusExpired, alerts[0].Status)
	require.NotNil(t, alerts[0].DaysRemaining)
	assert.Negative(t, *alerts[0].DaysRemaining)

	assert.Equal(t, StatusExpiringSoon, alerts[1].Status)
	assert.Equal(t, "dos@example.com", alerts[1].Email)
	require.NotNil(t, alerts[1].DaysRemaining)
	assert.Equal(t, 5, *alerts[1].DaysRemaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}
