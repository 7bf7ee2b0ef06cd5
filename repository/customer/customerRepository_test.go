// repository/customer/repo_test.go
package customerrepo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"rentalservice/model"
)

var customerCols = []string{"id", "name", "email", "phone", "address", "created_at"}

func TestCreate_ScansCreatedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := &model.Customer{
		ID:      uuid.New(),
		Name:    "Ada Lovelace",
		Email:   "ada@x.com",
		Phone:   "555-0100",
		Address: "12 Analytical Way",
	}
	created := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO customers .+ RETURNING created_at`).
		WithArgs(c.ID, c.Name, c.Email, c.Phone, c.Address).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	require.NoError(t, New(db).Create(context.Background(), c))
	require.Equal(t, created, c.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestByEmail_CaseInsensitiveLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM customers WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("Ada@X.com").
		WillReturnRows(sqlmock.NewRows(customerCols).
			AddRow(id.String(), "Ada Lovelace", "ada@x.com", "", "", time.Now()))

	out, err := New(db).ByEmail(context.Background(), "Ada@X.com")
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Equal(t, id, out.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestByEmail_Missing_IsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM customers WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows(customerCols))

	out, err := New(db).ByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	require.Nil(t, out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_ReportsMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM customers WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := New(db).Delete(context.Background(), id)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_RowsAffected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := &model.Customer{ID: uuid.New(), Name: "Ada", Email: "ada@x.com"}
	mock.ExpectExec(`UPDATE customers SET name = \$2, email = \$3, phone = \$4, address = \$5 WHERE id = \$1`).
		WithArgs(c.ID, c.Name, c.Email, c.Phone, c.Address).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := New(db).Update(context.Background(), c)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
