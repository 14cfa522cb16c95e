package repositories

import (
	"context"
	"testing"
	"time"

	"billmaker/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var addressCols = []string{"id", "user_id", "name", "address", "gst_number", "created_at"}

type AddressRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    AddressRepository
	address *models.Address
	context context.Context
}

func (suite *AddressRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewAddressRepository(mock)
	suite.context = context.Background()
	suite.address = &models.Address{
		ID:        uuid.New(),
		UserID:    "user_2abc",
		Name:      "Shree Cements Depot",
		Address:   "Plot 4, Industrial Area, Mysuru",
		GSTNumber: stringPtr("29AAACS1234K1Z2"),
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (suite *AddressRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestAddressRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AddressRepoTestSuite))
}

func (suite *AddressRepoTestSuite) row() []any {
	a := suite.address
	return []any{a.ID, a.UserID, a.Name, a.Address, a.GSTNumber, a.CreatedAt}
}

func (suite *AddressRepoTestSuite) TestCreate() {
	suite.mock.ExpectExec(`INSERT INTO addresses \(id, user_id, name, address, gst_number, created_at\)`).
		WithArgs(suite.row()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(suite.T(), suite.repo.Create(suite.context, suite.address))
}

func (suite *AddressRepoTestSuite) TestGetByID() {
	suite.mock.ExpectQuery(`FROM addresses\s+WHERE user_id = \$1 AND id = \$2`).
		WithArgs(suite.address.UserID, suite.address.ID).
		WillReturnRows(pgxmock.NewRows(addressCols).AddRow(suite.row()...))

	got, err := suite.repo.GetByID(suite.context, suite.address.UserID, suite.address.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.address, got)
}

func (suite *AddressRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`FROM addresses`).
		WithArgs("user_other", suite.address.ID).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, "user_other", suite.address.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *AddressRepoTestSuite) TestUpdate() {
	suite.mock.ExpectExec(`UPDATE addresses\s+SET name = \$3, address = \$4, gst_number = \$5`).
		WithArgs(suite.address.UserID, suite.address.ID, suite.address.Name, suite.address.Address, suite.address.GSTNumber).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(suite.T(), suite.repo.Update(suite.context, suite.address))

	suite.mock.ExpectExec(`UPDATE addresses`).
		WithArgs(suite.address.UserID, suite.address.ID, suite.address.Name, suite.address.Address, suite.address.GSTNumber).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(suite.T(), suite.repo.Update(suite.context, suite.address), ErrNotFound)
}

func (suite *AddressRepoTestSuite) TestDelete_NotFound() {
	suite.mock.ExpectExec(`DELETE FROM addresses WHERE user_id = \$1 AND id = \$2`).
		WithArgs(suite.address.UserID, suite.address.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(suite.T(), suite.repo.Delete(suite.context, suite.address.UserID, suite.address.ID), ErrNotFound)
}

func (suite *AddressRepoTestSuite) TestList_NewestFirst() {
	older := *suite.address
	older.ID = uuid.New()
	older.CreatedAt = suite.address.CreatedAt.Add(-24 * time.Hour)

	suite.mock.ExpectQuery(`FROM addresses\s+WHERE user_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs(suite.address.UserID).
		WillReturnRows(pgxmock.NewRows(addressCols).
			AddRow(suite.row()...).
			AddRow(older.ID, older.UserID, older.Name, older.Address, older.GSTNumber, older.CreatedAt))

	addresses, err := suite.repo.List(suite.context, suite.address.UserID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), addresses, 2)
	assert.Equal(suite.T(), suite.address.ID, addresses[0].ID)
}
