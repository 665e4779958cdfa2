package repositories

import (
	"context"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CommitmentRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    CommitmentRepository
	context context.Context
}

func (suite *CommitmentRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewCommitmentRepo(mock)
	suite.context = context.Background()
}

func (suite *CommitmentRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestCommitmentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CommitmentRepoTestSuite))
}

const ledgerSKU = "ST-32-S-30-STA"

func ledgerColumns() []string {
	return []string{"sku", "committed_quantity", "uncommitted_quantity", "updated_at"}
}

func (suite *CommitmentRepoTestSuite) TestGet_MissingRowIsNil() {
	suite.mock.ExpectQuery(`FROM sku_commitments`).
		WithArgs(ledgerSKU).
		WillReturnRows(pgxmock.NewRows(ledgerColumns()))

	c, err := suite.repo.Get(suite.context, ledgerSKU)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), c)
}

func (suite *CommitmentRepoTestSuite) TestApplyDelta_PositiveInsertsRow() {
	suite.mock.ExpectQuery(`INSERT INTO sku_commitments`).
		WithArgs(ledgerSKU, 0, 3).
		WillReturnRows(pgxmock.NewRows(ledgerColumns()).
			AddRow(ledgerSKU, 0, 3, time.Now()))

	c, err := suite.repo.ApplyDelta(suite.context, ledgerSKU, 0, 3)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, c.Uncommitted)
}

func (suite *CommitmentRepoTestSuite) TestApplyDelta_CommitMovesQuantities() {
	suite.mock.ExpectQuery(`FROM sku_commitments`).
		WithArgs(ledgerSKU).
		WillReturnRows(pgxmock.NewRows(ledgerColumns()).
			AddRow(ledgerSKU, 0, 3, time.Now()))
	suite.mock.ExpectQuery(`INSERT INTO sku_commitments`).
		WithArgs(ledgerSKU, 1, -1).
		WillReturnRows(pgxmock.NewRows(ledgerColumns()).
			AddRow(ledgerSKU, 1, 2, time.Now()))

	c, err := suite.repo.ApplyDelta(suite.context, ledgerSKU, 1, -1)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, c.Committed)
	assert.Equal(suite.T(), 2, c.Uncommitted)
}

func (suite *CommitmentRepoTestSuite) TestApplyDelta_UnderflowRejected() {
	suite.mock.ExpectQuery(`FROM sku_commitments`).
		WithArgs(ledgerSKU).
		WillReturnRows(pgxmock.NewRows(ledgerColumns()).
			AddRow(ledgerSKU, 0, 0, time.Now()))
	// The guarded upsert updates nothing, so RETURNING yields no row.
	suite.mock.ExpectQuery(`INSERT INTO sku_commitments`).
		WithArgs(ledgerSKU, 1, -1).
		WillReturnError(pgx.ErrNoRows)

	c, err := suite.repo.ApplyDelta(suite.context, ledgerSKU, 1, -1)
	assert.Nil(suite.T(), c)
	assert.ErrorIs(suite.T(), err, ErrLedgerUnderflow)
}

func (suite *CommitmentRepoTestSuite) TestApplyDelta_NegativeOnMissingRowRejected() {
	suite.mock.ExpectQuery(`FROM sku_commitments`).
		WithArgs(ledgerSKU).
		WillReturnRows(pgxmock.NewRows(ledgerColumns()))

	c, err := suite.repo.ApplyDelta(suite.context, ledgerSKU, -1, 0)
	assert.Nil(suite.T(), c)
	assert.ErrorIs(suite.T(), err, ErrLedgerUnderflow)
}
