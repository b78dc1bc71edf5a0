package donations

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
)

var donationColumns = []string{"id", "participant_email", "donation_date", "amount", "first_name", "last_name"}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRepository) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool, NewPostgresRepository(mockPool)
}

func strPtr(s string) *string { return &s }

func TestListJoinsParticipantNames(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	date := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM donations d LEFT JOIN participants p ON p.email = d.participant_email ORDER BY d.donation_date DESC, d.id DESC")).
		WillReturnRows(pgxmock.NewRows(donationColumns).
			AddRow(int64(2), "ana@example.com", date, 50.0, strPtr("Ana"), strPtr("Lopez")).
			AddRow(int64(1), "anon@example.com", date, 10.0, nil, nil))

	list, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana Lopez", list[0].DonorName())
	assert.Empty(t, list[1].DonorName())
	assert.InDelta(t, 10.0, list[1].Amount, 0.001)
}

func TestListByEmailFilters(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE d.participant_email = $1")).
		WithArgs("ana@example.com").
		WillReturnRows(pgxmock.NewRows(donationColumns))

	list, err := repo.ListByEmail(context.Background(), "ana@example.com")

	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCreateReturnsID(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	date := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO donations (participant_email,donation_date,amount) VALUES ($1,$2,$3) RETURNING id")).
		WithArgs("ana@example.com", date, 25.5).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := repo.Create(context.Background(), models.Donation{ParticipantEmail: "ana@example.com", DonationDate: date, Amount: 25.5})

	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestUpdateMissing(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	mockPool.ExpectExec(regexp.QuoteMeta("UPDATE donations SET amount = $1, donation_date = $2, participant_email = $3 WHERE id = $4")).
		WithArgs(1.0, pgxmock.AnyArg(), "a@example.com", int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), models.Donation{ID: 5, ParticipantEmail: "a@example.com", Amount: 1})

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
