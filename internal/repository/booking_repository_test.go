package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/sevahub/home-services/internal/model"
)

func TestBookingRepo_FindByIdempotencyKey_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepo(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(uint64(7), "key-1").
		WillReturnError(sql.ErrNoRows)

	b, err := repo.FindByIdempotencyKey(ctx, 7, "key-1")
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestBookingRepo_FindActiveAtSlot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepo(db)
	ctx := context.Background()
	slot := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM bookings").
			WithArgs(uint64(7), slot).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(33))

		id, err := repo.FindActiveAtSlot(ctx, 7, slot)
		assert.NoError(t, err)
		assert.Equal(t, uint64(33), id)
	})

	t.Run("None", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM bookings").
			WithArgs(uint64(7), slot).
			WillReturnError(sql.ErrNoRows)

		id, err := repo.FindActiveAtSlot(ctx, 7, slot)
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), id)
	})
}

func TestBookingRepo_CountCreatedSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepo(db)
	since := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WithArgs(uint64(7), since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountCreatedSince(context.Background(), 7, since)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestBookingRepo_CreateTx_DuplicateKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepo(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	key := "key-1"
	b := &model.Booking{
		UserID:         7,
		SlotTime:       time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC),
		Status:         model.BookingStatusConfirmed,
		IdempotencyKey: &key,
		Addons:         []string{},
	}
	err = repo.CreateTx(ctx, tx, b)
	assert.ErrorIs(t, err, ErrIdempotencyReplay)
}

func TestBookingRepo_CreateTx_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepo(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))

	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	b := &model.Booking{
		UserID:   7,
		SlotTime: time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC),
		Status:   model.BookingStatusAssigned,
		Addons:   []string{"deep clean"},
	}
	err = repo.CreateTx(ctx, tx, b)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), b.ID)
	assert.False(t, b.CreatedAt.IsZero())
}
