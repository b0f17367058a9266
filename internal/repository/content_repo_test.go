package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFindActiveByFingerprintExcludesID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepo(db)

	exclude := uint64(9)
	mock.ExpectQuery("SELECT \\* FROM `content_items` WHERE fingerprint = \\? AND status = \\? AND id <> \\?").
		WithArgs("fuji|giảm", "active", exclude).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "fingerprint", "status"}).
			AddRow(3, "Táo Fuji giảm giá", "fuji|giảm", "active"))

	items, err := repo.FindActiveByFingerprint(context.Background(), "fuji|giảm", &exclude)
	if err != nil {
		t.Fatalf("FindActiveByFingerprint returned error: %v", err)
	}
	if len(items) != 1 || items[0].ID != 3 {
		t.Fatalf("unexpected items %+v", items)
	}
	expectationsMet(t, mock)
}

func TestFindActiveByEmptyFingerprintSkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepo(db)

	items, err := repo.FindActiveByFingerprint(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("FindActiveByFingerprint returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
	expectationsMet(t, mock)
}

func TestListRecentActiveOrdersByCreatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepo(db)

	mock.ExpectQuery("WHERE status = \\? ORDER BY created_at DESC LIMIT").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2).AddRow(1))

	items, err := repo.ListRecentActive(context.Background(), 100, nil)
	if err != nil || len(items) != 2 {
		t.Fatalf("ListRecentActive = %d items, %v", len(items), err)
	}
	expectationsMet(t, mock)
}
