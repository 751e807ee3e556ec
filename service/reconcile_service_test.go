package service

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var reconcileCols = []string{"id", "stored", "actual"}

func TestReconcile_ReportOnly(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewReconcileService(newTestService(db))

	// 第一项（user.followers_count）发现一条偏差，其余六项干净
	mock.ExpectQuery("SELECT t.id AS id, t.followers_count AS stored").
		WillReturnRows(sqlmock.NewRows(reconcileCols).AddRow(1, 5, 3))
	mock.ExpectQuery("SELECT t.id AS id, t.following_count AS stored").
		WillReturnRows(sqlmock.NewRows(reconcileCols))
	mock.ExpectQuery("SELECT t.id AS id, t.posts_count AS stored").
		WillReturnRows(sqlmock.NewRows(reconcileCols))
	mock.ExpectQuery("SELECT t.id AS id, t.like_count AS stored, .* FROM sns_post t").
		WillReturnRows(sqlmock.NewRows(reconcileCols))
	mock.ExpectQuery("SELECT t.id AS id, t.comment_count AS stored").
		WillReturnRows(sqlmock.NewRows(reconcileCols))
	mock.ExpectQuery("SELECT t.id AS id, t.like_count AS stored, .* FROM sns_comment t").
		WillReturnRows(sqlmock.NewRows(reconcileCols))
	mock.ExpectQuery("SELECT t.id AS id, t.reply_count AS stored").
		WillReturnRows(sqlmock.NewRows(reconcileCols))

	divs, err := svc.Run(false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(divs) != 1 {
		t.Fatalf("len(divs) = %d, 期望 1", len(divs))
	}
	d := divs[0]
	if d.Entity != "user" || d.ID != 1 || d.Column != "followers_count" || d.Stored != 5 || d.Actual != 3 {
		t.Errorf("偏差 = %+v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

func TestReconcile_Repair(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewReconcileService(newTestService(db))

	mock.ExpectQuery("SELECT t.id AS id, t.followers_count AS stored").
		WillReturnRows(sqlmock.NewRows(reconcileCols).AddRow(1, 5, 3))
	// 修复带旧值条件，不覆盖对账期间的正常写入
	mock.ExpectExec("UPDATE sns_user SET followers_count = \\? WHERE id = \\? AND followers_count = \\?").
		WithArgs(int64(3), uint64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for i := 0; i < 6; i++ {
		mock.ExpectQuery("SELECT t.id AS id").
			WillReturnRows(sqlmock.NewRows(reconcileCols))
	}

	divs, err := svc.Run(true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(divs) != 1 {
		t.Fatalf("len(divs) = %d, 期望 1", len(divs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

// 对账期间计数被正常写入改动：守卫条件拦下修复，偏差仍然上报
func TestReconcile_RepairSkippedWhenChanged(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewReconcileService(newTestService(db))

	mock.ExpectQuery("SELECT t.id AS id, t.followers_count AS stored").
		WillReturnRows(sqlmock.NewRows(reconcileCols).AddRow(1, 5, 3))
	mock.ExpectExec("UPDATE sns_user SET followers_count = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	for i := 0; i < 6; i++ {
		mock.ExpectQuery("SELECT t.id AS id").
			WillReturnRows(sqlmock.NewRows(reconcileCols))
	}

	divs, err := svc.Run(true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(divs) != 1 {
		t.Fatalf("len(divs) = %d, 期望 1", len(divs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}
