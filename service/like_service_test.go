package service

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mosakai/sns-sdk/models"
)

func TestLike_Post(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewLikeService(newTestService(db))

	// 目标动态存在且正常
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sns_post`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `sns_like` WHERE user_id = \\? AND target_id = \\? AND target_type = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))
	mock.ExpectExec("INSERT INTO `sns_like`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	// 恰好一次 +1，与边变更同事务
	mock.ExpectExec("UPDATE `sns_post` SET `like_count`=like_count \\+ \\?").
		WithArgs(1, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.Like(1, 5, models.LikeTargetPost); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

func TestLike_Comment(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewLikeService(newTestService(db))

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sns_comment`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `sns_like`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))
	mock.ExpectExec("INSERT INTO `sns_like`").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec("UPDATE `sns_comment` SET `like_count`=like_count \\+ \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.Like(1, 3, models.LikeTargetComment); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

func TestLike_AlreadyLiked(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewLikeService(newTestService(db))

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sns_post`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `sns_like`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(7, 0))
	mock.ExpectRollback()

	if err := svc.Like(1, 5, models.LikeTargetPost); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("err = %v, 期望 ErrAlreadyLiked", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

// 软删除的动态视同不存在，不能点赞
func TestLike_TargetDeleted(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewLikeService(newTestService(db))

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sns_post`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	if err := svc.Like(1, 5, models.LikeTargetPost); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("err = %v, 期望 ErrPostNotFound", err)
	}
}

func TestLike_UnsupportedTargetType(t *testing.T) {
	db, _, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewLikeService(newTestService(db))

	err := svc.Like(1, 5, "user")
	if err == nil {
		t.Fatal("期望参数错误")
	}
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrContentRequired.Code {
		t.Fatalf("err = %v, 期望参数错误码", err)
	}
}

func TestUnlike(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewLikeService(newTestService(db))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `sns_like` SET `status`=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `sns_post` SET `like_count`=like_count - \\? WHERE .*like_count > 0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.Unlike(1, 5, models.LikeTargetPost); err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

func TestUnlike_NotLiked(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewLikeService(newTestService(db))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `sns_like` SET `status`=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := svc.Unlike(1, 5, models.LikeTargetPost); !errors.Is(err, ErrNotLiked) {
		t.Fatalf("err = %v, 期望 ErrNotLiked", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

// 目标行已不在（或计数已为 0）时取消点赞仍然提交，只跳过递减
func TestUnlike_TargetGoneSkipsDecrement(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewLikeService(newTestService(db))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `sns_like` SET `status`=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `sns_post` SET `like_count`=like_count - \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := svc.Unlike(1, 5, models.LikeTargetPost); err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

func TestLikedTargetIDs(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewLikeService(newTestService(db))

	mock.ExpectQuery("SELECT `target_id` FROM `sns_like`").
		WillReturnRows(sqlmock.NewRows([]string{"target_id"}).AddRow(5).AddRow(9))

	got, err := svc.LikedTargetIDs(1, []uint64{5, 6, 9}, models.LikeTargetPost)
	if err != nil {
		t.Fatalf("LikedTargetIDs: %v", err)
	}
	if _, ok := got[5]; !ok {
		t.Error("期望 5 被点赞")
	}
	if _, ok := got[6]; ok {
		t.Error("6 不应被标注为点赞")
	}
	if _, ok := got[9]; !ok {
		t.Error("期望 9 被点赞")
	}
}

// 匿名访客不查库，直接返回空集合
func TestLikedTargetIDs_Anonymous(t *testing.T) {
	db, _, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewLikeService(newTestService(db))

	got, err := svc.LikedTargetIDs(0, []uint64{5, 6}, models.LikeTargetPost)
	if err != nil {
		t.Fatalf("LikedTargetIDs: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("期望空集合, got %v", got)
	}
}
