package service

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
)

func TestFollow_CreateEdge(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	// 目标用户存在且正常
	mock.ExpectQuery("SELECT .* FROM `sns_user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(2, 0))

	mock.ExpectBegin()
	// 无历史边
	mock.ExpectQuery("SELECT .* FROM `sns_follow` WHERE follower_id = \\? AND following_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))
	mock.ExpectExec("INSERT INTO `sns_follow`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	// 两端计数同事务 +1
	mock.ExpectExec("UPDATE `sns_user` SET `following_count`=following_count \\+ \\?").
		WithArgs(1, uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `sns_user` SET `followers_count`=followers_count \\+ \\?").
		WithArgs(1, uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.Follow(1, 2); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

func TestFollow_ReactivateCancelledEdge(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	mock.ExpectQuery("SELECT .* FROM `sns_user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(2, 0))

	mock.ExpectBegin()
	// 历史边已取消，复用原行翻转状态
	mock.ExpectQuery("SELECT .* FROM `sns_follow` WHERE follower_id = \\? AND following_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(10, 1))
	mock.ExpectExec("UPDATE `sns_follow` SET `status`=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `sns_user` SET `following_count`=following_count \\+ \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `sns_user` SET `followers_count`=followers_count \\+ \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.Follow(1, 2); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

func TestFollow_AlreadyFollowing(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	mock.ExpectQuery("SELECT .* FROM `sns_user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(2, 0))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `sns_follow`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(10, 0))
	mock.ExpectRollback()

	if err := svc.Follow(1, 2); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("err = %v, 期望 ErrAlreadyFollowing", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

// 并发创建竞态：另一请求先插入成功，本请求的 INSERT 撞唯一索引，
// 收敛为 ErrAlreadyFollowing 且计数不变。
func TestFollow_DuplicateKeyRace(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	mock.ExpectQuery("SELECT .* FROM `sns_user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(2, 0))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `sns_follow`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))
	mock.ExpectExec("INSERT INTO `sns_follow`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	if err := svc.Follow(1, 2); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("err = %v, 期望 ErrAlreadyFollowing", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

// 并发复活竞态：条件 UPDATE 没改到行说明别的请求已翻转成功
func TestFollow_ReactivateRace(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	mock.ExpectQuery("SELECT .* FROM `sns_user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(2, 0))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `sns_follow`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(10, 1))
	mock.ExpectExec("UPDATE `sns_follow` SET `status`=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := svc.Follow(1, 2); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("err = %v, 期望 ErrAlreadyFollowing", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

func TestFollow_Self(t *testing.T) {
	db, _, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	if err := svc.Follow(1, 1); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("err = %v, 期望 ErrSelfFollow", err)
	}
}

func TestFollow_TargetNotFound(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	mock.ExpectQuery("SELECT .* FROM `sns_user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))

	if err := svc.Follow(1, 99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, 期望 ErrUserNotFound", err)
	}
}

func TestFollow_TargetDisabled(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	mock.ExpectQuery("SELECT .* FROM `sns_user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(2, 1))

	if err := svc.Follow(1, 2); !errors.Is(err, ErrTargetDisabled) {
		t.Fatalf("err = %v, 期望 ErrTargetDisabled", err)
	}
}

func TestUnfollow(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `sns_follow` SET `status`=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// 递减带 > 0 守卫，钳制在 0
	mock.ExpectExec("UPDATE `sns_user` SET `following_count`=following_count - \\? WHERE .*following_count > 0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `sns_user` SET `followers_count`=followers_count - \\? WHERE .*followers_count > 0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.Unfollow(1, 2); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

// 重复取关：没有活跃边可翻转，报状态错误，计数不动
func TestUnfollow_NotFollowing(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `sns_follow` SET `status`=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := svc.Unfollow(1, 2); !errors.Is(err, ErrNotFollowing) {
		t.Fatalf("err = %v, 期望 ErrNotFollowing", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

// 计数已为 0 时递减被守卫拦下，不报错只记偏差日志
func TestUnfollow_CounterClampedAtZero(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `sns_follow` SET `status`=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `sns_user` SET `following_count`=following_count - \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE `sns_user` SET `followers_count`=followers_count - \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.Unfollow(1, 2); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

func TestIsFollowing(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()
	svc := NewFollowService(newTestService(db))

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sns_follow`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	ok, err := svc.IsFollowing(1, 2)
	if err != nil {
		t.Fatalf("IsFollowing: %v", err)
	}
	if !ok {
		t.Fatal("期望 IsFollowing = true")
	}
}
