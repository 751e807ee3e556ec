package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// UserDAO 封装 User 相关的数据库操作
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

func (dao *UserDAO) Create(user *User) error {
	return dao.db.Create(user).Error
}

func (dao *UserDAO) FindByID(id uint64) (*User, error) {
	var u User
	if err := dao.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (dao *UserDAO) FindByUID(uid string) (*User, error) {
	var u User
	if err := dao.db.Where("uid = ?", uid).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (dao *UserDAO) FindByUsername(username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var u User
	if err := dao.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (dao *UserDAO) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := dao.db.Model(&User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (dao *UserDAO) UpdateFields(id uint64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dao.db.Model(&User{}).Where("id = ?", id).Updates(updates).Error
}

// FindSummaries 批量查用户摘要（id/nickname/avatar），供动态/评论列表拼装作者信息。
func (dao *UserDAO) FindSummaries(ids []uint64) (map[uint64]User, error) {
	out := make(map[uint64]User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []User
	if err := dao.db.Select("id", "nickname", "avatar").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (dao *UserDAO) IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
