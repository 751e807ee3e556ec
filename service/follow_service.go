package service

import (
	"errors"

	"github.com/mosakai/sns-sdk/models"
	"gorm.io/gorm"
)

type FollowService struct{ *Service }

func NewFollowService(s *Service) *FollowService { return &FollowService{Service: s} }

// Follow 关注用户（创建或复活边）
// 边的创建/翻转和两端计数调整在同一事务内完成；
// 并发重复关注靠 (follower_id, following_id) 唯一索引和带状态条件的 UPDATE 收敛，
// N 个并发请求只有一个激活成功，其余返回 ErrAlreadyFollowing 且不动计数。
func (s *FollowService) Follow(actorID, targetID uint64) error {
	if actorID == targetID {
		return ErrSelfFollow
	}

	// 校验目标用户
	var target models.User
	if err := s.DB.Select("id", "status").Where("id = ?", targetID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if target.Status == models.UserStatusDisabled {
		return ErrTargetDisabled
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var edge models.Follow
		err := tx.Where("follower_id = ? AND following_id = ?", actorID, targetID).First(&edge).Error
		switch {
		case err == nil:
			if edge.Status == models.EdgeStatusActive {
				return ErrAlreadyFollowing
			}
			// 复活已取消的边；状态条件保证并发下只有一个请求翻转成功
			res := tx.Model(&models.Follow{}).
				Where("id = ? AND status = ?", edge.ID, models.EdgeStatusCancelled).
				Update("status", models.EdgeStatusActive)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrAlreadyFollowing
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			edge = models.Follow{FollowerID: actorID, FollowingID: targetID, Status: models.EdgeStatusActive}
			if err := tx.Create(&edge).Error; err != nil {
				if isDuplicateKey(err) {
					return ErrAlreadyFollowing
				}
				return err
			}
		default:
			return err
		}

		if err := incCounter(tx, &models.User{}, actorID, "following_count"); err != nil {
			return err
		}
		return incCounter(tx, &models.User{}, targetID, "followers_count")
	})
}

// Unfollow 取消关注
// 要求存在活跃边，否则返回 ErrNotFollowing；翻转和双向计数递减同事务。
func (s *FollowService) Unfollow(actorID, targetID uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ? AND status = ?",
				actorID, targetID, models.EdgeStatusActive).
			Update("status", models.EdgeStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFollowing
		}

		if err := decCounter(tx, &models.User{}, actorID, "following_count"); err != nil {
			return err
		}
		return decCounter(tx, &models.User{}, targetID, "followers_count")
	})
}

// IsFollowing 是否存在活跃关注边
func (s *FollowService) IsFollowing(actorID, targetID uint64) (bool, error) {
	var cnt int64
	err := s.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ? AND status = ?",
			actorID, targetID, models.EdgeStatusActive).
		Count(&cnt).Error
	return cnt > 0, err
}
