package service

import (
	"errors"

	"github.com/mosakai/sns-sdk/models"
	"gorm.io/gorm"
)

type LikeService struct{ *Service }

func NewLikeService(s *Service) *LikeService { return &LikeService{Service: s} }

// likeTarget 点赞目标的模型与计数信息
func likeTarget(targetType string) (model any, notFound *Error, ok bool) {
	switch targetType {
	case models.LikeTargetPost:
		return &models.Post{}, ErrPostNotFound, true
	case models.LikeTargetComment:
		return &models.Comment{}, ErrCommentNotFound, true
	default:
		return nil, nil, false
	}
}

// Like 点赞动态或评论（创建或复活边）
// 与 Follow 同一套切换语义，按 (user_id, target_id, target_type) 三元组收敛；
// 每次激活恰好给目标 like_count +1，与边变更同事务。
func (s *LikeService) Like(actorID, targetID uint64, targetType string) error {
	model, notFound, ok := likeTarget(targetType)
	if !ok {
		return &Error{Code: ErrContentRequired.Code, Msg: "不支持的点赞目标类型"}
	}

	// 目标必须存在且处于正常状态（软删除视同不存在）
	var cnt int64
	if err := s.DB.Model(model).
		Where("id = ? AND status = ?", targetID, models.ContentStatusNormal).
		Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return notFound
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var edge models.Like
		err := tx.Where("user_id = ? AND target_id = ? AND target_type = ?",
			actorID, targetID, targetType).First(&edge).Error
		switch {
		case err == nil:
			if edge.Status == models.EdgeStatusActive {
				return ErrAlreadyLiked
			}
			res := tx.Model(&models.Like{}).
				Where("id = ? AND status = ?", edge.ID, models.EdgeStatusCancelled).
				Update("status", models.EdgeStatusActive)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrAlreadyLiked
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			edge = models.Like{UserID: actorID, TargetID: targetID, TargetType: targetType, Status: models.EdgeStatusActive}
			if err := tx.Create(&edge).Error; err != nil {
				if isDuplicateKey(err) {
					return ErrAlreadyLiked
				}
				return err
			}
		default:
			return err
		}

		return incCounter(tx, model, targetID, "like_count")
	})
}

// Unlike 取消点赞
// 要求存在活跃边，否则返回 ErrNotLiked。目标行已不存在时跳过计数递减
// （decCounter 内记录偏差），边的翻转仍然提交。
func (s *LikeService) Unlike(actorID, targetID uint64, targetType string) error {
	model, _, ok := likeTarget(targetType)
	if !ok {
		return &Error{Code: ErrContentRequired.Code, Msg: "不支持的点赞目标类型"}
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Like{}).
			Where("user_id = ? AND target_id = ? AND target_type = ? AND status = ?",
				actorID, targetID, targetType, models.EdgeStatusActive).
			Update("status", models.EdgeStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotLiked
		}

		return decCounter(tx, model, targetID, "like_count")
	})
}

// LikedTargetIDs 批量查用户对一组目标的活跃点赞，返回被点赞的目标 ID 集合。
// 动态/评论列表用它标注 isLiked。
func (s *LikeService) LikedTargetIDs(userID uint64, targetIDs []uint64, targetType string) (map[uint64]struct{}, error) {
	out := make(map[uint64]struct{}, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return out, nil
	}
	var ids []uint64
	if err := s.DB.Model(&models.Like{}).
		Where("user_id = ? AND target_id IN ? AND target_type = ? AND status = ?",
			userID, targetIDs, targetType, models.EdgeStatusActive).
		Pluck("target_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}
