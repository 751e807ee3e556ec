package service

import (
	"errors"
	"strings"
	"time"

	"github.com/mosakai/sns-sdk/models"
	"gorm.io/gorm"
)

type CommentService struct {
	*Service
	userDao *models.UserDAO
	likes   *LikeService
}

func NewCommentService(s *Service, likes *LikeService) *CommentService {
	return &CommentService{Service: s, userDao: models.NewUserDAO(s.DB), likes: likes}
}

const defaultCommentSize = 20

// CreateCommentReq 发表评论请求
type CreateCommentReq struct {
	PostID        uint64  `json:"post_id" binding:"required"`
	Content       string  `json:"content" binding:"required"`
	ParentID      *uint64 `json:"parent_id"`        // 指定时为二级回复
	ReplyToUserID *uint64 `json:"reply_to_user_id"` // 回复的目标用户（展示用）
}

// CommentDTO 评论
type CommentDTO struct {
	ID            uint64     `json:"id"`
	PostID        uint64     `json:"post_id"`
	UserID        uint64     `json:"user_id"`
	Author        AuthorDTO  `json:"author"`
	ParentID      *uint64    `json:"parent_id,omitempty"`
	ReplyToUser   *AuthorDTO `json:"reply_to_user,omitempty"`
	Content       string     `json:"content"`
	LikeCount     uint64     `json:"like_count"`
	ReplyCount    uint64     `json:"reply_count"`
	IsLiked       bool       `json:"isLiked"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CommentListResp 评论列表响应
type CommentListResp struct {
	List       []CommentDTO `json:"list"`
	Pagination Pagination   `json:"pagination"`
}

func toCommentDTO(c models.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID,
		PostID:     c.PostID,
		UserID:     c.UserID,
		ParentID:   c.ParentID,
		Content:    c.Content,
		LikeCount:  c.LikeCount,
		ReplyCount: c.ReplyCount,
		CreatedAt:  c.CreatedAt,
	}
}

// CreateComment 发表评论或回复
// 动态必须存在且正常；父评论必须存在、正常且属于同一条动态（跨动态回复直接拒绝）。
// 评论写入、动态 comment_count +1、父评论 reply_count +1（仅回复时）同事务。
func (s *CommentService) CreateComment(authorID uint64, req CreateCommentReq) (*CommentDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, &Error{Code: ErrContentRequired.Code, Msg: "评论内容不能为空"}
	}

	var postCnt int64
	if err := s.DB.Model(&models.Post{}).
		Where("id = ? AND status = ?", req.PostID, models.ContentStatusNormal).
		Count(&postCnt).Error; err != nil {
		return nil, err
	}
	if postCnt == 0 {
		return nil, ErrPostNotFound
	}

	if req.ParentID != nil {
		var parent models.Comment
		if err := s.DB.Select("id", "post_id", "status").
			Where("id = ?", *req.ParentID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if parent.Status != models.ContentStatusNormal {
			return nil, ErrCommentNotFound
		}
		if parent.PostID != req.PostID {
			return nil, ErrParentMismatch
		}
	}

	comment := models.Comment{
		PostID:        req.PostID,
		UserID:        authorID,
		ParentID:      req.ParentID,
		ReplyToUserID: req.ReplyToUserID,
		Content:       content,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		// 顶级评论和回复都计入动态的 comment_count
		if err := incCounter(tx, &models.Post{}, req.PostID, "comment_count"); err != nil {
			return err
		}
		if req.ParentID != nil {
			return incCounter(tx, &models.Comment{}, *req.ParentID, "reply_count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toCommentDTO(comment)
	return &dto, nil
}

// DeleteComment 删除评论（软删除）
// 只有评论者本人可删；回退动态 comment_count，回复还要回退父评论 reply_count。
func (s *CommentService) DeleteComment(actorID, commentID uint64) error {
	var comment models.Comment
	if err := s.DB.Select("id", "post_id", "user_id", "parent_id", "status").
		Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.Status == models.ContentStatusDeleted {
		return ErrCommentNotFound
	}
	if comment.UserID != actorID {
		return ErrNotOwner
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Comment{}).
			Where("id = ? AND status <> ?", commentID, models.ContentStatusDeleted).
			Update("status", models.ContentStatusDeleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCommentNotFound
		}
		if err := decCounter(tx, &models.Post{}, comment.PostID, "comment_count"); err != nil {
			return err
		}
		if comment.ParentID != nil {
			return decCounter(tx, &models.Comment{}, *comment.ParentID, "reply_count")
		}
		return nil
	})
}

// GetComments 获取动态的顶级评论（时间倒序分页）
func (s *CommentService) GetComments(viewer Viewer, postID uint64, page, pageSize int) (*CommentListResp, error) {
	q := s.DB.Model(&models.Comment{}).
		Where("post_id = ? AND status = ? AND parent_id IS NULL", postID, models.ContentStatusNormal)
	return s.listComments(viewer, q, page, pageSize)
}

// GetReplies 获取某条评论下的回复（与顶级评论同样的分页钳制和排序规则）
func (s *CommentService) GetReplies(viewer Viewer, parentID uint64, page, pageSize int) (*CommentListResp, error) {
	q := s.DB.Model(&models.Comment{}).
		Where("parent_id = ? AND status = ?", parentID, models.ContentStatusNormal)
	return s.listComments(viewer, q, page, pageSize)
}

func (s *CommentService) listComments(viewer Viewer, q *gorm.DB, page, pageSize int) (*CommentListResp, error) {
	offset, limit, page := normalizePage(page, pageSize, defaultCommentSize)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&comments).Error; err != nil {
		return nil, err
	}

	resp := &CommentListResp{
		List: make([]CommentDTO, 0, len(comments)),
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			PageSize:   limit,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		},
	}
	if len(comments) == 0 {
		return resp, nil
	}

	commentIDs := make([]uint64, 0, len(comments))
	userIDs := make([]uint64, 0, len(comments)*2)
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
		userIDs = append(userIDs, c.UserID)
		if c.ReplyToUserID != nil {
			userIDs = append(userIDs, *c.ReplyToUserID)
		}
	}

	users, err := s.userDao.FindSummaries(userIDs)
	if err != nil {
		return nil, err
	}

	liked := map[uint64]struct{}{}
	if !viewer.Anonymous {
		liked, err = s.likes.LikedTargetIDs(viewer.ID, commentIDs, models.LikeTargetComment)
		if err != nil {
			return nil, err
		}
	}

	for _, c := range comments {
		dto := toCommentDTO(c)
		if u, ok := users[c.UserID]; ok {
			dto.Author = AuthorDTO{ID: u.ID, Nickname: u.Nickname, Avatar: u.Avatar}
		}
		if c.ReplyToUserID != nil {
			if u, ok := users[*c.ReplyToUserID]; ok {
				dto.ReplyToUser = &AuthorDTO{ID: u.ID, Nickname: u.Nickname, Avatar: u.Avatar}
			}
		}
		_, dto.IsLiked = liked[c.ID]
		resp.List = append(resp.List, dto)
	}
	return resp, nil
}
