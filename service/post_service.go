package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mosakai/sns-sdk/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PostService struct {
	*Service
	userDao *models.UserDAO
	likes   *LikeService
}

func NewPostService(s *Service, likes *LikeService) *PostService {
	return &PostService{Service: s, userDao: models.NewUserDAO(s.DB), likes: likes}
}

const (
	maxPageSize     = 50
	defaultFeedSize = 10
)

// normalizePage 统一分页口径：page 从 1 起，pageSize 超过 50 钳制到 50。
func normalizePage(page, pageSize, def int) (offset, limit, pageOut int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = def
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return (page - 1) * pageSize, pageSize, page
}

// MediaItem 动态媒体项
type MediaItem struct {
	Type     string `json:"type"` // image/video/audio
	URL      string `json:"url"`
	Size     int64  `json:"size,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

// LocationReq 发布位置
type LocationReq struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreatePostReq 发布动态请求
type CreatePostReq struct {
	Content    string       `json:"content"`    // 最长2000字，可为空（有媒体时）
	Media      []MediaItem  `json:"media"`      // 最多9个
	Topics     []string     `json:"topics"`     // 最多5个
	Location   *LocationReq `json:"location"`
	Visibility uint8        `json:"visibility"` // 1-公开 2-粉丝可见 3-仅自己，默认公开
}

// AuthorDTO 作者摘要
type AuthorDTO struct {
	ID       uint64 `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// PostDTO 动态
type PostDTO struct {
	ID           uint64      `json:"id"`
	UserID       uint64      `json:"user_id"`
	Author       AuthorDTO   `json:"author"`
	Content      string      `json:"content"`
	Media        []MediaItem `json:"media"`
	Topics       []string    `json:"topics"`
	LocationName string      `json:"location_name,omitempty"`
	Visibility   uint8       `json:"visibility"`
	LikeCount    uint64      `json:"like_count"`
	CommentCount uint64      `json:"comment_count"`
	ShareCount   uint64      `json:"share_count"`
	ViewCount    uint64      `json:"view_count"`
	IsLiked      bool        `json:"isLiked"`
	CreatedAt    time.Time   `json:"created_at"`
	CreatedText  string      `json:"created_text"` // 相对时间文案，请求时实时计算，不缓存
}

// Pagination 分页信息
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int64 `json:"totalPages"`
}

// FeedResp 动态流响应
type FeedResp struct {
	List       []PostDTO  `json:"list"`
	Pagination Pagination `json:"pagination"`
}

// relativeTimeLabel 相对时间文案，(now, t) 的纯函数：
// 刚刚 / N分钟前 / N小时前 / N天前 / "月-日"
func relativeTimeLabel(now, t time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "刚刚"
	case diff < time.Hour:
		return fmt.Sprintf("%d分钟前", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d小时前", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d天前", int(diff/(24*time.Hour)))
	default:
		return fmt.Sprintf("%d-%d", int(t.Month()), t.Day())
	}
}

func toPostDTO(p models.Post, now time.Time) PostDTO {
	dto := PostDTO{
		ID:           p.ID,
		UserID:       p.UserID,
		Content:      p.Content,
		LocationName: p.LocationName,
		Visibility:   p.Visibility,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		ShareCount:   p.ShareCount,
		ViewCount:    p.ViewCount,
		CreatedAt:    p.CreatedAt,
		CreatedText:  relativeTimeLabel(now, p.CreatedAt),
	}
	if len(p.Media) > 0 {
		_ = json.Unmarshal(p.Media, &dto.Media)
	}
	if len(p.Topics) > 0 {
		_ = json.Unmarshal(p.Topics, &dto.Topics)
	}
	return dto
}

// CreatePost 发布动态
// 文本与媒体至少提供一项；发布和 posts_count +1 同事务。
func (s *PostService) CreatePost(ownerID uint64, req CreatePostReq) (*PostDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.Media) == 0 {
		return nil, ErrContentRequired
	}
	if len(req.Media) > 9 {
		return nil, &Error{Code: ErrContentRequired.Code, Msg: "最多9个媒体文件"}
	}
	if len(req.Topics) > 5 {
		return nil, &Error{Code: ErrContentRequired.Code, Msg: "最多5个话题"}
	}
	if req.Visibility == 0 {
		req.Visibility = models.VisibilityPublic
	}
	if req.Visibility > models.VisibilityPrivate {
		return nil, &Error{Code: ErrContentRequired.Code, Msg: "无效的可见性"}
	}

	post := models.Post{
		UserID:     ownerID,
		Content:    content,
		Visibility: req.Visibility,
	}
	if len(req.Media) > 0 {
		b, err := json.Marshal(req.Media)
		if err != nil {
			return nil, err
		}
		post.Media = datatypes.JSON(b)
	}
	if len(req.Topics) > 0 {
		b, err := json.Marshal(req.Topics)
		if err != nil {
			return nil, err
		}
		post.Topics = datatypes.JSON(b)
	}
	if req.Location != nil {
		post.LocationName = strings.TrimSpace(req.Location.Name)
		post.LocationAddress = strings.TrimSpace(req.Location.Address)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return incCounter(tx, &models.User{}, ownerID, "posts_count")
	})
	if err != nil {
		return nil, err
	}

	dto := toPostDTO(post, time.Now())
	return &dto, nil
}

// DeletePost 删除动态（软删除）
// 只有发布者本人可删；状态翻转和 posts_count 回退同事务。
func (s *PostService) DeletePost(actorID, postID uint64) error {
	var post models.Post
	if err := s.DB.Select("id", "user_id", "status").Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.Status == models.ContentStatusDeleted {
		return ErrPostNotFound
	}
	if post.UserID != actorID {
		return ErrNotOwner
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ? AND status <> ?", postID, models.ContentStatusDeleted).
			Update("status", models.ContentStatusDeleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return decCounter(tx, &models.User{}, post.UserID, "posts_count")
	})
}

// GetFeed 动态流
// 正常状态且（公开 或 自己发布）的动态，时间倒序分页；
// 已登录访问者批量标注 isLiked，匿名访问者只看公开且 isLiked 恒为 false。
func (s *PostService) GetFeed(viewer Viewer, page, pageSize int) (*FeedResp, error) {
	offset, limit, page := normalizePage(page, pageSize, defaultFeedSize)

	q := s.DB.Model(&models.Post{}).Where("status = ?", models.ContentStatusNormal)
	if viewer.Anonymous {
		q = q.Where("visibility = ?", models.VisibilityPublic)
	} else {
		q = q.Where("visibility = ? OR user_id = ?", models.VisibilityPublic, viewer.ID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []models.Post
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}

	resp := &FeedResp{
		List: make([]PostDTO, 0, len(posts)),
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			PageSize:   limit,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		},
	}
	if len(posts) == 0 {
		return resp, nil
	}

	postIDs := make([]uint64, len(posts))
	authorIDs := make([]uint64, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		authorIDs[i] = p.UserID
	}

	authors, err := s.userDao.FindSummaries(authorIDs)
	if err != nil {
		return nil, err
	}

	liked := map[uint64]struct{}{}
	if !viewer.Anonymous {
		liked, err = s.likes.LikedTargetIDs(viewer.ID, postIDs, models.LikeTargetPost)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	for _, p := range posts {
		dto := toPostDTO(p, now)
		if a, ok := authors[p.UserID]; ok {
			dto.Author = AuthorDTO{ID: a.ID, Nickname: a.Nickname, Avatar: a.Avatar}
		}
		_, dto.IsLiked = liked[p.ID]
		resp.List = append(resp.List, dto)
	}
	return resp, nil
}
