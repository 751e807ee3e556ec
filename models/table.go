package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	prefix = "sns_"
)

// 账号状态
const (
	UserStatusNormal   = 0
	UserStatusDisabled = 1
)

// User 用户表
// 三个 *_count 字段是活跃边的冗余计数，只允许存储层随边/内容变更原子调整，
// 应用层不得自行读改写。
type User struct {
	ID             uint64 `gorm:"primarykey"`
	UID            string `gorm:"size:36;uniqueIndex;not null"` // 对外用户 ID
	Username       string `gorm:"size:50;uniqueIndex;not null"` // 用户名
	Nickname       string `gorm:"size:100;not null"`            // 昵称
	Password       string `gorm:"size:255;not null"`            // 密码
	Avatar         string `gorm:"size:500"`                     // 头像
	Bio            string `gorm:"size:500"`                     // 个人简介
	Gender         uint8  `gorm:"type:tinyint;default:0"`       // 性别: 0-未知 1-男 2-女
	FollowersCount uint64 `gorm:"default:0"`                    // 粉丝数（冗余）
	FollowingCount uint64 `gorm:"default:0"`                    // 关注数（冗余）
	PostsCount     uint64 `gorm:"default:0"`                    // 动态数（冗余）
	Status         uint8  `gorm:"type:tinyint;default:0"`       // 状态: 0-正常 1-禁用
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`

	// 关联关系
	Posts     []Post    `gorm:"foreignKey:UserID"`
	Following []Follow  `gorm:"foreignKey:FollowerID"`
	Followers []Follow  `gorm:"foreignKey:FollowingID"`
	Comments  []Comment `gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return prefix + "user"
}

// 边状态（关注/点赞通用）
// 边只翻转状态，永不物理删除，保留完整历史。
const (
	EdgeStatusActive    = 0
	EdgeStatusCancelled = 1
)

// Follow 关注关系表
// (follower_id, following_id) 全历史唯一，重新关注复用原行。
type Follow struct {
	ID          uint64 `gorm:"primarykey"`
	FollowerID  uint64 `gorm:"index:idx_follower_following,unique;not null"` // 关注者 ID
	FollowingID uint64 `gorm:"index:idx_follower_following,unique;not null"` // 被关注者 ID
	Status      uint8  `gorm:"type:tinyint;default:0"`                       // 状态: 0-关注中 1-已取消
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// 关联关系
	Follower  User `gorm:"foreignKey:FollowerID"`
	Following User `gorm:"foreignKey:FollowingID"`
}

func (Follow) TableName() string {
	return prefix + "follow"
}

// 点赞目标类型
const (
	LikeTargetPost    = "post"
	LikeTargetComment = "comment"
)

// Like 点赞表（动态或评论）
// (user_id, target_id, target_type) 全历史唯一，重新点赞复用原行。
type Like struct {
	ID         uint64 `gorm:"primarykey"`
	UserID     uint64 `gorm:"index:idx_user_target,unique;not null"`         // 点赞用户 ID
	TargetID   uint64 `gorm:"index:idx_user_target,unique;not null"`         // 目标 ID
	TargetType string `gorm:"index:idx_user_target,unique;size:10;not null"` // 目标类型: post/comment
	Status     uint8  `gorm:"type:tinyint;default:0"`                        // 状态: 0-点赞中 1-已取消
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// 关联关系
	User User `gorm:"foreignKey:UserID"`
}

func (Like) TableName() string {
	return prefix + "like"
}

// 内容状态（动态/评论通用）
const (
	ContentStatusNormal      = 0
	ContentStatusDeleted     = 1
	ContentStatusUnderReview = 2
	ContentStatusViolating   = 3
)

// 动态可见性
const (
	VisibilityPublic    = 1
	VisibilityFollowers = 2
	VisibilityPrivate   = 3
)

// Post 动态表
// 内容软删除：status 翻转，行不删。计数字段只随边/内容变更在同事务内调整。
type Post struct {
	ID              uint64         `gorm:"primarykey"`
	UserID          uint64         `gorm:"index:idx_user_status;not null"` // 发布者
	Content         string         `gorm:"type:text"`                      // 文本内容（与媒体至少有一项）
	Media           datatypes.JSON `gorm:"type:json"`                      // 媒体列表（最多9个）
	Topics          datatypes.JSON `gorm:"type:json"`                      // 话题标签（最多5个）
	LocationName    string         `gorm:"size:100"`
	LocationAddress string         `gorm:"size:200"`
	Visibility      uint8          `gorm:"type:tinyint;index;default:1"`                        // 可见性: 1-公开 2-粉丝可见 3-仅自己
	LikeCount       uint64         `gorm:"default:0"`                                           // 点赞数（冗余）
	CommentCount    uint64         `gorm:"default:0"`                                           // 评论数（冗余，含回复）
	ShareCount      uint64         `gorm:"default:0"`                                           // 分享数（冗余）
	ViewCount       uint64         `gorm:"default:0"`                                           // 浏览数（冗余）
	Status          uint8          `gorm:"type:tinyint;index:idx_user_status;index;default:0"` // 状态: 0-正常 1-删除 2-审核中 3-违规
	CreatedAt       time.Time      `gorm:"index"`
	UpdatedAt       time.Time

	// 关联关系
	User     User      `gorm:"foreignKey:UserID"`
	Comments []Comment `gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return prefix + "post"
}

// Comment 评论表
// 二级评论通过 ParentID 指向父评论；父评论必须属于同一条动态。
type Comment struct {
	ID            uint64  `gorm:"primarykey"`
	PostID        uint64  `gorm:"index:idx_post_status;not null"` // 所属动态
	UserID        uint64  `gorm:"index;not null"`                 // 评论者
	ParentID      *uint64 `gorm:"index"`                          // nil 为顶级评论
	ReplyToUserID *uint64 // 回复的目标用户（展示用）
	Content       string  `gorm:"type:text;not null"`
	LikeCount     uint64  `gorm:"default:0"`                                           // 点赞数（冗余）
	ReplyCount    uint64  `gorm:"default:0"`                                           // 回复数（冗余，仅顶级评论维护）
	Status        uint8   `gorm:"type:tinyint;index:idx_post_status;index;default:0"` // 状态: 同 Post
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// 关联关系
	Post   Post     `gorm:"foreignKey:PostID"`
	User   User     `gorm:"foreignKey:UserID"`
	Parent *Comment `gorm:"foreignKey:ParentID"`
}

func (Comment) TableName() string {
	return prefix + "comment"
}
