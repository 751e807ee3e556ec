package service

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/mosakai/sns-sdk/response"
	"gorm.io/gorm"
)

// Error 业务错误：携带业务状态码，handler 通过 response.FromError 映射。
// service 层只返回这里定义的错误或包装过的存储错误，不直接写 HTTP。
type Error struct {
	Code int
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// BizCode 实现 response.Coder。
func (e *Error) BizCode() int { return e.Code }

var (
	ErrSelfFollow       = &Error{response.CodeConflict, "不能关注自己"}
	ErrAlreadyFollowing = &Error{response.CodeConflict, "已经关注过了"}
	ErrNotFollowing     = &Error{response.CodeStateError, "还未关注该用户"}
	ErrAlreadyLiked     = &Error{response.CodeConflict, "已经点赞过了"}
	ErrNotLiked         = &Error{response.CodeStateError, "还未点赞"}
	ErrUserNotFound     = &Error{response.CodeNotFound, "用户不存在"}
	ErrPostNotFound     = &Error{response.CodeNotFound, "动态不存在"}
	ErrCommentNotFound  = &Error{response.CodeNotFound, "评论不存在"}
	ErrTargetDisabled   = &Error{response.CodeDisabled, "账号已被禁用"}
	ErrContentRequired  = &Error{response.CodeParamError, "内容或媒体文件不能为空"}
	ErrParentMismatch   = &Error{response.CodeParamError, "父评论不属于该动态"}
	ErrNotOwner         = &Error{response.CodeConflict, "只能操作自己发布的内容"}
)

// isDuplicateKey 判断唯一索引冲突。
// 并发创建同一条边时，输掉竞争的一方会撞唯一索引，对外表现为重复操作冲突。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
