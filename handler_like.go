package sns_sdk

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	model "github.com/mosakai/sns-sdk/models"
	"github.com/mosakai/sns-sdk/response"
)

// -------------------- 点赞（Like）相关接口 --------------------

type LikeReq struct {
	TargetID   uint64 `json:"target_id" binding:"required" example:"1"`
	TargetType string `json:"target_type" binding:"required" example:"post"` // post/comment
}

// GinHandleLike 点赞
// @Summary 点赞动态或评论
// @Description 创建或复活点赞边，目标 like_count 同事务 +1；重复点赞返回冲突
// @Tags 点赞
// @Accept json
// @Produce json
// @Param req body LikeReq true "点赞目标"
// @Success 200 {object} response.Response "点赞成功"
// @Failure 400 {object} response.Response "参数错误"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /like [post]
func (c *SocialEngine) GinHandleLike(ctx *gin.Context) {
	var req LikeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	uid, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id not found"))
		return
	}

	if err := c.LikeService.Like(uid.(uint64), req.TargetID, req.TargetType); err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil, "点赞成功"))
}

// GinHandleUnlike 取消点赞
// @Summary 取消点赞
// @Description 要求存在活跃点赞边；目标已被删除时只翻转边、跳过计数
// @Tags 点赞
// @Produce json
// @Param target_id query uint64 true "目标ID"
// @Param target_type query string true "目标类型 post/comment"
// @Success 200 {object} response.Response "取消点赞成功"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /like [delete]
func (c *SocialEngine) GinHandleUnlike(ctx *gin.Context) {
	targetID, err := strconv.ParseUint(ctx.Query("target_id"), 10, 64)
	if err != nil || targetID == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid target_id"))
		return
	}
	targetType := ctx.Query("target_type")
	if targetType == "" {
		targetType = model.LikeTargetPost
	}

	uid, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id not found"))
		return
	}

	if err := c.LikeService.Unlike(uid.(uint64), targetID, targetType); err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil, "取消点赞成功"))
}
