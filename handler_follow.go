package sns_sdk

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mosakai/sns-sdk/response"
)

// -------------------- 关注（Follow）相关接口 --------------------

type FollowUserReq struct {
	UserID uint64 `json:"user_id" binding:"required" example:"1001"`
}

// GinHandleFollowUser 关注用户
// @Summary 关注用户
// @Description 创建或复活关注边，双向计数同事务 +1；重复关注返回冲突
// @Tags 关注
// @Accept json
// @Produce json
// @Param req body FollowUserReq true "目标用户"
// @Success 200 {object} response.Response "关注成功"
// @Failure 400 {object} response.Response "参数错误"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /follow [post]
func (c *SocialEngine) GinHandleFollowUser(ctx *gin.Context) {
	var req FollowUserReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	uid, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id not found"))
		return
	}

	if err := c.FollowService.Follow(uid.(uint64), req.UserID); err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil, "关注成功"))
}

// GinHandleUnfollowUser 取消关注
// @Summary 取消关注
// @Description 要求存在活跃关注边，翻转为已取消并回退双向计数
// @Tags 关注
// @Produce json
// @Param user_id query uint64 true "目标用户ID"
// @Success 200 {object} response.Response "取消关注成功"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /follow [delete]
func (c *SocialEngine) GinHandleUnfollowUser(ctx *gin.Context) {
	targetID, err := strconv.ParseUint(ctx.Query("user_id"), 10, 64)
	if err != nil || targetID == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid user_id"))
		return
	}

	uid, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id not found"))
		return
	}

	if err := c.FollowService.Unfollow(uid.(uint64), targetID); err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil, "取消关注成功"))
}
