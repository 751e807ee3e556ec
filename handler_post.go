package sns_sdk

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mosakai/sns-sdk/response"
	"github.com/mosakai/sns-sdk/service"
)

// -------------------- 动态（Post）相关接口 --------------------

// GinHandleCreatePost 发布动态
// @Summary 发布动态
// @Description 文本 + 媒体(最多9个) + 话题(最多5个)，文本与媒体至少一项
// @Tags 动态
// @Accept json
// @Produce json
// @Param req body service.CreatePostReq true "动态内容"
// @Success 200 {object} response.Response{data=service.PostDTO} "发布成功"
// @Failure 400 {object} response.Response "参数错误"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /post/create [post]
func (c *SocialEngine) GinHandleCreatePost(ctx *gin.Context) {
	var req service.CreatePostReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	uid, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id not found"))
		return
	}

	dto, err := c.PostService.CreatePost(uid.(uint64), req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(dto, "发布成功"))
}

// GinHandleDeletePost 删除动态
// @Summary 删除动态（软删除）
// @Description 仅发布者本人可删；posts_count 同事务回退
// @Tags 动态
// @Produce json
// @Param post_id query uint64 true "动态ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /post [delete]
func (c *SocialEngine) GinHandleDeletePost(ctx *gin.Context) {
	postID, err := strconv.ParseUint(ctx.Query("post_id"), 10, 64)
	if err != nil || postID == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid post_id"))
		return
	}

	uid, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id not found"))
		return
	}

	if err := c.PostService.DeletePost(uid.(uint64), postID); err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil, "删除成功"))
}

// GinHandleGetFeed 动态流
// @Summary 动态流
// @Description 正常状态且（公开 或 自己发布）的动态，时间倒序分页；登录用户标注 isLiked，未登录只看公开。pageSize 上限 50
// @Tags 动态
// @Produce json
// @Param page query int false "页码，从1起"
// @Param pageSize query int false "每页数量，默认10，上限50"
// @Success 200 {object} response.Response{data=service.FeedResp} "动态流"
// @Security BearerAuth
// @Router /post/feed [get]
func (c *SocialEngine) GinHandleGetFeed(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.Query("page"))
	pageSize, _ := strconv.Atoi(ctx.Query("pageSize"))

	resp, err := c.PostService.GetFeed(viewerFrom(ctx), page, pageSize)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(resp))
}
