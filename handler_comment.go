package sns_sdk

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mosakai/sns-sdk/response"
	"github.com/mosakai/sns-sdk/service"
)

// -------------------- 评论（Comment）相关接口 --------------------

// GinHandleCreateComment 发表评论
// @Summary 发表评论或回复
// @Description parent_id 指定时为二级回复，父评论必须属于同一条动态
// @Tags 评论
// @Accept json
// @Produce json
// @Param req body service.CreateCommentReq true "评论内容"
// @Success 200 {object} response.Response{data=service.CommentDTO} "评论成功"
// @Failure 400 {object} response.Response "参数错误"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /comment/create [post]
func (c *SocialEngine) GinHandleCreateComment(ctx *gin.Context) {
	var req service.CreateCommentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	uid, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id not found"))
		return
	}

	dto, err := c.CommentService.CreateComment(uid.(uint64), req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(dto, "评论成功"))
}

// GinHandleDeleteComment 删除评论
// @Summary 删除评论（软删除）
// @Description 仅评论者本人可删；动态/父评论的计数同事务回退
// @Tags 评论
// @Produce json
// @Param comment_id query uint64 true "评论ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /comment [delete]
func (c *SocialEngine) GinHandleDeleteComment(ctx *gin.Context) {
	commentID, err := strconv.ParseUint(ctx.Query("comment_id"), 10, 64)
	if err != nil || commentID == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid comment_id"))
		return
	}

	uid, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id not found"))
		return
	}

	if err := c.CommentService.DeleteComment(uid.(uint64), commentID); err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil, "删除成功"))
}

// GinHandleGetComments 获取动态的顶级评论
// @Summary 获取动态评论
// @Description 只返回顶级评论（时间倒序），回复通过 /comment/replies 按父评论拉取
// @Tags 评论
// @Produce json
// @Param post_id query uint64 true "动态ID"
// @Param page query int false "页码，从1起"
// @Param pageSize query int false "每页数量，默认20，上限50"
// @Success 200 {object} response.Response{data=service.CommentListResp} "评论列表"
// @Security BearerAuth
// @Router /comment/list [get]
func (c *SocialEngine) GinHandleGetComments(ctx *gin.Context) {
	postID, err := strconv.ParseUint(ctx.Query("post_id"), 10, 64)
	if err != nil || postID == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid post_id"))
		return
	}
	page, _ := strconv.Atoi(ctx.Query("page"))
	pageSize, _ := strconv.Atoi(ctx.Query("pageSize"))

	resp, err := c.CommentService.GetComments(viewerFrom(ctx), postID, page, pageSize)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(resp))
}

// GinHandleGetReplies 获取评论的回复
// @Summary 获取评论回复
// @Tags 评论
// @Produce json
// @Param parent_id query uint64 true "父评论ID"
// @Param page query int false "页码，从1起"
// @Param pageSize query int false "每页数量，默认20，上限50"
// @Success 200 {object} response.Response{data=service.CommentListResp} "回复列表"
// @Security BearerAuth
// @Router /comment/replies [get]
func (c *SocialEngine) GinHandleGetReplies(ctx *gin.Context) {
	parentID, err := strconv.ParseUint(ctx.Query("parent_id"), 10, 64)
	if err != nil || parentID == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid parent_id"))
		return
	}
	page, _ := strconv.Atoi(ctx.Query("page"))
	pageSize, _ := strconv.Atoi(ctx.Query("pageSize"))

	resp, err := c.CommentService.GetReplies(viewerFrom(ctx), parentID, page, pageSize)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(resp))
}
