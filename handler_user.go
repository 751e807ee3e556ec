package sns_sdk

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mosakai/sns-sdk/response"
	"github.com/mosakai/sns-sdk/service"
)

// -------------------- 用户（User）相关接口 --------------------

// GinHandleUserRegister 注册
// @Summary 用户注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param req body service.RegisterReq true "注册信息"
// @Success 200 {object} response.Response{data=service.UserDTO} "注册成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /user/register [post]
func (c *SocialEngine) GinHandleUserRegister(ctx *gin.Context) {
	var req service.RegisterReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	dto, err := c.UserService.Register(req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(dto))
}

// GinHandleUserLogin 登录
// @Summary 用户登录
// @Description 用户名 + 密码，成功返回 token（Redis 存储）
// @Tags 用户
// @Accept json
// @Produce json
// @Param req body service.LoginReq true "登录信息"
// @Success 200 {object} response.Response{data=service.LoginResp} "登录成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /user/login [post]
func (c *SocialEngine) GinHandleUserLogin(ctx *gin.Context) {
	var req service.LoginReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	resp, err := c.UserService.Login(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(resp))
}

// GinHandleGetUserInfo 获取用户信息
// @Summary 获取用户信息
// @Description 不带 user_id 返回当前登录用户，带 user_id 返回指定用户
// @Tags 用户
// @Produce json
// @Param user_id query uint64 false "用户ID"
// @Success 200 {object} response.Response{data=service.UserDTO} "用户信息"
// @Failure 401 {object} response.Response "未登录"
// @Security BearerAuth
// @Router /user/info [get]
func (c *SocialEngine) GinHandleGetUserInfo(ctx *gin.Context) {
	var targetID uint64
	if idStr := ctx.Query("user_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid user_id"))
			return
		}
		targetID = id
	} else {
		uid, exists := ctx.Get("user_id")
		if !exists {
			ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id not found"))
			return
		}
		targetID = uid.(uint64)
	}

	dto, err := c.UserService.GetUser(targetID)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}
	ctx.JSON(http.StatusOK, response.Success(dto))
}
