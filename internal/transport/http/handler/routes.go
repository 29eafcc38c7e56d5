package handler

import "github.com/gin-gonic/gin"

// Routes 公共分组与需要管理员令牌的分组（同一前缀）
type Routes struct {
	Public *gin.RouterGroup
	Admin  *gin.RouterGroup
}
