package router

import "github.com/gin-gonic/gin"

// Module is implemented by each feature area (users, debug, ...) to mount
// its routes on the shared API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
