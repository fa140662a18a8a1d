package rest

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the full HTTP surface onto the engine.
func (h *DepartmentsHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Home)
	router.GET("/uploads/:filename", h.ServeUpload)

	api := router.Group("/api")
	{
		api.GET("/departments", h.ListDepartments)
		api.POST("/departments", h.CreateDepartment)
		api.PUT("/departments/:id", h.UpdateDepartment)
		api.DELETE("/departments/:id", h.DeleteDepartment)
	}
}
