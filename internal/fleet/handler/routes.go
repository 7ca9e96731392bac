package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/middleware"
)

// RegisterRoutes mounts the /api/v1 API and /files on r
func RegisterRoutes(r *gin.Engine, h *Handlers, jwtSecret string) {
	elevated := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleManager)

	filesGroup := r.Group("/files")
	filesGroup.Use(middleware.JWTAuth(jwtSecret))
	{
		filesGroup.GET("/*path", h.Upload.Serve)
	}

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		sseGroup := v1.Group("/sse")
		sseGroup.Use(middleware.JWTAuth(jwtSecret))
		{
			sseGroup.GET("/events", h.SSE.Stream)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtSecret))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			defs := authorized.Group("/definitions")
			{
				defs.GET("", h.Form.List)
				defs.GET("/:id", h.Form.Get)
				defs.GET("/:id/render", h.Form.Render)
				defs.GET("/:id/data", h.Data.ListByDefinition)
				defs.POST("", elevated, h.Form.Create)
				defs.PUT("/:id", elevated, h.Form.Update)
				defs.DELETE("/:id", elevated, h.Form.Delete)
			}

			data := authorized.Group("/data")
			{
				data.POST("", h.Data.Submit)
				data.GET("/:id", h.Data.Get)
				data.POST("/:id/pdf", h.Data.Regenerate)
			}

			authorized.GET("/categories", h.Query.Categories)
			authorized.GET("/categories/:vesselId", h.Query.CategoriesForVessel)
			authorized.GET("/subcategories/:category", h.Query.Subcategories)
			authorized.GET("/items/:subcategory", h.Query.Items)

			items := authorized.Group("/work-items")
			{
				items.GET("", h.WorkItem.List)
				items.GET("/export", h.WorkItem.Export)
				items.POST("", elevated, h.WorkItem.Create)
				items.POST("/import", elevated, h.WorkItem.Import)
				items.GET("/:id", h.WorkItem.Get)
				items.PUT("/:id", elevated, h.WorkItem.Update)
				items.DELETE("/:id", elevated, h.WorkItem.Delete)
				items.POST("/:id/complete", h.WorkItem.Complete)
			}

			records := authorized.Group("/records/:parentId/comments")
			{
				records.GET("", h.Comment.List)
				records.POST("", h.Comment.Post)
				records.POST("/read", h.Comment.MarkRead)
				records.GET("/unread", h.Comment.Unread)
			}

			ncrs := authorized.Group("/ncrs")
			{
				ncrs.GET("", h.NCR.List)
				ncrs.POST("", h.NCR.Create)
				ncrs.GET("/:id", h.NCR.Get)
				ncrs.PUT("/:id", h.NCR.Update)
				ncrs.DELETE("/:id", elevated, h.NCR.Delete)
				ncrs.POST("/:id/close", elevated, h.NCR.Close)
				ncrs.POST("/:id/reopen", elevated, h.NCR.Reopen)
			}

			vessels := authorized.Group("/vessels")
			{
				vessels.GET("", h.Vessel.List)
				vessels.GET("/:id", h.Vessel.Get)
				vessels.POST("", elevated, h.Vessel.Create)
				vessels.PUT("/:id", elevated, h.Vessel.Update)
				vessels.DELETE("/:id", elevated, h.Vessel.Delete)
			}

			authorized.POST("/upload", h.Upload.Upload)
		}
	}
}
