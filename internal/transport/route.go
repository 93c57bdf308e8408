package transport

import (
	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/multipart/internal/service"
)

type Handler struct {
	svc *service.Service
}

func SetupRoute(e *echo.Echo, svc *service.Service) {
	h := &Handler{svc: svc}
	upload := e.Group("/api/v1/upload")

	upload.POST("/create", h.CreateUpload)
	upload.POST("/prepare", h.PrepareUploadPart)
	upload.POST("/listparts", h.ListParts)
	upload.POST("/complete", h.CompleteUpload)
	upload.POST("/abort", h.AbortUpload)
}
