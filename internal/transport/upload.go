package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beanbocchi/multipart/internal/service"
	"github.com/beanbocchi/multipart/pkg/response"
)

func (h *Handler) CreateUpload(c echo.Context) error {
	var req service.CreateUploadParams
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response(), http.StatusBadRequest, err)
	}

	res, err := h.svc.CreateUpload(c.Request().Context(), req)
	if err != nil {
		return fromError(c, err)
	}
	return response.FromDTO(c.Response(), http.StatusCreated, res)
}

func (h *Handler) PrepareUploadPart(c echo.Context) error {
	var req service.PrepareUploadPartParams
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response(), http.StatusBadRequest, err)
	}

	res, err := h.svc.PrepareUploadPart(c.Request().Context(), req)
	if err != nil {
		return fromError(c, err)
	}
	return response.FromDTO(c.Response(), http.StatusOK, res)
}

func (h *Handler) ListParts(c echo.Context) error {
	var req service.ListPartsParams
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response(), http.StatusBadRequest, err)
	}

	parts, err := h.svc.ListParts(c.Request().Context(), req)
	if err != nil {
		return fromError(c, err)
	}
	return response.FromDTO(c.Response(), http.StatusOK, parts)
}

func (h *Handler) CompleteUpload(c echo.Context) error {
	var req service.CompleteUploadParams
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response(), http.StatusBadRequest, err)
	}

	res, err := h.svc.CompleteUpload(c.Request().Context(), req)
	if err != nil {
		return fromError(c, err)
	}
	return response.FromDTO(c.Response(), http.StatusOK, res)
}

func (h *Handler) AbortUpload(c echo.Context) error {
	var req service.AbortUploadParams
	if err := c.Bind(&req); err != nil {
		return response.FromError(c.Response(), http.StatusBadRequest, err)
	}

	res, err := h.svc.AbortUpload(c.Request().Context(), req)
	if err != nil {
		return fromError(c, err)
	}
	return response.FromMessage(c.Response(), http.StatusOK, res.Message)
}
