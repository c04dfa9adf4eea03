package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibhusapra/phoenix/internal/modules/serializer"
	"github.com/vibhusapra/phoenix/internal/modules/service"
	"github.com/vibhusapra/phoenix/internal/pkg/auth"
	"github.com/vibhusapra/phoenix/internal/pkg/optional"
	"github.com/vibhusapra/phoenix/internal/pkg/viewpayload"
)

type SavedViewHandler struct {
	svc service.SavedViewService
}

func NewSavedViewHandler(s service.SavedViewService) *SavedViewHandler {
	return &SavedViewHandler{svc: s}
}

type CreateSavedViewReq struct {
	ProjectID string            `json:"projectId" binding:"required" example:"UHJvamVjdDox"`
	Name      string            `json:"name" example:"Slow LLM spans"`
	Payload   viewpayload.Input `json:"payload"`
}

// CreateSavedView godoc
//
//	@Summary		Create saved view
//	@Description	Create a named view owned by the caller in a project
//	@Tags			saved_view
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateSavedViewReq	true	"CreateSavedView payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=serializer.SavedView}
//	@Failure		400	{object}	serializer.Response
//	@Failure		401	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/saved_views [post]
func (h *SavedViewHandler) CreateSavedView(c *gin.Context) {
	req := CreateSavedViewReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	view, err := h.svc.Create(c.Request.Context(), auth.FromGin(c), service.CreateSavedViewInput{
		ProjectRef: req.ProjectID,
		Name:       req.Name,
		Payload:    req.Payload,
	})
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	out, err := serializer.NewSavedView(view)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

type PatchSavedViewReq struct {
	Name    optional.Field[string]            `json:"name" swaggertype:"string" example:"Slow LLM spans (7d)"`
	Payload optional.Field[viewpayload.Input] `json:"payload" swaggertype:"object"`
}

// PatchSavedView godoc
//
//	@Summary		Patch saved view
//	@Description	Rename a view and merge payload fields into it. Omitted fields are left unchanged
//	@Tags			saved_view
//	@Accept			json
//	@Produce		json
//	@Param			view_id	path	string						true	"SavedView id"
//	@Param			payload	body	handler.PatchSavedViewReq	true	"PatchSavedView payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=serializer.SavedView}
//	@Failure		400	{object}	serializer.Response
//	@Failure		401	{object}	serializer.Response
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/saved_views/{view_id} [patch]
func (h *SavedViewHandler) PatchSavedView(c *gin.Context) {
	req := PatchSavedViewReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	view, err := h.svc.Patch(c.Request.Context(), auth.FromGin(c), service.PatchSavedViewInput{
		ViewRef: c.Param("view_id"),
		Name:    req.Name,
		Payload: req.Payload,
	})
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	out, err := serializer.NewSavedView(view)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type DeleteSavedViewsReq struct {
	IDs []string `json:"ids" binding:"required" example:"U2F2ZWRWaWV3OjE="`
}

// DeleteSavedViews godoc
//
//	@Summary		Delete saved views
//	@Description	Delete the listed views owned by the caller. Ids owned by others or missing are ignored
//	@Tags			saved_view
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.DeleteSavedViewsReq	true	"DeleteSavedViews payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=bool}
//	@Failure		400	{object}	serializer.Response
//	@Failure		401	{object}	serializer.Response
//	@Router			/saved_views [delete]
func (h *SavedViewHandler) DeleteSavedViews(c *gin.Context) {
	req := DeleteSavedViewsReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), auth.FromGin(c), service.DeleteSavedViewsInput{ViewRefs: req.IDs}); err != nil {
		c.JSON(serializer.FromError(err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: true})
}
