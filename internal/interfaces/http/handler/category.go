package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	catalogapp "github.com/menuhub/backend/internal/application/catalog"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
)

// CategoryHandler handles the mega menu endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
	maxUploadSize   int64
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService, maxUploadSize int64) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		maxUploadSize:   maxUploadSize,
	}
}

// Create godoc
// @Summary      Create a mega menu
// @Description  Accepts multipart/form-data with a "pic" image file, or JSON with a pic URL
// @Tags         megamenu
// @Accept       multipart/form-data,json
// @Produce      json
// @Param        name formData string true "Category name"
// @Param        pic formData file false "Category image (jpg, jpeg, png, gif; max 5 MB)"
// @Success      201 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /megamenu [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if isMultipart(c) {
		req.Name = c.PostForm("name")
		req.Pic = c.PostForm("pic")
		img, err := readImage(c, "pic", h.maxUploadSize)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		req.Image = img
		if err := binding.Validator.ValidateStruct(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	} else if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "MegaMenu created successfully", category)
}

// List godoc
// @Summary      List mega menus
// @Tags         megamenu
// @Produce      json
// @Param        search query string false "Case-insensitive name filter"
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Router       /megamenu [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var filter catalogapp.CategoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	categories, err := h.categoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(categories))
}

// Get godoc
// @Summary      Get a mega menu
// @Tags         megamenu
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      404 {object} dto.ErrorResponse
// @Router       /megamenu/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id", "MegaMenu")
	if !ok {
		return
	}
	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Update godoc
// @Summary      Update a mega menu
// @Description  Fields left out are kept. A new "pic" file replaces the stored image.
// @Tags         megamenu
// @Accept       multipart/form-data,json
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /megamenu/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "MegaMenu")
	if !ok {
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if isMultipart(c) {
		req.Name = formValue(c, "name")
		req.Pic = formValue(c, "pic")
		img, err := readImage(c, "pic", h.maxUploadSize)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		req.Image = img
		if err := binding.Validator.ValidateStruct(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	} else if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete godoc
// @Summary      Delete a mega menu
// @Tags         megamenu
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /megamenu/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "MegaMenu")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "MegaMenu deleted successfully")
}
