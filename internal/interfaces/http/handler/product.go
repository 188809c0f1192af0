package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	catalogapp "github.com/menuhub/backend/internal/application/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	maxUploadSize  int64
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, maxUploadSize int64) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		maxUploadSize:  maxUploadSize,
	}
}

// Create godoc
// @Summary      Create a product
// @Description  Accepts multipart/form-data with a "pic" image file, or JSON with a pic URL
// @Tags         products
// @Accept       multipart/form-data,json
// @Produce      json
// @Param        name formData string true "Product name"
// @Param        description formData string true "Description"
// @Param        type formData string true "small, medium or large"
// @Param        price formData number true "Unit price"
// @Param        megaMenu formData string true "Category ID"
// @Param        pic formData file false "Product image (jpg, jpeg, png, gif; max 5 MB)"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if isMultipart(c) {
		if err := h.createFromForm(c, &req); err != nil {
			h.HandleError(c, err)
			return
		}
		if err := binding.Validator.ValidateStruct(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	} else if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Product created successfully", product)
}

func (h *ProductHandler) createFromForm(c *gin.Context, req *catalogapp.CreateProductRequest) error {
	req.Name = c.PostForm("name")
	req.Description = c.PostForm("description")
	req.Type = c.PostForm("type")
	req.Pic = c.PostForm("pic")

	var err error
	if req.Price, err = formDecimal(c, "price"); err != nil {
		return err
	}
	if id, err := formUUID(c, "megaMenu"); err != nil {
		return err
	} else if id != nil {
		req.MegaMenu = *id
	}
	req.Image, err = readImage(c, "pic", h.maxUploadSize)
	return err
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search query string false "Name filter"
// @Param        megaMenu query string false "Category ID"
// @Param        type query string false "small, medium or large"
// @Param        minPrice query number false "Lower price bound"
// @Param        maxPrice query number false "Upper price bound"
// @Param        sort query string false "e.g. price,-createdAt"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	products, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(products))
}

// ListByCategory godoc
// @Summary      List the products of a mega menu
// @Tags         products
// @Produce      json
// @Param        megaMenuId path string true "Category ID"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /products/megamenu/{megaMenuId} [get]
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	id, ok := h.parseID(c, "megaMenuId", "MegaMenu")
	if !ok {
		return
	}
	products, err := h.productService.ListByCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(products))
}

// Get godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Product")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Update godoc
// @Summary      Update a product
// @Description  Fields left out are kept. A new "pic" file replaces the stored image.
// @Tags         products
// @Accept       multipart/form-data,json
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Product")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if isMultipart(c) {
		if err := h.updateFromForm(c, &req); err != nil {
			h.HandleError(c, err)
			return
		}
		if err := binding.Validator.ValidateStruct(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	} else if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := dto.NewSuccessResponse(product)
	resp.Message = "Product updated successfully"
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) updateFromForm(c *gin.Context, req *catalogapp.UpdateProductRequest) error {
	req.Name = formValue(c, "name")
	req.Description = formValue(c, "description")
	req.Type = formValue(c, "type")
	req.Pic = formValue(c, "pic")

	var err error
	if req.Price, err = formDecimal(c, "price"); err != nil {
		return err
	}
	if req.MegaMenu, err = formUUID(c, "megaMenu"); err != nil {
		return err
	}
	req.Image, err = readImage(c, "pic", h.maxUploadSize)
	return err
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Product")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Product deleted successfully")
}

// formDecimal parses an optional numeric form field
func formDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := formValue(c, key)
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, shared.NewValidationError("Invalid %s: %s", key, *raw)
	}
	return &d, nil
}

// formUUID parses an optional id form field
func formUUID(c *gin.Context, key string) (*uuid.UUID, error) {
	raw := formValue(c, key)
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, shared.NewValidationError("Invalid %s id: %s", key, *raw)
	}
	return &id, nil
}
