package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dananjarukshan/CBC-Website/internal/app/middleware"
	"github.com/dananjarukshan/CBC-Website/internal/domain/models"
	"github.com/dananjarukshan/CBC-Website/internal/domain/services"
	"github.com/dananjarukshan/CBC-Website/internal/domain/services/container"
	"github.com/dananjarukshan/CBC-Website/internal/error/code"
	"github.com/dananjarukshan/CBC-Website/internal/error/response"
)

// InterfaceProductController 定义商品控制器接口
type InterfaceProductController interface {
	GetProducts()
	GetProduct()
	CreateProduct()
	UpdateProduct()
	DeleteProduct()
	ExportProducts()
}

// ProductController 商品控制器
type ProductController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewProductController 创建一个新的商品控制器
func NewProductController(ctx *gin.Context, container *container.ServiceContainer) *ProductController {
	return &ProductController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	ProductID     string   `json:"product_id" example:"CBC-0001"`
	Name          string   `json:"name" binding:"required" example:"Rose Glow Cream"`
	AltNames      []string `json:"alt_names" example:"Glow Cream"`
	Description   string   `json:"description" binding:"required" example:"Brightening face cream"`
	Price         float64  `json:"price" binding:"required,gt=0" example:"2450"`
	LabelledPrice float64  `json:"labelled_price" binding:"required,gt=0" example:"2990"`
	Images        []string `json:"images" binding:"required,min=1" example:"rose-glow.jpg"`
	Category      string   `json:"category" binding:"required" example:"skincare"`
	Brand         string   `json:"brand" example:"CBC"`
	Stock         int      `json:"stock" example:"100"`
	IsAvailable   *bool    `json:"is_available" example:"true"`
}

// UpdateProductRequest 更新商品请求，所有字段可选
type UpdateProductRequest struct {
	Name          *string   `json:"name"`
	AltNames      *[]string `json:"alt_names"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	LabelledPrice *float64  `json:"labelled_price"`
	Images        *[]string `json:"images"`
	Category      *string   `json:"category"`
	Brand         *string   `json:"brand"`
	Stock         *int      `json:"stock"`
	IsAvailable   *bool     `json:"is_available"`
}

// HandleProductFunc 返回一个处理商品请求的Gin处理函数
func HandleProductFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewProductController(ctx, container)

		switch method {
		case "getProducts":
			controller.GetProducts()
		case "getProduct":
			controller.GetProduct()
		case "createProduct":
			controller.CreateProduct()
		case "updateProduct":
			controller.UpdateProduct()
		case "deleteProduct":
			controller.DeleteProduct()
		case "exportProducts":
			controller.ExportProducts()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1 GetProducts 获取商品列表
// @Summary      List products
// @Description  Admins see the full catalog; other callers only see available items
// @Tags         Product
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /products [get]
func (c *ProductController) GetProducts() {
	// 管理员可见全部商品，其余调用方仅可见上架商品
	isAdmin := middleware.CurrentIdentity(c.Ctx).IsAdmin()

	productService := c.Container.GetService("product").(services.InterfaceProductService)
	products, err := productService.GetAllProducts(isAdmin)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询商品列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, products)
}

// 2 GetProduct 根据业务编号获取商品
// @Summary      Get a product
// @Description  Returns one product by its business product_id; unavailable items are hidden from non-admins
// @Tags         Product
// @Produce      json
// @Param        id path string true "Product business ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /products/{id} [get]
func (c *ProductController) GetProduct() {
	id := c.Ctx.Param("id")

	productService := c.Container.GetService("product").(services.InterfaceProductService)
	product, err := productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			response.Fail(c.Ctx, code.ErrProductNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询商品失败: "+err.Error(), nil)
		return
	}

	// 下架商品对非管理员不可见
	if !product.IsAvailable && !middleware.CurrentIdentity(c.Ctx).IsAdmin() {
		response.Fail(c.Ctx, code.ErrProductNotFound, nil)
		return
	}

	response.Success(c.Ctx, product)
}

// 3 CreateProduct 创建新商品
// @Summary      Create a product
// @Description  Create a catalog item; admin only
// @Tags         Product
// @Accept       json
// @Produce      json
// @Param        request body CreateProductRequest true "Product fields"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /products [post]
// @Security     BearerAuth
func (c *ProductController) CreateProduct() {
	var req CreateProductRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	product := &models.Product{
		ProductID:     req.ProductID,
		Name:          req.Name,
		AltNames:      req.AltNames,
		Description:   req.Description,
		Price:         req.Price,
		LabelledPrice: req.LabelledPrice,
		Images:        req.Images,
		Category:      req.Category,
		Brand:         req.Brand,
		Stock:         req.Stock,
		IsAvailable:   true,
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	productService := c.Container.GetService("product").(services.InterfaceProductService)
	if err := productService.CreateProduct(product); err != nil {
		if errors.Is(err, services.ErrProductExists) {
			response.Fail(c.Ctx, code.ErrProductAlreadyExist, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建商品失败: "+err.Error(), nil)
		return
	}

	response.Created(c.Ctx, "Product created successfully", gin.H{"product": product})
}

// 4 UpdateProduct 更新商品信息
// @Summary      Update a product
// @Description  Partially update a catalog item; admin only
// @Tags         Product
// @Accept       json
// @Produce      json
// @Param        id path string true "Product business ID"
// @Param        request body UpdateProductRequest true "Fields to update"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /products/{id} [put]
// @Security     BearerAuth
func (c *ProductController) UpdateProduct() {
	id := c.Ctx.Param("id")

	var req UpdateProductRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.AltNames != nil {
		updates["alt_names"] = models.StringList(*req.AltNames)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.LabelledPrice != nil {
		updates["labelled_price"] = *req.LabelledPrice
	}
	if req.Images != nil {
		updates["images"] = models.StringList(*req.Images)
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	productService := c.Container.GetService("product").(services.InterfaceProductService)
	product, err := productService.UpdateProduct(id, updates)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			response.Fail(c.Ctx, code.ErrProductNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新商品失败: "+err.Error(), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Product updated successfully", gin.H{"product": product})
}

// 5 DeleteProduct 删除商品
// @Summary      Delete a product
// @Description  Remove a catalog item; admin only
// @Tags         Product
// @Param        id path string true "Product business ID"
// @Success      204  "No Content"
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /products/{id} [delete]
// @Security     BearerAuth
func (c *ProductController) DeleteProduct() {
	id := c.Ctx.Param("id")

	productService := c.Container.GetService("product").(services.InterfaceProductService)
	if err := productService.DeleteProduct(id); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			response.Fail(c.Ctx, code.ErrProductNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除商品失败: "+err.Error(), nil)
		return
	}

	response.NoContent(c.Ctx)
}

// 6 ExportProducts 导出商品目录
// @Summary      Export the catalog
// @Description  Download the full catalog as an xlsx workbook; admin only
// @Tags         Product
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /products/export [get]
// @Security     BearerAuth
func (c *ProductController) ExportProducts() {
	productService := c.Container.GetService("product").(services.InterfaceProductService)
	file, err := productService.ExportProducts()
	if err != nil {
		response.Fail(c.Ctx, code.ErrProductExportFailed, nil)
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Ctx.Header("Content-Disposition", "attachment; filename="+filename)
	c.Ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Ctx.Writer); err != nil {
		response.Fail(c.Ctx, code.ErrProductExportFailed, nil)
	}
}
