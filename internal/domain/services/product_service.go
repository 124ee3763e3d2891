package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/dananjarukshan/CBC-Website/internal/domain/models"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/config"
	"github.com/dananjarukshan/CBC-Website/pkg/logger"
)

// 商品相关哨兵错误
var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductExists 商品业务编号已存在
	ErrProductExists = errors.New("product already exists")
)

// availableProductsCacheKey 公开商品列表的缓存键
const availableProductsCacheKey = "cache:products:available"

// productCacheExpiration 公开商品列表缓存的有效期
const productCacheExpiration = 30 * time.Second

// InterfaceProductService 商品服务接口
type InterfaceProductService interface {
	CreateProduct(product *models.Product) error
	GetAllProducts(includeUnavailable bool) ([]models.Product, error)
	GetProductByID(productID string) (*models.Product, error)
	UpdateProduct(productID string, updates map[string]interface{}) (*models.Product, error)
	DeleteProduct(productID string) error
	ExportProducts() (*excelize.File, error)
}

// ProductService 提供商品目录的增删改查
type ProductService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceRedisService       // 可为nil，此时直接访问数据库
	Events InterfaceCatalogEventService // 可为nil，此时不发布目录变更事件
}

// NewProductService 创建一个新的商品服务
func NewProductService(db *gorm.DB, cfg *config.Config, cache InterfaceRedisService, events InterfaceCatalogEventService) InterfaceProductService {
	return &ProductService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
		Events: events,
	}
}

// 1 CreateProduct 创建新商品。
// 业务编号缺省时由服务端生成；slug始终由名称重新生成。
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.ProductID == "" {
		product.ProductID = uuid.NewString()
	}
	product.Slug = slug.Make(product.Name)
	if product.Brand == "" {
		product.Brand = "no brand"
	}

	// 验证业务编号唯一性
	var count int64
	if err := s.DB.Model(&models.Product{}).Where("product_id = ?", product.ProductID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrProductExists
	}

	// 并发创建可能穿过前置检查，唯一索引冲突同样映射为编号已存在
	if err := s.DB.Create(product).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrProductExists
		}
		return err
	}

	s.invalidateCache()
	s.publishEvent("created", product)
	return nil
}

// 2 GetAllProducts 获取商品列表。
// includeUnavailable 为 false 时仅返回上架商品（非管理员视角），
// 该视角的结果经过Redis缓存。
func (s *ProductService) GetAllProducts(includeUnavailable bool) ([]models.Product, error) {
	if includeUnavailable {
		var products []models.Product
		if err := s.DB.Find(&products).Error; err != nil {
			return nil, err
		}
		return products, nil
	}

	// 公开视角先查缓存
	if s.Cache != nil {
		var cached []models.Product
		if err := s.Cache.Get(availableProductsCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var products []models.Product
	if err := s.DB.Where("is_available = ?", true).Find(&products).Error; err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(availableProductsCacheKey, products, productCacheExpiration); err != nil {
			logger.Warning("缓存商品列表失败: %v", err)
		}
	}
	return products, nil
}

// 3 GetProductByID 根据业务编号获取商品
func (s *ProductService) GetProductByID(productID string) (*models.Product, error) {
	var product models.Product
	if err := s.DB.Where("product_id = ?", productID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// 4 UpdateProduct 更新商品信息
func (s *ProductService) UpdateProduct(productID string, updates map[string]interface{}) (*models.Product, error) {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	// 名称变更时同步更新slug
	if name, ok := updates["name"].(string); ok && name != product.Name {
		updates["slug"] = slug.Make(name)
	}
	// 业务编号不允许通过更新修改
	delete(updates, "product_id")

	if err := s.DB.Model(product).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.invalidateCache()

	// 重新获取更新后的商品信息
	updated, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}
	s.publishEvent("updated", updated)
	return updated, nil
}

// 5 DeleteProduct 删除商品
func (s *ProductService) DeleteProduct(productID string) error {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return err
	}

	if err := s.DB.Delete(product).Error; err != nil {
		return err
	}

	s.invalidateCache()
	s.publishEvent("deleted", product)
	return nil
}

// 6 ExportProducts 将全部商品导出为xlsx工作簿
func (s *ProductService) ExportProducts() (*excelize.File, error) {
	products, err := s.GetAllProducts(true)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Products"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Product ID", "Name", "Slug", "Alt Names", "Description", "Price", "Labelled Price", "Category", "Brand", "Stock", "Available"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range products {
		values := []interface{}{
			p.ProductID, p.Name, p.Slug, strings.Join(p.AltNames, ", "),
			p.Description, p.Price, p.LabelledPrice, p.Category, p.Brand,
			p.Stock, p.IsAvailable,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}

// invalidateCache 商品写操作后清除公开列表缓存
func (s *ProductService) invalidateCache() {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(availableProductsCacheKey); err != nil {
		logger.Warning("清除商品列表缓存失败: %v", err)
	}
}

// publishEvent 尽力发布目录变更事件，失败仅记录日志
func (s *ProductService) publishEvent(action string, product *models.Product) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishProductEvent(action, product); err != nil {
		logger.Warning("发布商品%s事件失败 (%s): %v", action, product.ProductID, err)
	}
}
