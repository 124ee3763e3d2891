// @title           CBC Website Store API
// @version         1.0
// @description     E-commerce store backend with JWT authentication and an admin-gated product catalog
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@cbc.lk

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/dananjarukshan/CBC-Website/internal/app/routes"
	"github.com/dananjarukshan/CBC-Website/internal/domain/models"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/config"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/database"
	Logger "github.com/dananjarukshan/CBC-Website/pkg/logger"
	"github.com/dananjarukshan/CBC-Website/utils"
)

func main() {
	// 设置最大处理器数量，提高并发性能
	runtime.GOMAXPROCS(runtime.NumCPU())

	// 初始化日志配置
	if err := Logger.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}

	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		Logger.Warning("无法加载.env文件: %v", err)
		// 即使加载失败也继续执行，可能环境变量已经通过其他方式设置
	} else {
		Logger.Info("成功加载.env文件")
	}

	// 获取配置
	cfg := config.GetConfig()

	// 创建优化的数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("无法创建数据库连接池: %v", err)
	}
	db := pool.GetDB()

	// 根据配置执行不同的数据库操作
	if cfg.DBMigrationMode == "drop" {
		// 删除并重建表
		log.Println("警告: 在drop模式下运行，将删除并重建所有表")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("删除并重建表失败: %v", err)
		}
	} else if cfg.DBMigrationMode == "alter" {
		// 除了添加新列，还会清理模型中已不存在的列
		log.Println("在alter模式下运行，将修改表结构以匹配模型")
		if err := alterMigrate(db, cfg); err != nil {
			log.Fatalf("高级迁移失败: %v", err)
		}
	} else {
		// 默认AutoMigrate，只会添加新列和新表，不会删除或修改列
		log.Println("在标准模式下运行，将只添加新列和新表")
		if err := autoMigrate(db); err != nil {
			log.Fatalf("自动迁移失败: %v", err)
		}
	}

	// 确保系统中有管理员账户
	ensureAdminExists(db, cfg)

	// 初始化路由
	r := routes.SetupRouter(db, cfg)

	// 使用配置中的端口
	port := cfg.ServerPort

	// 打印系统信息
	printSystemInfo(pool)

	// 启动服务器 - 注意监听所有接口(0.0.0.0)而不是只监听localhost
	Logger.Info("服务器启动在: http://0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		Logger.Error("启动服务器失败: %v", err)
		os.Exit(1)
	}
}

// autoMigrate 自动迁移所有模型（只添加新列和新表）
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
	)

	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// dropAndRecreateTables 删除并重建所有表
func dropAndRecreateTables(db *gorm.DB) error {
	// 获取底层SQL连接
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	// 禁用外键约束检查
	if _, err := sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		log.Printf("禁用外键约束检查失败: %v", err)
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1") // 确保在函数结束时重新启用外键约束

	// 删除所有表
	tables := []string{"users", "products"}

	for _, table := range tables {
		log.Printf("删除表: %s", table)
		if _, err := sqlDB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			log.Printf("删除表失败: %v", err)
		}
	}

	// 重新创建表
	return autoMigrate(db)
}

// 各表在模型中声明的列，alter模式据此清理多余列
var tableColumns = map[string]map[string]bool{
	"users": {
		"id": true, "created_at": true, "updated_at": true,
		"email": true, "first_name": true, "last_name": true, "password": true,
		"role": true, "is_blocked": true, "is_email_verified": true,
		"image": true, "invalid_tries": true,
	},
	"products": {
		"id": true, "created_at": true, "updated_at": true,
		"product_id": true, "name": true, "slug": true, "alt_names": true,
		"description": true, "price": true, "labelled_price": true,
		"images": true, "category": true, "brand": true, "stock": true,
		"is_available": true,
	},
}

// alterMigrate 执行高级迁移：先AutoMigrate补齐新列，再删除模型中已不存在的列
func alterMigrate(db *gorm.DB, cfg *config.Config) error {
	if err := autoMigrate(db); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	for table, columns := range tableColumns {
		rows, err := sqlDB.Query(
			"SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?",
			cfg.DBName, table)
		if err != nil {
			log.Printf("查询表 %s 的列失败: %v", table, err)
			continue
		}

		var extra []string
		for rows.Next() {
			var columnName string
			if err := rows.Scan(&columnName); err != nil {
				log.Printf("扫描列信息失败: %v", err)
				continue
			}
			if !columns[columnName] {
				extra = append(extra, columnName)
			}
		}
		rows.Close()

		for _, columnName := range extra {
			log.Printf("在%s表中发现多余列: %s，准备删除", table, columnName)
			if _, err := sqlDB.Exec(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", table, columnName)); err != nil {
				log.Printf("删除列 %s.%s 失败: %v", table, columnName, err)
			}
		}
	}

	return nil
}

// ensureAdminExists 确保系统中有管理员账户
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)

	if count == 0 {
		// 如果没有管理员，创建默认管理员
		hashedPassword, err := utils.HashPassword(cfg.DefaultAdminPassword)
		if err != nil {
			log.Fatalf("生成密码哈希失败: %v", err)
		}

		admin := models.User{
			Email:           cfg.DefaultAdminEmail,
			FirstName:       "Store",
			LastName:        "Admin",
			Password:        hashedPassword,
			Role:            models.RoleAdmin,
			IsEmailVerified: true,
		}

		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("创建默认管理员失败: %v", err)
		}

		log.Println("已创建默认管理员账户")
	}
}

// printSystemInfo 打印系统信息
func printSystemInfo(pool *database.ConnectionPool) {
	// 打印数据库连接池信息
	stats, err := pool.Stats()
	if err == nil {
		log.Printf("数据库连接池状态: %+v", stats)
	}

	// 打印系统资源信息
	log.Printf("系统CPU核心数: %d", runtime.NumCPU())
	log.Printf("当前Go协程数: %d", runtime.NumGoroutine())

	// 打印内存信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("系统内存使用: Alloc=%v MiB, TotalAlloc=%v MiB, Sys=%v MiB",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024)
}
