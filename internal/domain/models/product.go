package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList 以JSON数组形式存储在单个varchar列中的字符串列表
type StringList []string

// Value 实现 driver.Valuer 接口
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner 接口
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for StringList")
	}

	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Product represents an item in the store catalog
type Product struct {
	BaseModel
	ProductID     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"product_id"` // 业务主键，区别于存储ID
	Name          string     `gorm:"type:varchar(100);not null" json:"name"`
	Slug          string     `gorm:"type:varchar(120);index" json:"slug"` // 由名称生成，用于店面URL
	AltNames      StringList `gorm:"type:varchar(500)" json:"alt_names"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	Price         float64    `gorm:"not null" json:"price"`
	LabelledPrice float64    `gorm:"not null" json:"labelled_price"`
	Images        StringList `gorm:"type:varchar(1000);not null" json:"images"`
	Category      string     `gorm:"type:varchar(50);not null" json:"category"`
	Brand         string     `gorm:"type:varchar(50);default:'no brand'" json:"brand"`
	Stock         int        `gorm:"default:0" json:"stock"`
	IsAvailable   bool       `gorm:"default:true" json:"is_available"`
}
