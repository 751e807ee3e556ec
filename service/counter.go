package service

import (
	"log"

	"gorm.io/gorm"
)

// 冗余计数只通过这里的相对调整修改，且必须和触发它的边/内容变更
// 处于同一个事务里。调用方传入的 tx 即该事务句柄。

// incCounter 计数 +1。
func incCounter(tx *gorm.DB, model any, id uint64, column string) error {
	return tx.Model(model).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error
}

// decCounter 计数 -1，钳制在 0：
// 计数已经是 0（或目标行已不存在）时跳过递减并记录偏差，不作为业务错误上抛。
func decCounter(tx *gorm.DB, model any, id uint64, column string) error {
	res := tx.Model(model).Where("id = ? AND "+column+" > 0", id).
		UpdateColumn(column, gorm.Expr(column+" - ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("计数偏差: %T id=%d 的 %s 无法递减（已为 0 或行不存在），已跳过", model, id, column)
	}
	return nil
}
