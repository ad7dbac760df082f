package repository

import (
	"errors"
	"projectk_backend/internal/util"

	"gorm.io/gorm"
)

// first 查询单条记录，记录不存在时返回 found=false 而不是错误
func first(tx *gorm.DB, dest interface{}, op string) (bool, error) {
	err := tx.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, util.StoreError(op, err)
	}
	return true, nil
}

func storeErr(op string, err error) error {
	return util.StoreError(op, err)
}
