package app

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/craftbond/sitecms/internal/domain"
	"github.com/craftbond/sitecms/pkg/common"
)

// checkSuper ensures the bootstrap administrator account exists. The account
// is created from the configured admin credentials on first start and is
// repaired if the stored record lost its password hash.
func (a *Application) checkSuper() {
	var count int64
	a.gormDB.Model(&domain.SysOpr{}).
		Where("username = ?", a.appConfig.Admin.Username).
		Count(&count)
	if count > 0 {
		var opr domain.SysOpr
		err := a.gormDB.
			Where("username = ?", a.appConfig.Admin.Username).
			First(&opr).Error
		if err == nil && opr.Password == "" {
			hash, herr := bcrypt.GenerateFromPassword([]byte(a.appConfig.Admin.Password), bcrypt.DefaultCost)
			if herr != nil {
				zap.S().Errorf("repair admin password failed: %v", herr)
				return
			}
			a.gormDB.Model(&domain.SysOpr{}).
				Where("id = ?", opr.ID).
				Updates(map[string]interface{}{"password": string(hash), "status": common.ENABLED})
			zap.S().Info("admin account password repaired")
		}
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(a.appConfig.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		zap.S().Errorf("hash admin password failed: %v", err)
		return
	}

	opr := domain.SysOpr{
		ID:        common.UUIDint64(),
		Realname:  "administrator",
		Username:  a.appConfig.Admin.Username,
		Password:  string(hash),
		Level:     "super",
		Status:    common.ENABLED,
		LastLogin: time.Now(),
	}
	if err := a.gormDB.Create(&opr).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		zap.S().Errorf("create admin account failed: %v", err)
		return
	}
	zap.S().Infof("admin account %s created", opr.Username)
}
