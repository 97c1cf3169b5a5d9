package db

import (
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"gitlab.grandhoo.com/rock/rock_cfd/base/config"
	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
)

// DB 为 nil 时表示没有配置数据库, 规则只输出到文件
var DB *gorm.DB

func InitGorm() error {
	c := config.All.Db
	if c.Type == "" {
		logger.Infof("[InitGorm] no db configured, skip")
		return nil
	}
	db, err := Open(c.Type, c.Dsn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

func Open(dbType, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dbType {
	case rds_config.DbTypePostgres:
		dialector = postgres.Open(dsn)
	case rds_config.DbTypeSqlite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported db type %q", dbType)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s db", dbType)
	}
	logger.Infof("[InitGorm] connected, type:%v", dbType)
	return db, nil
}
