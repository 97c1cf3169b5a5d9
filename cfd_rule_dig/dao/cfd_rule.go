package dao

import (
	"gorm.io/gorm/clause"

	"gitlab.grandhoo.com/rock/rock_cfd/base/db"
)

type CfdRule struct {
	Id         int64   `gorm:"column:id;primaryKey;autoIncrement"`
	TaskId     string  `gorm:"column:task_id;index;uniqueIndex:idx_task_rule"`
	RuleKey    string  `gorm:"column:rule_key;uniqueIndex:idx_task_rule"`
	Ree        string  `gorm:"column:ree"`
	ReeJson    string  `gorm:"column:ree_json"`
	Dependent  string  `gorm:"column:dependent"`
	Support    float64 `gorm:"column:support"`
	Confidence float64 `gorm:"column:confidence"`
	Seq        int     `gorm:"column:seq"` // 发现顺序
	CreateTime int64   `gorm:"column:create_time"`
	UpdateTime int64   `gorm:"column:update_time"`
}

func (CfdRule) TableName() string {
	return "cfd_rule"
}

// CreateCfdRules 同一个任务里 rule_key 重复的规则只保留第一条
func CreateCfdRules(rules []*CfdRule) (err error) {
	if len(rules) == 0 {
		return nil
	}
	err = db.DB.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rules, 500).Error
	return
}

func GetCfdRulesByTaskId(taskId string) (rules []CfdRule, err error) {
	err = db.DB.Where("task_id=?", taskId).Order("seq").Find(&rules).Error
	return
}

func AutoMigrate() error {
	return db.DB.AutoMigrate(&CfdTask{}, &CfdRule{})
}
