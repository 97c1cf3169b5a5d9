package dao

import "gitlab.grandhoo.com/rock/rock_cfd/base/db"

type CfdTask struct {
	Id         int64   `gorm:"column:id;primaryKey;autoIncrement"`
	TaskId     string  `gorm:"column:task_id;uniqueIndex"`
	DataTable  string  `gorm:"column:data_table"`
	DataPath   string  `gorm:"column:data_path"`
	EnumK      int     `gorm:"column:enum_k"`
	Support    float64 `gorm:"column:support"`
	Confidence float64 `gorm:"column:confidence"`
	TreeLevel  int     `gorm:"column:tree_level"`
	RowSize    int     `gorm:"column:row_size"`
	RuleSize   int     `gorm:"column:rule_size"`
	TotalTime  int64   `gorm:"column:total_time"` // ms
	IsDeleted  int     `gorm:"column:is_deleted"` // 0:正常 1:删除
	CreateTime int64   `gorm:"column:create_time"`
	UpdateTime int64   `gorm:"column:update_time"`
}

func (CfdTask) TableName() string {
	return "cfd_task"
}

func CreateCfdTask(task *CfdTask) (id int64, err error) {
	err = db.DB.Create(task).Error
	if err != nil {
		return 0, err
	}
	return task.Id, nil
}

func GetCfdTaskByTaskId(taskId string) (task CfdTask, err error) {
	err = db.DB.Where("task_id=? and is_deleted=0", taskId).First(&task).Error
	return
}

func GetLatestCfdTask() (task CfdTask, err error) {
	err = db.DB.Where("is_deleted=0").Order("update_time desc").Order("id desc").First(&task).Error
	return
}

func DeleteCfdTask(taskId string) (err error) {
	err = db.DB.Model(&CfdTask{}).Where("task_id = ?", taskId).Update("is_deleted", 1).Error
	return
}
