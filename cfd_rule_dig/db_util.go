package cfd_rule_dig

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"gitlab.grandhoo.com/rock/rock_cfd/base/db"
	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig/dao"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables"
)

// SaveCfdRules 任务和规则落库, 没有配置数据库时直接返回
func SaveCfdRules(task *dao.CfdTask, rules []*global_variables.Rule) error {
	if db.DB == nil {
		return nil
	}
	now := time.Now().UnixMilli()
	task.CreateTime, task.UpdateTime = now, now
	task.RuleSize = len(rules)
	if _, err := dao.CreateCfdTask(task); err != nil {
		logger.Errorf("[SaveCfdRules] pgError: CreateCfdTask failed, error:%v, taskId:%v", err, task.TaskId)
		return errors.Wrap(err, "create cfd task")
	}

	rows := make([]*dao.CfdRule, 0, len(rules))
	for i, rule := range rules {
		reeJson, err := json.Marshal(rule)
		if err != nil {
			return errors.Wrapf(err, "marshal rule %s", rule.Ree)
		}
		rows = append(rows, &dao.CfdRule{
			TaskId:     task.TaskId,
			RuleKey:    RuleKey(rule),
			Ree:        rule.Ree,
			ReeJson:    string(reeJson),
			Dependent:  rule.Rhs.ColumnId,
			Support:    rule.CR,
			Confidence: rule.FTR,
			Seq:        i,
			CreateTime: now,
			UpdateTime: now,
		})
	}
	if err := dao.CreateCfdRules(rows); err != nil {
		logger.Errorf("[SaveCfdRules] pgError: CreateCfdRules failed, error:%v, taskId:%v", err, task.TaskId)
		return errors.Wrap(err, "create cfd rules")
	}
	logger.Infof("[SaveCfdRules] taskId:%v, rule size:%v", task.TaskId, len(rows))
	return nil
}

func GetRulesByTaskId(taskId string) ([]*global_variables.Rule, error) {
	if db.DB == nil {
		return nil, errors.New("no db configured")
	}
	rows, err := dao.GetCfdRulesByTaskId(taskId)
	if err != nil {
		logger.Errorf("[GetRulesByTaskId] pgError: GetCfdRulesByTaskId failed, error:%v, taskId:%v", err, taskId)
		return nil, err
	}
	rules := make([]*global_variables.Rule, 0, len(rows))
	for _, row := range rows {
		rule := &global_variables.Rule{}
		if err := json.Unmarshal([]byte(row.ReeJson), rule); err != nil {
			logger.Error(err)
			continue
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func GetLatestTaskId() (string, error) {
	if db.DB == nil {
		return "", errors.New("no db configured")
	}
	task, err := dao.GetLatestCfdTask()
	if err != nil {
		return "", err
	}
	return task.TaskId, nil
}
