package cfd_rule_dig

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/bits-and-blooms/bitset"

	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/calculate"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables/table_data"
	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
)

// ErrorCell 违反规则的单元格, Correction 是所在分组里出现最多的依赖列取值
type ErrorCell struct {
	Row        int    `json:"row"`
	Column     string `json:"column"`
	Value      string `json:"value"`
	Correction string `json:"correction"`
}

type RuleError struct {
	Ree         string           `json:"ree"`
	Cells       []ErrorCell      `json:"cells"`
	Corrections map[string][]int `json:"corrections"` // 修正值 -> 行号
}

// DetectErrors 按常数谓词过滤行, 按决定列分组, 组内依赖列取众数(并列取最小值),
// 与众数不同的行(包括空值)都是错误
// 规则按列名匹配, 可以用在和挖掘时不同的表上
func DetectErrors(table *table_data.Table, rule *global_variables.Rule) (*RuleError, error) {
	ruleError := &RuleError{Ree: rule.Ree, Corrections: map[string][]int{}}
	if ruleError.Ree == "" {
		ruleError.Ree = CreateRuleRee(rule)
	}

	lhs, err := table.ColumnIndexes(rule.LhsNames())
	if err != nil {
		return nil, err
	}
	rhs, err := table.MustColumnIndex(rule.Rhs.ColumnId)
	if err != nil {
		return nil, err
	}

	var rows *roaring.Bitmap
	if rule.Predicate != nil {
		col, err := table.MustColumnIndex(rule.Predicate.Column.ColumnId)
		if err != nil {
			return nil, err
		}
		valueIndex, ok := table.ValueIndex(col, rule.Predicate.ConstantValue)
		if !ok {
			return ruleError, nil
		}
		rows = table.ValueRows(col, valueIndex)
	}

	rhsValues := table.ValueIndexes(rhs)
	for _, group := range calculate.GroupRows(table, rows, lhs) {
		if len(group) < 2 {
			continue
		}
		mode, ok := modeValue(table, rhs, group)
		if !ok {
			continue
		}
		correction := table.Value(rhs, mode)
		for _, rowId := range group {
			if rhsValues[rowId] == mode {
				continue
			}
			ruleError.Cells = append(ruleError.Cells, ErrorCell{
				Row:        int(rowId),
				Column:     rule.Rhs.ColumnId,
				Value:      table.Value(rhs, rhsValues[rowId]),
				Correction: correction,
			})
			ruleError.Corrections[correction] = append(ruleError.Corrections[correction], int(rowId))
		}
	}
	return ruleError, nil
}

// 组内出现最多的非空值, 次数相同时取字典序最小的值
func modeValue(table *table_data.Table, col int, group []uint32) (int32, bool) {
	values := table.ValueIndexes(col)
	counts := make(map[int32]int)
	for _, rowId := range group {
		if v := values[rowId]; v != rds_config.NilIndex {
			counts[v]++
		}
	}
	mode, best := rds_config.NilIndex, 0
	for v, c := range counts {
		if c > best || (c == best && table.Value(col, v) < table.Value(col, mode)) {
			mode, best = v, c
		}
	}
	return mode, best > 0
}

func (e *RuleError) Size() int {
	return len(e.Cells)
}

// SuspectRows 所有规则检测出的错误行
func SuspectRows(table *table_data.Table, rules []*global_variables.Rule) (*bitset.BitSet, []*RuleError, error) {
	suspect := bitset.New(uint(table.RowSize))
	ruleErrors := make([]*RuleError, 0, len(rules))
	for _, rule := range rules {
		ruleError, err := DetectErrors(table, rule)
		if err != nil {
			logger.Errorf("[SuspectRows] detect errors failed, rule:%v, err:%v", rule.Ree, err)
			return nil, nil, err
		}
		for _, cell := range ruleError.Cells {
			suspect.Set(uint(cell.Row))
		}
		ruleErrors = append(ruleErrors, ruleError)
	}
	logger.Infof("[SuspectRows] table:%v, rules:%v, suspect rows:%v", table.TableName, len(rules), suspect.Count())
	return suspect, ruleErrors, nil
}
