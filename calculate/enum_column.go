package calculate

import (
	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables/table_data"
)

// EnumColumn 枚举列, Values 是列中出现过的非空值, 按首次出现的顺序
type EnumColumn struct {
	Name   string
	Index  int
	Values []int32
}

// SelectEnumColumns 不同值个数在 (1, k] 之间的列, 保持表的列顺序
func SelectEnumColumns(table *table_data.Table, k int) []EnumColumn {
	enumColumns := make([]EnumColumn, 0, len(table.Columns))
	for i, column := range table.Columns {
		card := table.Cardinality(i)
		if card <= 1 || card > k {
			continue
		}
		values := make([]int32, card)
		for v := range values {
			values[v] = int32(v)
		}
		enumColumns = append(enumColumns, EnumColumn{Name: column, Index: i, Values: values})
	}
	logger.Infof("[SelectEnumColumns] table:%v, k:%v, enum columns:%v/%v", table.TableName, k, len(enumColumns), len(table.Columns))
	return enumColumns
}

// XColumns 除 y 以外的所有枚举列
func XColumns(y int, enumColumns []EnumColumn) []int {
	xs := make([]int, 0, len(enumColumns))
	for _, c := range enumColumns {
		if c.Index != y {
			xs = append(xs, c.Index)
		}
	}
	return xs
}

func EnumColumnNames(enumColumns []EnumColumn) []string {
	names := make([]string, len(enumColumns))
	for i, c := range enumColumns {
		names[i] = c.Name
	}
	return names
}
