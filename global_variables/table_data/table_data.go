package table_data

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/pkg/errors"

	"gitlab.grandhoo.com/rock/rock_cfd/common"
	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
)

// Table 内存中的只读表, 每一列都做了字典编码
// 空字符串视为 nil, 编码为 rds_config.NilIndex
type Table struct {
	TableName string
	Columns   []string
	RowSize   int

	column2Index     map[string]int
	tableIndexValues [][]int32                   // column -> row -> valueIndex
	index2Value      [][]string                  // column -> valueIndex -> value, 按首次出现的顺序
	value2Index      []map[string]int32          // column -> value -> valueIndex
	indexPLI         []map[int32]*roaring.Bitmap // column -> valueIndex -> rowIds
}

// NewTable 按行构建表, rows 中每一行的长度必须和 columns 一致
func NewTable(tableName string, columns []string, rows [][]string) (*Table, error) {
	t := &Table{
		TableName:        tableName,
		Columns:          columns,
		RowSize:          len(rows),
		column2Index:     make(map[string]int, len(columns)),
		tableIndexValues: make([][]int32, len(columns)),
		index2Value:      make([][]string, len(columns)),
		value2Index:      make([]map[string]int32, len(columns)),
		indexPLI:         make([]map[int32]*roaring.Bitmap, len(columns)),
	}
	for i, column := range columns {
		if _, ok := t.column2Index[column]; ok {
			return nil, errors.Errorf("duplicate column %q in table %s", column, tableName)
		}
		t.column2Index[column] = i
		t.tableIndexValues[i] = make([]int32, len(rows))
		t.value2Index[i] = make(map[string]int32)
		t.indexPLI[i] = make(map[int32]*roaring.Bitmap)
	}

	for rowId, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.Errorf("row %d of table %s has %d cells, want %d", rowId, tableName, len(row), len(columns))
		}
		for col, value := range row {
			if value == "" {
				t.tableIndexValues[col][rowId] = rds_config.NilIndex
				continue
			}
			index, ok := t.value2Index[col][value]
			if !ok {
				index = int32(len(t.index2Value[col]))
				t.value2Index[col][value] = index
				t.index2Value[col] = append(t.index2Value[col], value)
				t.indexPLI[col][index] = roaring.New()
			}
			t.tableIndexValues[col][rowId] = index
			t.indexPLI[col][index].Add(uint32(rowId))
		}
	}
	return t, nil
}

func (t *Table) ColumnIndex(column string) (int, bool) {
	i, ok := t.column2Index[column]
	return i, ok
}

// MustColumnIndex 列名不存在时返回 common.ErrUnknownColumn
func (t *Table) MustColumnIndex(column string) (int, error) {
	i, ok := t.column2Index[column]
	if !ok {
		return 0, errors.Wrapf(common.ErrUnknownColumn, "column %q in table %s", column, t.TableName)
	}
	return i, nil
}

func (t *Table) ColumnIndexes(columns []string) ([]int, error) {
	indexes := make([]int, len(columns))
	for i, column := range columns {
		index, err := t.MustColumnIndex(column)
		if err != nil {
			return nil, err
		}
		indexes[i] = index
	}
	return indexes, nil
}

func (t *Table) ValueIndexes(col int) []int32 {
	return t.tableIndexValues[col]
}

func (t *Table) Value(col int, index int32) string {
	if index == rds_config.NilIndex {
		return ""
	}
	return t.index2Value[col][index]
}

func (t *Table) ValueIndex(col int, value string) (int32, bool) {
	index, ok := t.value2Index[col][value]
	return index, ok
}

// Cardinality 不同值的个数, 不包括 nil
func (t *Table) Cardinality(col int) int {
	return len(t.index2Value[col])
}

func (t *Table) Cell(row, col int) string {
	return t.Value(col, t.tableIndexValues[col][row])
}

// Pli 值 -> 行号 的倒排索引
func (t *Table) Pli(col int) map[int32]*roaring.Bitmap {
	return t.indexPLI[col]
}

// ValueRows 某列等于某个值的所有行, 值不存在时返回空 bitmap
func (t *Table) ValueRows(col int, index int32) *roaring.Bitmap {
	if rows, ok := t.indexPLI[col][index]; ok {
		return rows
	}
	return roaring.New()
}
