package calculate

import (
	"math"

	"github.com/RoaringBitmap/roaring"
	"github.com/kelindar/intmap"

	"gitlab.grandhoo.com/rock/rock_cfd/global_variables/table_data"
	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
	"gitlab.grandhoo.com/rock/rock_cfd/utils/duration"
)

// PliDuration 所有 agree 计算累计耗时
var PliDuration duration.Duration

// partition 行的分组, rowIds[i] 属于 groupIds[i]
// 在某个分组列上为 nil 的行不属于任何分组, 直接丢弃
type partition struct {
	rowIds    []uint32
	groupIds  []uint32
	groupSize int
}

func newPartition(table *table_data.Table, rows *roaring.Bitmap) *partition {
	p := &partition{groupSize: 1}
	if rows == nil {
		p.rowIds = make([]uint32, table.RowSize)
		for i := range p.rowIds {
			p.rowIds[i] = uint32(i)
		}
	} else {
		p.rowIds = rows.ToArray()
	}
	p.groupIds = make([]uint32, len(p.rowIds))
	if len(p.rowIds) == 0 {
		p.groupSize = 0
	}
	return p
}

// refine 按一列细分分组, 返回新的 partition, 不修改 p
func (p *partition) refine(table *table_data.Table, col int) *partition {
	values := table.ValueIndexes(col)
	card := uint64(table.Cardinality(col))
	next := &partition{
		rowIds:   make([]uint32, 0, len(p.rowIds)),
		groupIds: make([]uint32, 0, len(p.rowIds)),
	}

	if uint64(p.groupSize)*card < math.MaxUint32 {
		// key 加 1, 避开 0
		m := intmap.New(len(p.rowIds)/4+16, 0.5)
		for i, rowId := range p.rowIds {
			v := values[rowId]
			if v == rds_config.NilIndex {
				continue
			}
			key := uint32(uint64(p.groupIds[i])*card+uint64(v)) + 1
			gid, ok := m.Load(key)
			if !ok {
				gid = uint32(next.groupSize)
				m.Store(key, gid)
				next.groupSize++
			}
			next.rowIds = append(next.rowIds, rowId)
			next.groupIds = append(next.groupIds, gid)
		}
		return next
	}

	m := make(map[uint64]uint32)
	for i, rowId := range p.rowIds {
		v := values[rowId]
		if v == rds_config.NilIndex {
			continue
		}
		key := uint64(p.groupIds[i])*card + uint64(v)
		gid, ok := m[key]
		if !ok {
			gid = uint32(next.groupSize)
			m[key] = gid
			next.groupSize++
		}
		next.rowIds = append(next.rowIds, rowId)
		next.groupIds = append(next.groupIds, gid)
	}
	return next
}

func (p *partition) agree() int64 {
	counts := make([]uint32, p.groupSize)
	for _, gid := range p.groupIds {
		counts[gid]++
	}
	var agree int64
	for _, c := range counts {
		agree += int64(c) * int64(c-1) // c 为 0 时乘积也是 0
	}
	return agree
}

func (p *partition) groups() [][]uint32 {
	groups := make([][]uint32, p.groupSize)
	for i, gid := range p.groupIds {
		groups[gid] = append(groups[gid], p.rowIds[i])
	}
	return groups
}

func buildPartition(table *table_data.Table, rows *roaring.Bitmap, columns []int) *partition {
	p := newPartition(table, rows)
	for _, col := range columns {
		p = p.refine(table, col)
	}
	return p
}

// Agree 按 columns 分组后 Σ c*(c-1), 即在 columns 上取值全部相同的有序行对数
// rows 为 nil 表示整张表, columns 为空时所有行同属一组
func Agree(table *table_data.Table, rows *roaring.Bitmap, columns []int) int64 {
	PliDuration.Enter()
	defer PliDuration.Exit()
	return buildPartition(table, rows, columns).agree()
}

// CalNode 一次分组同时算出 x 和 xy 的 agree
func CalNode(table *table_data.Table, rows *roaring.Bitmap, determinant []int, dependent int) (xAgree, xyAgree int64) {
	PliDuration.Enter()
	defer PliDuration.Exit()

	p := buildPartition(table, rows, determinant)
	xAgree = p.agree()
	if xAgree == 0 {
		return 0, 0
	}
	xyAgree = p.refine(table, dependent).agree()
	return xAgree, xyAgree
}

// GroupRows 按 columns 分组, 组的顺序为首行出现的顺序
func GroupRows(table *table_data.Table, rows *roaring.Bitmap, columns []int) [][]uint32 {
	return buildPartition(table, rows, columns).groups()
}
