package task_tree

import (
	"fmt"
	"strings"
)

// TaskTree 搜索树上的一个节点, 节点创建后不再修改
type TaskTree struct {
	Rhs          int   // 依赖列
	Lhs          []int // 决定列, 0层为空、1层1个、2层2个
	LhsCandidate []int // 还可以加入 lhs 的候选列, 有序
}

func NewRootTree(rhs int, candidates []int) *TaskTree {
	return &TaskTree{
		Rhs:          rhs,
		Lhs:          []int{},
		LhsCandidate: append([]int(nil), candidates...),
	}
}

// Expand 把第 i 个候选列加入 lhs, 子节点的候选为 i 之后的部分
func (tree *TaskTree) Expand(i int) *TaskTree {
	lhs := make([]int, len(tree.Lhs)+1)
	copy(lhs, tree.Lhs)
	lhs[len(tree.Lhs)] = tree.LhsCandidate[i]
	return &TaskTree{
		Rhs:          tree.Rhs,
		Lhs:          lhs,
		LhsCandidate: append([]int(nil), tree.LhsCandidate[i+1:]...),
	}
}

// DeleteCandidate 返回删掉候选列 col 之后的副本, 没有该列时返回自身
func (tree *TaskTree) DeleteCandidate(col int) *TaskTree {
	for i, c := range tree.LhsCandidate {
		if c != col {
			continue
		}
		candidate := make([]int, 0, len(tree.LhsCandidate)-1)
		candidate = append(candidate, tree.LhsCandidate[:i]...)
		candidate = append(candidate, tree.LhsCandidate[i+1:]...)
		return &TaskTree{Rhs: tree.Rhs, Lhs: tree.Lhs, LhsCandidate: candidate}
	}
	return tree
}

// AddedColumn 最后加入 lhs 的列, 根节点返回 -1
func (tree *TaskTree) AddedColumn() int {
	if len(tree.Lhs) == 0 {
		return -1
	}
	return tree.Lhs[len(tree.Lhs)-1]
}

func (tree *TaskTree) Level() int {
	return len(tree.Lhs)
}

func (tree *TaskTree) Tostring(columns []string) string {
	lhsArr := make([]string, len(tree.Lhs))
	for i, c := range tree.Lhs {
		lhsArr[i] = columns[c]
	}
	candidateArr := make([]string, len(tree.LhsCandidate))
	for i, c := range tree.LhsCandidate {
		candidateArr[i] = columns[c]
	}
	return fmt.Sprintf("rhs:%s, lhs:%s, candidate:%s", columns[tree.Rhs], strings.Join(lhsArr, "^"), strings.Join(candidateArr, ","))
}
