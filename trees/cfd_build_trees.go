package trees

import (
	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"

	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/calculate"
	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig"
	"gitlab.grandhoo.com/rock/rock_cfd/common"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables/table_data"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables/task_tree"
)

type NodeStatus int

const (
	NodeAccepted   NodeStatus = iota // 满足阈值, 输出规则
	NodeLowSupport                   // support 不够, 丢弃
	NodeCarried                      // 进入下一层, 并尝试加常数谓词
)

func (s NodeStatus) String() string {
	switch s {
	case NodeAccepted:
		return "accepted"
	case NodeLowSupport:
		return "low_support"
	case NodeCarried:
		return "carried"
	}
	return "unknown"
}

type TreeInput struct {
	Table       *table_data.Table
	Rhs         int                    // 依赖列
	EnumColumns []calculate.EnumColumn // 候选的决定列和常数谓词都从这里取
	Conf        cfd_rule_dig.Conf
	Trace       bool
}

type TreeOutput struct {
	Rhs           string
	Rules         []*global_variables.Rule // 发现顺序
	CandidateSize int                      // 打过分的节点
	AcceptedSize  int
	PrunedSize    int
	CarriedSize   int
	RefinedSize   int          // 打过分的常数谓词
	LevelPruned   []mapset.Set // 每层被剪掉的列
	CDF           []int        // 节点 confidence 的分布
	Dot           string       // Trace 为 true 时的搜索树
}

// BuildTree 对一个依赖列逐层搜索
// 每层先展开上一层保留的全部节点, 再按生成顺序逐个判定:
// 满足阈值的节点输出规则, 并从下一层已经排队的节点中删掉它新加的列;
// support 不够的节点同样删列; 其余节点进入下一层, 并立即尝试常数谓词
func BuildTree(input *TreeInput) (*TreeOutput, error) {
	table, conf := input.Table, input.Conf
	if table.RowSize < 2 {
		return nil, errors.Wrapf(common.ErrTooFewRows, "table %s has %d rows", table.TableName, table.RowSize)
	}
	rhsName := table.Columns[input.Rhs]
	output := &TreeOutput{
		Rhs:         rhsName,
		Rules:       make([]*global_variables.Rule, 0),
		LevelPruned: make([]mapset.Set, 0, conf.TreeLevel),
		CDF:         cfd_rule_dig.NewCDF(),
	}

	root := task_tree.NewRootTree(input.Rhs, calculate.XColumns(input.Rhs, input.EnumColumns))
	var trace *treeTrace
	if input.Trace {
		trace = newTreeTrace(rhsName, table.Columns)
	}
	currLayer := []*layerNode{{node: root, traceId: trace.addRoot(root)}}

	for layer := 1; layer <= conf.TreeLevel; layer++ {
		children := make([]*layerNode, 0)
		for _, parent := range currLayer {
			for i := range parent.node.LhsCandidate {
				children = append(children, &layerNode{node: parent.node.Expand(i), parentId: parent.traceId})
			}
		}

		nextLayer := make([]*layerNode, 0)
		pruned := mapset.NewThreadUnsafeSet()
		for _, child := range children {
			xAgree, xyAgree := calculate.CalNode(table, nil, child.node.Lhs, input.Rhs)
			support, confidence, ok := conf.Score(xAgree, xyAgree, table.RowSize)
			output.CandidateSize++
			cfd_rule_dig.AddConfidence2CDF(confidence, output.CDF)

			var status NodeStatus
			switch {
			case ok:
				status = NodeAccepted
				output.AcceptedSize++
				output.Rules = append(output.Rules, newRule(table, child.node, nil, xAgree, xyAgree, support, confidence))
				deleteLhsCandidate(nextLayer, child.node.AddedColumn())
				pruned.Add(child.node.AddedColumn())
			case support < conf.Support:
				status = NodeLowSupport
				output.PrunedSize++
				deleteLhsCandidate(nextLayer, child.node.AddedColumn())
				pruned.Add(child.node.AddedColumn())
			default:
				status = NodeCarried
				output.CarriedSize++
				nextLayer = append(nextLayer, child)
				scores := calCFD(input, child.node)
				output.RefinedSize += len(scores)
				for _, score := range scores {
					if _, _, ok := conf.Score(score.XAgree, score.XyAgree, table.RowSize); !ok {
						continue
					}
					predicate := &global_variables.ConstantPredicate{
						Column:        global_variables.Column{ColumnId: table.Columns[score.Column], ColumnIndex: score.Column},
						ConstantValue: table.Value(score.Column, score.Value),
						ValueIndex:    score.Value,
					}
					output.Rules = append(output.Rules, newRule(table, child.node, predicate, score.XAgree, score.XyAgree, score.Support, score.Confidence))
				}
			}
			child.traceId = trace.addNode(child.parentId, child.node, status, support, confidence)
		}
		output.LevelPruned = append(output.LevelPruned, pruned)
		logger.Debugf("[BuildTree] rhs:%v, layer:%v, children:%v, next layer:%v, pruned:%v", rhsName, layer, len(children), len(nextLayer), pruned.ToSlice())
		currLayer = nextLayer
	}

	output.Dot = trace.String()
	logger.Infof("[BuildTree] rhs:%v, candidates:%v, accepted:%v, pruned:%v, carried:%v, refined:%v, rules:%v",
		rhsName, output.CandidateSize, output.AcceptedSize, output.PrunedSize, output.CarriedSize, output.RefinedSize, len(output.Rules))
	return output, nil
}

type layerNode struct {
	node     *task_tree.TaskTree
	traceId  string
	parentId string
}

// 节点不可变, 剪枝时替换成删掉候选列后的副本
func deleteLhsCandidate(layer []*layerNode, column int) {
	for _, n := range layer {
		n.node = n.node.DeleteCandidate(column)
	}
}

// calCFD 对保留下来的节点, 枚举除依赖列和决定列以外的每个枚举列的每个取值,
// 只在该取值的行上计算 agree, support 的分母仍然是整张表
func calCFD(input *TreeInput, node *task_tree.TaskTree) []*cfd_rule_dig.PredicateScore {
	table := input.Table
	exclude := mapset.NewThreadUnsafeSet()
	exclude.Add(node.Rhs)
	for _, column := range node.Lhs {
		exclude.Add(column)
	}

	scores := make([]*cfd_rule_dig.PredicateScore, 0)
	for _, enumColumn := range input.EnumColumns {
		if exclude.Contains(enumColumn.Index) {
			continue
		}
		for _, value := range enumColumn.Values {
			rows := table.ValueRows(enumColumn.Index, value)
			xAgree, xyAgree := calculate.CalNode(table, rows, node.Lhs, node.Rhs)
			support, confidence, _ := input.Conf.Score(xAgree, xyAgree, table.RowSize)
			scores = append(scores, &cfd_rule_dig.PredicateScore{
				Column:     enumColumn.Index,
				Value:      value,
				XAgree:     xAgree,
				XyAgree:    xyAgree,
				Support:    support,
				Confidence: confidence,
			})
		}
	}
	return scores
}

func newRule(table *table_data.Table, node *task_tree.TaskTree, predicate *global_variables.ConstantPredicate,
	xAgree, xyAgree int64, support, confidence float64) *global_variables.Rule {
	lhs := make([]global_variables.Column, len(node.Lhs))
	for i, c := range node.Lhs {
		lhs[i] = global_variables.Column{ColumnId: table.Columns[c], ColumnIndex: c}
	}
	rule := &global_variables.Rule{
		TableName: table.TableName,
		Lhs:       lhs,
		Rhs:       global_variables.Column{ColumnId: table.Columns[node.Rhs], ColumnIndex: node.Rhs},
		Predicate: predicate,
		XAgree:    xAgree,
		XyAgree:   xyAgree,
		CR:        support,
		FTR:       confidence,
	}
	rule.Ree = cfd_rule_dig.CreateRuleRee(rule)
	return rule
}
