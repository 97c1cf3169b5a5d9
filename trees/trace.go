package trees

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"

	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables/task_tree"
)

var statusColor = map[NodeStatus]string{
	NodeAccepted:   "green",
	NodeLowSupport: "gray",
	NodeCarried:    "blue",
}

// treeTrace 记录搜索树, 输出 dot. nil 时所有方法都不做事
type treeTrace struct {
	graph   *gographviz.Graph
	name    string
	columns []string
	seq     int
}

func newTreeTrace(rhs string, columns []string) *treeTrace {
	name := strconv.Quote("tree_" + rhs)
	graph := gographviz.NewGraph()
	_ = graph.SetName(name)
	_ = graph.SetDir(true)
	return &treeTrace{graph: graph, name: name, columns: columns}
}

func (t *treeTrace) nextId() string {
	t.seq++
	return "n" + strconv.Itoa(t.seq)
}

func (t *treeTrace) addRoot(root *task_tree.TaskTree) string {
	if t == nil {
		return ""
	}
	id := t.nextId()
	label := fmt.Sprintf("-> %s", t.columns[root.Rhs])
	if err := t.graph.AddNode(t.name, id, map[string]string{"label": strconv.Quote(label), "shape": "box"}); err != nil {
		logger.Warnf("[treeTrace] add root failed, err:%v", err)
	}
	return id
}

func (t *treeTrace) addNode(parentId string, node *task_tree.TaskTree, status NodeStatus, support, confidence float64) string {
	if t == nil {
		return ""
	}
	id := t.nextId()
	lhs := make([]string, len(node.Lhs))
	for i, c := range node.Lhs {
		lhs[i] = t.columns[c]
	}
	label := fmt.Sprintf("%s\n%s\nsupp:%.4f conf:%.4f", strings.Join(lhs, "^"), status, support, confidence)
	attrs := map[string]string{
		"label": strconv.Quote(label),
		"color": statusColor[status],
	}
	if err := t.graph.AddNode(t.name, id, attrs); err != nil {
		logger.Warnf("[treeTrace] add node failed, err:%v", err)
	}
	if err := t.graph.AddEdge(parentId, id, true, nil); err != nil {
		logger.Warnf("[treeTrace] add edge failed, err:%v", err)
	}
	return id
}

func (t *treeTrace) String() string {
	if t == nil {
		return ""
	}
	return t.graph.String()
}
