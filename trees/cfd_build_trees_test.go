package trees

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"gitlab.grandhoo.com/rock/rock_cfd/calculate"
	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig"
	"gitlab.grandhoo.com/rock/rock_cfd/common"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables/table_data"
)

func newTreeInput(t *testing.T, columns []string, rows [][]string, rhs string, conf cfd_rule_dig.Conf) *TreeInput {
	table, err := table_data.NewTable("t", columns, rows)
	if err != nil {
		t.Fatal(err)
	}
	y, ok := table.ColumnIndex(rhs)
	if !ok {
		t.Fatalf("no column %s", rhs)
	}
	return &TreeInput{
		Table:       table,
		Rhs:         y,
		EnumColumns: calculate.SelectEnumColumns(table, conf.EnumK),
		Conf:        conf,
	}
}

func rees(output *TreeOutput) []string {
	result := make([]string, len(output.Rules))
	for i, rule := range output.Rules {
		result[i] = rule.Ree
	}
	return result
}

var fourRows = [][]string{
	{"1", "x", "p"},
	{"1", "x", "p"},
	{"2", "y", "q"},
	{"2", "z", "q"},
}

func TestBuildTreeFourRows(t *testing.T) {
	Convey("zero support keeps both single column rules", t, func() {
		input := newTreeInput(t, []string{"A", "B", "Y"}, fourRows, "Y",
			cfd_rule_dig.Conf{EnumK: 4, Support: 0, Confidence: 1, TreeLevel: 1})
		output, err := BuildTree(input)
		So(err, ShouldBeNil)
		So(rees(output), ShouldResemble, []string{"t0.A=t1.A->t0.Y=t1.Y", "t0.B=t1.B->t0.Y=t1.Y"})

		a := output.Rules[0]
		So(a.XAgree, ShouldEqual, 4)
		So(a.XyAgree, ShouldEqual, 4)
		So(a.CR, ShouldAlmostEqual, 4.0/12)
		So(a.FTR, ShouldEqual, 1.0)

		b := output.Rules[1]
		So(b.CR, ShouldAlmostEqual, 2.0/12)
		So(b.FTR, ShouldEqual, 1.0)
		So(output.CandidateSize, ShouldEqual, 2)
		So(output.AcceptedSize, ShouldEqual, 2)
		So(output.CDF[0], ShouldEqual, 2)
	})

	Convey("the single agreeing pair on B falls under a higher support", t, func() {
		input := newTreeInput(t, []string{"A", "B", "Y"}, fourRows, "Y",
			cfd_rule_dig.Conf{EnumK: 4, Support: 0.2, Confidence: 1, TreeLevel: 1})
		output, err := BuildTree(input)
		So(err, ShouldBeNil)
		So(rees(output), ShouldResemble, []string{"t0.A=t1.A->t0.Y=t1.Y"})
		So(output.PrunedSize, ShouldEqual, 1)
	})

	Convey("carried nodes get constant predicates", t, func() {
		input := newTreeInput(t, []string{"A", "B", "Y"}, fourRows, "B",
			cfd_rule_dig.Conf{EnumK: 4, Support: 0, Confidence: 1, TreeLevel: 1})
		output, err := BuildTree(input)
		So(err, ShouldBeNil)
		So(rees(output), ShouldResemble, []string{
			"t0.A=t1.A^t0.Y='p'^t1.Y='p'->t0.B=t1.B",
			"t0.Y=t1.Y^t0.A='1'^t1.A='1'->t0.B=t1.B",
		})
		So(output.CarriedSize, ShouldEqual, 2)
		So(output.RefinedSize, ShouldEqual, 4)
		So(output.Rules[0].CR, ShouldAlmostEqual, 2.0/12)
		So(output.Rules[0].Predicate.ConstantValue, ShouldEqual, "p")
	})

	Convey("deeper levels than candidates just do nothing", t, func() {
		input := newTreeInput(t, []string{"A", "B", "Y"}, fourRows, "Y",
			cfd_rule_dig.Conf{EnumK: 4, Support: 0, Confidence: 1, TreeLevel: 5})
		output, err := BuildTree(input)
		So(err, ShouldBeNil)
		So(len(output.Rules), ShouldEqual, 2)
		So(len(output.LevelPruned), ShouldEqual, 5)
	})
}

func TestBuildTreeConditional(t *testing.T) {
	rows := [][]string{
		{"c1", "d1", "y1"},
		{"c1", "d1", "y1"},
		{"c1", "d2", "y1"},
		{"c1", "d2", "y2"},
		{"c2", "d1", "y3"},
		{"c2", "d1", "y3"},
		{"c2", "d2", "y4"},
		{"c2", "d2", "y5"},
	}

	Convey("C holds only under D=d1", t, func() {
		input := newTreeInput(t, []string{"C", "D", "Y"}, rows, "Y",
			cfd_rule_dig.Conf{EnumK: 5, Support: 0, Confidence: 0.9, TreeLevel: 1})
		output, err := BuildTree(input)
		So(err, ShouldBeNil)
		So(rees(output), ShouldResemble, []string{"t0.C=t1.C^t0.D='d1'^t1.D='d1'->t0.Y=t1.Y"})

		rule := output.Rules[0]
		So(rule.Predicate.Column.ColumnId, ShouldEqual, "D")
		So(rule.XAgree, ShouldEqual, 4)
		So(rule.XyAgree, ShouldEqual, 4)
		So(rule.CR, ShouldAlmostEqual, 4.0/56)
		So(rule.FTR, ShouldEqual, 1.0)
	})
}

func TestBuildTreePrune(t *testing.T) {
	rows := [][]string{
		{"a1", "b1", "c1", "y1"},
		{"a1", "b1", "c2", "y1"},
		{"a1", "b2", "c1", "y2"},
		{"a2", "b2", "c2", "y2"},
		{"a2", "b3", "c1", "y3"},
		{"a2", "b3", "c2", "y3"},
	}
	conf := cfd_rule_dig.Conf{EnumK: 3, Support: 0.05, Confidence: 0.9, TreeLevel: 2}

	Convey("accepted and low support columns leave the queued nodes", t, func() {
		input := newTreeInput(t, []string{"A", "B", "C", "Y"}, rows, "Y", conf)
		output, err := BuildTree(input)
		So(err, ShouldBeNil)

		// A 进入下一层后, B 满足阈值, C support 不够, A 的候选被删空, 第二层没有节点
		So(output.CandidateSize, ShouldEqual, 3)
		So(output.AcceptedSize, ShouldEqual, 1)
		So(output.PrunedSize, ShouldEqual, 1)
		So(output.CarriedSize, ShouldEqual, 1)
		So(output.LevelPruned[0].Cardinality(), ShouldEqual, 2)
		So(output.LevelPruned[0].Contains(1, 2), ShouldBeTrue)
		So(output.LevelPruned[1].Cardinality(), ShouldEqual, 0)

		So(rees(output), ShouldResemble, []string{
			"t0.A=t1.A^t0.B='b1'^t1.B='b1'->t0.Y=t1.Y",
			"t0.A=t1.A^t0.B='b3'^t1.B='b3'->t0.Y=t1.Y",
			"t0.B=t1.B->t0.Y=t1.Y",
		})
		for _, rule := range output.Rules {
			if rule.Predicate != nil {
				So(rule.LhsNames(), ShouldResemble, []string{"A"})
			}
		}
	})

	Convey("search is idempotent", t, func() {
		input := newTreeInput(t, []string{"A", "B", "C", "Y"}, rows, "Y", conf)
		first, err := BuildTree(input)
		So(err, ShouldBeNil)
		second, err := BuildTree(input)
		So(err, ShouldBeNil)
		if diff := cmp.Diff(first.Rules, second.Rules); diff != "" {
			t.Errorf("rules differ (-first +second):\n%s", diff)
		}
		So(second.CDF, ShouldResemble, first.CDF)
	})

	Convey("trace renders every scored node", t, func() {
		input := newTreeInput(t, []string{"A", "B", "C", "Y"}, rows, "Y", conf)
		input.Trace = true
		output, err := BuildTree(input)
		So(err, ShouldBeNil)
		So(output.Dot, ShouldContainSubstring, "digraph")
		So(output.Dot, ShouldContainSubstring, "accepted")
		So(output.Dot, ShouldContainSubstring, "low_support")
		So(output.Dot, ShouldContainSubstring, "n4")
	})
}

func TestBuildTreeTooFewRows(t *testing.T) {
	Convey("a single row has no pairs", t, func() {
		input := newTreeInput(t, []string{"A", "Y"}, [][]string{{"a", "y"}}, "Y",
			cfd_rule_dig.Conf{EnumK: 4, Support: 0, Confidence: 1, TreeLevel: 1})
		_, err := BuildTree(input)
		So(errors.Is(err, common.ErrTooFewRows), ShouldBeTrue)
	})
}
