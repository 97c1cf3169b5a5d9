package rule_dig

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig"
	"gitlab.grandhoo.com/rock/rock_cfd/common"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables/table_data"
	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
	"gitlab.grandhoo.com/rock/rock_cfd/utils"
)

var fourRows = [][]string{
	{"A", "B", "Y"},
	{"1", "x", "p"},
	{"1", "x", "p"},
	{"2", "y", "q"},
	{"2", "z", "q"},
}

var fourRowsRees = []string{
	"t0.B=t1.B->t0.A=t1.A",
	"t0.Y=t1.Y->t0.A=t1.A",
	"t0.A=t1.A^t0.Y='p'^t1.Y='p'->t0.B=t1.B",
	"t0.Y=t1.Y^t0.A='1'^t1.A='1'->t0.B=t1.B",
	"t0.A=t1.A->t0.Y=t1.Y",
	"t0.B=t1.B->t0.Y=t1.Y",
}

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func writeData(t *testing.T, rows [][]string) string {
	path, err := utils.CreateCsv(t.TempDir(), "data.csv", rows)
	require.NoError(t, err)
	return path
}

func TestMineRulesParallelOrder(t *testing.T) {
	table, err := table_data.NewTable("t", fourRows[0], fourRows[1:])
	require.NoError(t, err)
	conf := cfd_rule_dig.Conf{EnumK: 4, Support: 0, Confidence: 1, TreeLevel: 1}

	sequential, err := MineRules(context.Background(), &MineInput{Table: table, Conf: conf, Parallelism: 1})
	require.NoError(t, err)
	require.Equal(t, fourRowsRees, sequential.Repository.Rees())
	require.Len(t, sequential.Trees, 3)
	require.Equal(t, sequential.CandidateSize, sequential.CDF[0])

	for i := 0; i < 5; i++ {
		parallel, err := MineRules(context.Background(), &MineInput{Table: table, Conf: conf, Parallelism: 8})
		require.NoError(t, err)
		if diff := cmp.Diff(sequential.Repository.Rules(), parallel.Repository.Rules()); diff != "" {
			t.Fatalf("parallel rules differ (-sequential +parallel):\n%s", diff)
		}
	}
}

func TestMineRulesRejects(t *testing.T) {
	table, err := table_data.NewTable("t", []string{"A"}, [][]string{{"a"}})
	require.NoError(t, err)
	_, err = MineRules(context.Background(), &MineInput{Table: table, Conf: cfd_rule_dig.DefaultConf()})
	require.True(t, errors.Is(err, common.ErrTooFewRows))

	_, err = MineRules(context.Background(), &MineInput{Table: table, Conf: cfd_rule_dig.Conf{EnumK: 1, TreeLevel: 1}})
	require.True(t, errors.Is(err, common.ErrInvalidConf))
}

func TestDigCfdRules(t *testing.T) {
	dataPath := writeData(t, fourRows)
	outputPath := filepath.Join(t.TempDir(), "out")

	resp, err := DigCfdRules(context.Background(), &cfd_rule_dig.CfdRequest{
		TaskId:     "task-1",
		DataPath:   dataPath,
		OutputPath: outputPath,
		EnumK:      intPtr(4),
		Support:    floatPtr(0),
		Confidence: floatPtr(1),
		TreeLevel:  intPtr(1),
		Trace:      true,
		CheckError: true,
	})
	require.NoError(t, err)
	require.Equal(t, "finish", resp.Message)
	require.Equal(t, 6, resp.Data.RuleSize)
	require.Equal(t, []string{"A", "B", "Y"}, resp.Data.EnumColumns)
	require.Equal(t, 1.0, resp.Data.ConfidenceMedian)
	require.Zero(t, resp.Data.SuspectRowSize)

	csvData, err := utils.GetCsvData(filepath.Join(outputPath, rds_config.RulesCsvName))
	require.NoError(t, err)
	require.Equal(t, rds_config.RulesCsvHeader, csvData[0])
	require.Len(t, csvData, 7)
	for i, ree := range fourRowsRees {
		require.Equal(t, ree, csvData[i+1][0])
	}

	snapshot, err := ReadSnapshot(filepath.Join(outputPath, rds_config.RulesSnapshotName))
	require.NoError(t, err)
	require.Equal(t, "task-1", snapshot.TaskId)
	require.Len(t, snapshot.Rules, 6)
	require.Equal(t, "p", snapshot.Rules[2].Predicate.ConstantValue)

	b, err := os.ReadFile(filepath.Join(outputPath, rds_config.RunManifestName))
	require.NoError(t, err)
	manifest := &RunManifest{}
	require.NoError(t, yaml.Unmarshal(b, manifest))
	require.Equal(t, 6, manifest.Data.RuleSize)
	require.Equal(t, 4, manifest.Data.Conf.EnumK)

	for _, rhs := range []string{"A", "B", "Y"} {
		require.FileExists(t, filepath.Join(outputPath, rds_config.TreeDotPrefix+rhs+rds_config.TreeDotSuffix))
	}
	require.FileExists(t, filepath.Join(outputPath, rds_config.ErrorsCsvName))
}

func TestCheckErrors(t *testing.T) {
	outputPath := t.TempDir()
	_, err := DigCfdRules(context.Background(), &cfd_rule_dig.CfdRequest{
		DataPath:   writeData(t, fourRows),
		OutputPath: outputPath,
		EnumK:      intPtr(4),
		Support:    floatPtr(0),
		Confidence: floatPtr(1),
		TreeLevel:  intPtr(1),
	})
	require.NoError(t, err)

	dirty := writeData(t, [][]string{
		{"A", "B", "Y"},
		{"1", "x", "p"},
		{"1", "x", "p"},
		{"1", "w", "q"},
		{"2", "y", "q"},
		{"2", "z", "q"},
	})
	resp, err := CheckErrors(&cfd_rule_dig.CheckErrorRequest{
		DataPath:     dirty,
		SnapshotPath: filepath.Join(outputPath, rds_config.RulesSnapshotName),
	})
	require.NoError(t, err)
	require.Contains(t, resp.SuspectRows, uint(2))
	require.Equal(t, uint(len(resp.SuspectRows)), resp.SuspectRowSize)

	_, err = CheckErrors(&cfd_rule_dig.CheckErrorRequest{DataPath: dirty})
	require.Error(t, err)
}

func TestPrintRules(t *testing.T) {
	table, err := table_data.NewTable("t", fourRows[0], fourRows[1:])
	require.NoError(t, err)
	output, err := MineRules(context.Background(), &MineInput{
		Table: table,
		Conf:  cfd_rule_dig.Conf{EnumK: 4, Support: 0, Confidence: 1, TreeLevel: 1},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintRules(&buf, output.Repository.Rules())
	require.Contains(t, buf.String(), "t0.A=t1.A->t0.Y=t1.Y")
	require.Contains(t, strings.ToLower(buf.String()), "6 rules")
}
