package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig"
	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
	"gitlab.grandhoo.com/rock/rock_cfd/rule_dig"
)

var mineFlags struct {
	data        string
	output      string
	taskId      string
	columns     []string
	enumK       int
	support     float64
	confidence  float64
	treeLevel   int
	parallelism int
	trace       bool
	checkError  bool
	quiet       bool
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine cfd rules from a table and write them to the output directory",
	Example: `  rock_cfd mine --data adult.csv --output out --enum-k 10 --support 0.001 --confidence 0.9
  rock_cfd mine --data sales.xlsx --columns region,product,price --tree-level 2 --trace`,
	RunE: runMine,
}

func init() {
	f := mineCmd.Flags()
	f.StringVar(&mineFlags.data, "data", "", "csv or xlsx file to mine")
	f.StringVar(&mineFlags.output, "output", ".", "directory for rules.csv, rules.msgpack, run.yaml")
	f.StringVar(&mineFlags.taskId, "task-id", "", "task id, a uuid is generated when empty")
	f.StringSliceVar(&mineFlags.columns, "columns", nil, "only read these columns")
	f.IntVar(&mineFlags.enumK, "enum-k", 0, "columns with at most enum-k distinct values are enum columns")
	f.Float64Var(&mineFlags.support, "support", 0, "minimum support")
	f.Float64Var(&mineFlags.confidence, "confidence", 0, "minimum confidence")
	f.IntVar(&mineFlags.treeLevel, "tree-level", 0, "maximum number of determinant columns")
	f.IntVar(&mineFlags.parallelism, "parallelism", 0, "trees mined at the same time, 0 means by cpu")
	f.BoolVar(&mineFlags.trace, "trace", false, "write the search tree of every dependent column as dot")
	f.BoolVar(&mineFlags.checkError, "check-error", false, "detect violating cells with the mined rules")
	f.BoolVarP(&mineFlags.quiet, "quiet", "q", false, "do not print the rule table")
	_ = mineCmd.MarkFlagRequired("data")
}

// newCfdRequest 只有显式给出的阈值才覆盖配置
func newCfdRequest(cmd *cobra.Command) *cfd_rule_dig.CfdRequest {
	req := &cfd_rule_dig.CfdRequest{
		TaskId:      mineFlags.taskId,
		DataPath:    mineFlags.data,
		OutputPath:  mineFlags.output,
		Columns:     mineFlags.columns,
		Parallelism: mineFlags.parallelism,
		Trace:       mineFlags.trace,
		CheckError:  mineFlags.checkError,
	}
	f := cmd.Flags()
	if f.Changed("enum-k") {
		req.EnumK = &mineFlags.enumK
	}
	if f.Changed("support") {
		req.Support = &mineFlags.support
	}
	if f.Changed("confidence") {
		req.Confidence = &mineFlags.confidence
	}
	if f.Changed("tree-level") {
		req.TreeLevel = &mineFlags.treeLevel
	}
	return req
}

func runMine(cmd *cobra.Command, _ []string) error {
	req := newCfdRequest(cmd)
	resp, err := rule_dig.DigCfdRules(cmd.Context(), req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !mineFlags.quiet {
		snapshot, err := rule_dig.ReadSnapshot(filepath.Join(req.OutputPath, rds_config.RulesSnapshotName))
		if err != nil {
			return err
		}
		rule_dig.PrintRules(out, snapshot.Rules)
	}
	data := resp.Data
	fmt.Fprintf(out, "task:%s table:%s rows:%d enum columns:%s\n",
		data.TaskId, data.TableName, data.RowSize, strings.Join(data.EnumColumns, ","))
	fmt.Fprintf(out, "rules:%d candidates:%d time:%dms pli:%s\n",
		data.RuleSize, data.CandidateSize, data.TotalTime, data.PliTime)
	if req.CheckError {
		fmt.Fprintf(out, "suspect rows:%d error cells:%d\n", data.SuspectRowSize, data.ErrorCellSize)
	}
	for _, file := range data.OutputFiles {
		fmt.Fprintln(out, file)
	}
	return nil
}
