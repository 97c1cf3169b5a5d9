package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig"
	"gitlab.grandhoo.com/rock/rock_cfd/rule_dig"
)

var checkFlags struct {
	data     string
	snapshot string
	taskId   string
	columns  []string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Detect cells violating rules mined before",
	Example: `  rock_cfd check --data adult_dirty.csv --snapshot out/rules.msgpack
  rock_cfd check --data adult_dirty.csv --task-id 6f1c...`,
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkFlags.data, "data", "", "csv or xlsx file to check")
	f.StringVar(&checkFlags.snapshot, "snapshot", "", "rules.msgpack written by mine")
	f.StringVar(&checkFlags.taskId, "task-id", "", "read rules of this task from db")
	f.StringSliceVar(&checkFlags.columns, "columns", nil, "only read these columns")
	_ = checkCmd.MarkFlagRequired("data")
	checkCmd.MarkFlagsMutuallyExclusive("snapshot", "task-id")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	resp, err := rule_dig.CheckErrors(&cfd_rule_dig.CheckErrorRequest{
		DataPath:     checkFlags.data,
		SnapshotPath: checkFlags.snapshot,
		TaskId:       checkFlags.taskId,
		Columns:      checkFlags.columns,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, ruleError := range resp.Errors {
		for _, cell := range ruleError.Cells {
			fmt.Fprintf(out, "row %d %s=%q should be %q by %s\n", cell.Row, cell.Column, cell.Value, cell.Correction, ruleError.Ree)
		}
	}
	fmt.Fprintf(out, "suspect rows:%d\n", resp.SuspectRowSize)
	return nil
}
