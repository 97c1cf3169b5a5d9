package rule_dig

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables"
	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
	"gitlab.grandhoo.com/rock/rock_cfd/trees"
	"gitlab.grandhoo.com/rock/rock_cfd/utils"
)

// Snapshot rules.msgpack 的内容, 用于之后检测错误
type Snapshot struct {
	TaskId    string                   `msgpack:"task_id"`
	TableName string                   `msgpack:"table_name"`
	Conf      cfd_rule_dig.Conf        `msgpack:"conf"`
	Rules     []*global_variables.Rule `msgpack:"rules"`
}

// RunManifest run.yaml 的内容
type RunManifest struct {
	DataPath    string               `yaml:"data_path"`
	OutputPath  string               `yaml:"output_path"`
	Parallelism int                  `yaml:"parallelism"`
	StartTime   string               `yaml:"start_time"`
	Data        cfd_rule_dig.CfdData `yaml:"result"`
}

type OutputWriter struct {
	dir   string
	mu    sync.Mutex
	files []string
}

func NewOutputWriter(dir string) *OutputWriter {
	return &OutputWriter{dir: dir}
}

func (w *OutputWriter) addFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range w.files {
		if f == path {
			return
		}
	}
	w.files = append(w.files, path)
}

func (w *OutputWriter) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.files...)
}

// WriteRules rules.csv, 列为 rule,support,confidence
func (w *OutputWriter) WriteRules(rules []*global_variables.Rule) error {
	data := make([][]string, 0, len(rules)+1)
	data = append(data, rds_config.RulesCsvHeader)
	for _, rule := range rules {
		data = append(data, []string{rule.Ree, utils.GetInterfaceToString(rule.CR), utils.GetInterfaceToString(rule.FTR)})
	}
	path, err := utils.CreateCsv(w.dir, rds_config.RulesCsvName, data)
	if err != nil {
		logger.Errorf("[WriteRules] write rules failed, err:%v", err)
		return err
	}
	w.addFile(path)
	return nil
}

func (w *OutputWriter) WriteSnapshot(snapshot *Snapshot) error {
	b, err := msgpack.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}
	return w.writeFile(rds_config.RulesSnapshotName, b)
}

func ReadSnapshot(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot %s", path)
	}
	snapshot := &Snapshot{}
	if err = msgpack.Unmarshal(b, snapshot); err != nil {
		return nil, errors.Wrapf(err, "unmarshal snapshot %s", path)
	}
	return snapshot, nil
}

func (w *OutputWriter) WriteManifest(manifest *RunManifest) error {
	b, err := yaml.Marshal(manifest)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}
	return w.writeFile(rds_config.RunManifestName, b)
}

// WriteTreeDots 每个依赖列一个 tree_<rhs>.dot
func (w *OutputWriter) WriteTreeDots(outputs []*trees.TreeOutput) error {
	for _, output := range outputs {
		if output.Dot == "" {
			continue
		}
		name := rds_config.TreeDotPrefix + output.Rhs + rds_config.TreeDotSuffix
		if err := w.writeFile(name, []byte(output.Dot)); err != nil {
			return err
		}
	}
	return nil
}

func (w *OutputWriter) WriteErrors(ruleErrors []*cfd_rule_dig.RuleError) error {
	data := [][]string{rds_config.ErrorsCsvHeader}
	for _, ruleError := range ruleErrors {
		for _, cell := range ruleError.Cells {
			data = append(data, []string{ruleError.Ree, strconv.Itoa(cell.Row), cell.Column, cell.Value, cell.Correction})
		}
	}
	path, err := utils.CreateCsv(w.dir, rds_config.ErrorsCsvName, data)
	if err != nil {
		logger.Errorf("[WriteErrors] write errors failed, err:%v", err)
		return err
	}
	w.addFile(path)
	return nil
}

func (w *OutputWriter) writeFile(name string, b []byte) error {
	if err := os.MkdirAll(w.dir, 0777); err != nil {
		return errors.Wrapf(err, "mkdir %s", w.dir)
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, b, 0644); err != nil {
		logger.Errorf("[writeFile] write %v failed, err:%v", path, err)
		return errors.Wrapf(err, "write %s", path)
	}
	absPath, _ := filepath.Abs(path)
	w.addFile(absPath)
	return nil
}

// PrintRules 终端里打印规则表
func PrintRules(out io.Writer, rules []*global_variables.Rule) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "rule", "support", "confidence"})
	for i, rule := range rules {
		t.AppendRow(table.Row{i + 1, rule.Ree, fmt.Sprintf("%.6f", rule.CR), fmt.Sprintf("%.4f", rule.FTR)})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d rules", len(rules)), "", ""})
	t.Render()
}
