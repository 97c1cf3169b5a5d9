package rule_dig

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"gitlab.grandhoo.com/rock/rock_cfd/base/config"
	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/calculate"
	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig"
	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig/dao"
	"gitlab.grandhoo.com/rock/rock_cfd/common"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables/table_data"
	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
	"gitlab.grandhoo.com/rock/rock_cfd/trees"
	"gitlab.grandhoo.com/rock/rock_cfd/utils"
)

type MineInput struct {
	Table       *table_data.Table
	Conf        cfd_rule_dig.Conf
	Parallelism int
	Trace       bool
	Gv          *global_variables.GlobalV // 可以为 nil
}

type MineOutput struct {
	EnumColumns   []calculate.EnumColumn
	Repository    *cfd_rule_dig.RuleRepository
	Trees         []*trees.TreeOutput // 和 EnumColumns 的顺序一致
	CDF           []int
	CandidateSize int
	TotalTime     int64 // ms
}

// MineRules 每个枚举列作为依赖列建一棵树, 树之间并发, 结果按枚举列的顺序合并
func MineRules(ctx context.Context, input *MineInput) (*MineOutput, error) {
	startTime := time.Now()
	table, conf := input.Table, input.Conf
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if table.RowSize < 2 {
		return nil, errors.Wrapf(common.ErrTooFewRows, "table %s has %d rows", table.TableName, table.RowSize)
	}

	enumColumns := calculate.SelectEnumColumns(table, conf.EnumK)
	if input.Gv != nil {
		input.Gv.EnumColumns = calculate.EnumColumnNames(enumColumns)
	}
	parallelism := input.Parallelism
	if parallelism <= 0 {
		parallelism = utils.WorkerNum(rds_config.TreeWorkerCoefficient)
	}
	logger.Infof("[MineRules] table:%v, rows:%v, enum columns:%v, conf:%+v, parallelism:%v",
		table.TableName, table.RowSize, calculate.EnumColumnNames(enumColumns), conf, parallelism)

	results := cmap.New()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, enumColumn := range enumColumns {
		y := enumColumn
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			output, err := trees.BuildTree(&trees.TreeInput{
				Table:       table,
				Rhs:         y.Index,
				EnumColumns: enumColumns,
				Conf:        conf,
				Trace:       input.Trace,
			})
			if err != nil {
				logger.Errorf("[MineRules] build tree failed, rhs:%v, err:%v", y.Name, err)
				return err
			}
			results.Set(y.Name, output)
			if input.Gv != nil {
				input.Gv.FinishedY.Add(1)
				input.Gv.RuleSize.Add(int64(len(output.Rules)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	output := &MineOutput{
		EnumColumns: enumColumns,
		Repository:  cfd_rule_dig.NewRuleRepository(),
		Trees:       make([]*trees.TreeOutput, 0, len(enumColumns)),
		CDF:         cfd_rule_dig.NewCDF(),
	}
	for _, enumColumn := range enumColumns {
		v, ok := results.Get(enumColumn.Name)
		if !ok {
			return nil, errors.Errorf("no result for rhs %s", enumColumn.Name)
		}
		treeOutput := v.(*trees.TreeOutput)
		output.Trees = append(output.Trees, treeOutput)
		output.Repository.Add(treeOutput.Rules...)
		output.CDF = cfd_rule_dig.MergeCDF(output.CDF, treeOutput.CDF)
		output.CandidateSize += treeOutput.CandidateSize
	}
	output.TotalTime = time.Since(startTime).Milliseconds()
	logger.Infof("[MineRules] find %v rules, candidates:%v, time:%vms, pli time:%v",
		output.Repository.Len(), output.CandidateSize, output.TotalTime, calculate.PliDuration.AccumulationString())
	return output, nil
}

// DigCfdRules 读数据, 挖规则, 写结果文件, 落库
func DigCfdRules(ctx context.Context, req *cfd_rule_dig.CfdRequest) (*cfd_rule_dig.CfdResponse, error) {
	startTime := time.Now()
	taskId := req.TaskId
	if taskId == "" {
		taskId = uuid.NewString()
	}
	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = "."
	}
	if err := os.MkdirAll(outputPath, 0777); err != nil {
		logger.Warnf("[DigCfdRules] create directory %v failed: %v", outputPath, err)
	}

	table, err := utils.LoadTable(req.DataPath, req.Columns)
	if err != nil {
		logger.Errorf("[DigCfdRules] load table failed, path:%v, err:%v", req.DataPath, err)
		return nil, err
	}
	conf := cfd_rule_dig.DefaultConf().Merge(req.EnumK, req.Support, req.Confidence, req.TreeLevel)
	if err = conf.Validate(); err != nil {
		return nil, err
	}

	gv := global_variables.InitGlobalV(taskId)
	defer global_variables.DeleteGV(taskId)
	gv.TableName, gv.RowSize = table.TableName, table.RowSize
	gv.Support, gv.Confidence, gv.TreeLevel = conf.Support, conf.Confidence, conf.TreeLevel

	parallelism := req.Parallelism
	if parallelism <= 0 {
		parallelism = config.All.Cfd.Parallelism
	}
	mined, err := MineRules(ctx, &MineInput{
		Table:       table,
		Conf:        conf,
		Parallelism: parallelism,
		Trace:       req.Trace || config.All.Cfd.Trace,
		Gv:          gv,
	})
	if err != nil {
		return nil, err
	}
	rules := mined.Repository.Rules()

	data := cfd_rule_dig.CfdData{
		RuleSize:      len(rules),
		TaskId:        taskId,
		TableName:     table.TableName,
		RowSize:       table.RowSize,
		EnumColumns:   calculate.EnumColumnNames(mined.EnumColumns),
		Conf:          conf,
		PliTime:       calculate.PliDuration.AccumulationString(),
		CandidateSize: mined.CandidateSize,
		ConfidenceCDF: mined.CDF,
	}
	data.ValidSize, data.InvalidSize = cfd_rule_dig.GetValidAndInvalidCount(conf.Confidence, mined.CDF)
	supports, confidences := mined.Repository.Indicators()
	data.SupportMean, data.SupportMedian = meanAndMedian(supports)
	data.ConfidenceMean, data.ConfidenceMedian = meanAndMedian(confidences)

	writer := NewOutputWriter(outputPath)
	if err = writer.WriteRules(rules); err != nil {
		return nil, err
	}
	if err = writer.WriteSnapshot(&Snapshot{TaskId: taskId, TableName: table.TableName, Conf: conf, Rules: rules}); err != nil {
		return nil, err
	}
	if req.Trace || config.All.Cfd.Trace {
		if err = writer.WriteTreeDots(mined.Trees); err != nil {
			return nil, err
		}
	}
	if req.CheckError {
		suspect, ruleErrors, err := cfd_rule_dig.SuspectRows(table, rules)
		if err != nil {
			return nil, err
		}
		data.SuspectRowSize = suspect.Count()
		for _, ruleError := range ruleErrors {
			data.ErrorCellSize += ruleError.Size()
		}
		if err = writer.WriteErrors(ruleErrors); err != nil {
			return nil, err
		}
	}

	err = cfd_rule_dig.SaveCfdRules(&dao.CfdTask{
		TaskId:     taskId,
		DataTable:  table.TableName,
		DataPath:   req.DataPath,
		EnumK:      conf.EnumK,
		Support:    conf.Support,
		Confidence: conf.Confidence,
		TreeLevel:  conf.TreeLevel,
		RowSize:    table.RowSize,
		TotalTime:  mined.TotalTime,
	}, rules)
	if err != nil {
		return nil, err
	}

	data.MemoryMB = utils.GetProcessMemoryMB()
	data.TotalTime = time.Since(startTime).Milliseconds()
	data.OutputFiles = writer.Files()
	if err = writer.WriteManifest(&RunManifest{
		DataPath:    req.DataPath,
		OutputPath:  outputPath,
		Parallelism: parallelism,
		StartTime:   startTime.Format(time.RFC3339),
		Data:        data,
	}); err != nil {
		return nil, err
	}
	data.OutputFiles = writer.Files()

	logger.Infof("[DigCfdRules] taskId:%v, find %v rules, time:%vms", taskId, len(rules), data.TotalTime)
	return &cfd_rule_dig.CfdResponse{Message: "finish", Data: data}, nil
}

// CheckErrors 用已有的规则检测一份数据
func CheckErrors(req *cfd_rule_dig.CheckErrorRequest) (*cfd_rule_dig.CheckErrorResponse, error) {
	var rules []*global_variables.Rule
	switch {
	case req.SnapshotPath != "":
		snapshot, err := ReadSnapshot(req.SnapshotPath)
		if err != nil {
			return nil, err
		}
		rules = snapshot.Rules
	case req.TaskId != "":
		var err error
		rules, err = cfd_rule_dig.GetRulesByTaskId(req.TaskId)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("snapshot_path or taskId is required")
	}

	table, err := utils.LoadTable(req.DataPath, req.Columns)
	if err != nil {
		return nil, err
	}
	suspect, ruleErrors, err := cfd_rule_dig.SuspectRows(table, rules)
	if err != nil {
		return nil, err
	}
	rows := make([]uint, 0, suspect.Count())
	for i, ok := suspect.NextSet(0); ok; i, ok = suspect.NextSet(i + 1) {
		rows = append(rows, i)
	}
	return &cfd_rule_dig.CheckErrorResponse{
		Message:        "finish",
		SuspectRowSize: suspect.Count(),
		SuspectRows:    rows,
		Errors:         ruleErrors,
	}, nil
}

func meanAndMedian(data []float64) (mean, median float64) {
	if len(data) == 0 {
		return 0, 0
	}
	mean, _ = stats.Mean(data)
	median, _ = stats.Median(data)
	return
}
