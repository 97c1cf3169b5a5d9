package cfd_rule_dig

type CfdRequest struct {
	TaskId      string   `json:"taskId"`
	DataPath    string   `json:"data_path" binding:"required"`
	OutputPath  string   `json:"output_path"`
	Columns     []string `json:"columns"` // 为空时使用所有列
	EnumK       *int     `json:"enum_k"`
	Support     *float64 `json:"support"`
	Confidence  *float64 `json:"confidence"`
	TreeLevel   *int     `json:"tree_level"`
	Parallelism int      `json:"parallelism"` // <=0 时使用配置
	Trace       bool     `json:"trace"`       // 输出每棵树的 dot 文件
	CheckError  bool     `json:"checkError"`  // 用挖出的规则检测数据错误
}

type CfdResponse struct {
	Message string  `json:"message"`
	Data    CfdData `json:"data"`
}

type CfdData struct {
	RuleSize         int      `json:"rule size" yaml:"rule_size"`
	TaskId           string   `json:"taskId" yaml:"task_id"`
	TableName        string   `json:"tableName" yaml:"table_name"`
	RowSize          int      `json:"rowSize" yaml:"row_size"`
	EnumColumns      []string `json:"enumColumns" yaml:"enum_columns"`
	Conf             Conf     `json:"conf" yaml:"conf"`
	TotalTime        int64    `json:"totalTime" yaml:"total_time"` // ms
	PliTime          string   `json:"pliTime" yaml:"pli_time"`
	CandidateSize    int      `json:"candidateSize" yaml:"candidate_size"`
	ValidSize        int      `json:"validSize" yaml:"valid_size"`     // 由 cdf 估计的 confidence 达标的候选数
	InvalidSize      int      `json:"invalidSize" yaml:"invalid_size"` // 由 cdf 估计的 confidence 不达标的候选数
	SupportMean      float64  `json:"supportMean" yaml:"support_mean"`
	SupportMedian    float64  `json:"supportMedian" yaml:"support_median"`
	ConfidenceMean   float64  `json:"confidenceMean" yaml:"confidence_mean"`
	ConfidenceMedian float64  `json:"confidenceMedian" yaml:"confidence_median"`
	ConfidenceCDF    []int    `json:"confidenceCDF" yaml:"confidence_cdf"`
	MemoryMB         float64  `json:"memoryMB" yaml:"memory_mb"`
	SuspectRowSize   uint     `json:"suspectRowSize" yaml:"suspect_row_size"`
	ErrorCellSize    int      `json:"errorCellSize" yaml:"error_cell_size"`
	OutputFiles      []string `json:"outputFiles" yaml:"output_files"`
}

type CheckErrorRequest struct {
	DataPath     string   `json:"data_path" binding:"required"`
	SnapshotPath string   `json:"snapshot_path"` // rules.msgpack, 为空时用 taskId 从数据库取规则
	TaskId       string   `json:"taskId"`
	Columns      []string `json:"columns"`
}

type CheckErrorResponse struct {
	Message        string       `json:"message"`
	SuspectRowSize uint         `json:"suspectRowSize"`
	SuspectRows    []uint       `json:"suspectRows"`
	Errors         []*RuleError `json:"errors"`
}
