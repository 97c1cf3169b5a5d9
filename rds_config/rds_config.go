package rds_config

const MAXCpuNum = 32

const GinPort = 19123

var GinPorts = []uint32{19123, 19124, 19125, 19126, 19127, 19128, 19129, 19130, 19131, 19132}

// NilIndex nil 值索引
const NilIndex = int32(-1)

// cfd 默认参数
const (
	EnumK      = 10      // 不同值个数<=EnumK的列视为枚举列
	Support    = 0.00005 // 最小support
	Confidence = 0.8     // 最小confidence
	TreeLevel  = 3       // 树的最大层数,也是lhs的最大长度
)

// 并发
const (
	TreeWorkerCoefficient = 1.0 // 每个cpu同时跑的树的数量
)

// 输出文件
const (
	RulesCsvName      = "rules.csv"
	RulesSnapshotName = "rules.msgpack"
	RunManifestName   = "run.yaml"
	ErrorsCsvName     = "errors.csv"
	TreeDotPrefix     = "tree_"
	TreeDotSuffix     = ".dot"
)

var RulesCsvHeader = []string{"rule", "support", "confidence"}

var ErrorsCsvHeader = []string{"rule", "row", "column", "value", "correction"}

// 数据库
const (
	DbTypePostgres = "postgres"
	DbTypeSqlite   = "sqlite"
)
