package global_variables

import (
	"sync"
	"sync/atomic"
	"time"
)

// GlobalV 一个挖掘任务运行期间的状态
type GlobalV struct {
	TaskId      string
	TableName   string
	RowSize     int
	EnumColumns []string
	Support     float64
	Confidence  float64
	TreeLevel   int
	StartTime   time.Time
	FinishedY   atomic.Int32 // 已经跑完的树
	RuleSize    atomic.Int64
}

// GlobalVariable ************************************************************************
var GlobalVariable = make(map[string]*GlobalV) //[taskID,GlobalV]
var GlobalVariableLock sync.RWMutex            //并发写入操作,加锁

func InitGlobalV(taskId string) *GlobalV {
	GlobalVariableLock.Lock()
	defer GlobalVariableLock.Unlock()
	gv := &GlobalV{
		TaskId:    taskId,
		StartTime: time.Now(),
	}
	GlobalVariable[taskId] = gv
	return gv
}

func GetGV(taskId string) (*GlobalV, bool) {
	GlobalVariableLock.RLock()
	defer GlobalVariableLock.RUnlock()
	gv, ok := GlobalVariable[taskId]
	return gv, ok
}

func RunningTasks() []*GlobalV {
	GlobalVariableLock.RLock()
	defer GlobalVariableLock.RUnlock()
	gvs := make([]*GlobalV, 0, len(GlobalVariable))
	for _, gv := range GlobalVariable {
		gvs = append(gvs, gv)
	}
	return gvs
}

func DeleteGV(taskId string) {
	GlobalVariableLock.Lock()
	delete(GlobalVariable, taskId)
	GlobalVariableLock.Unlock()
}

// IsJobRunning 同一时间只允许跑一个任务
var IsJobRunning atomic.Bool
