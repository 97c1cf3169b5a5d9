package utils

import (
	"encoding/json"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
)

func GetInterfaceToString(value interface{}) string {
	// interface 转 string
	var key string
	if value == nil {
		return key
	}

	switch v := value.(type) {
	case float64:
		key = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		key = strconv.FormatFloat(float64(v), 'f', -1, 64)
	case int:
		key = strconv.Itoa(v)
	case int32:
		key = strconv.Itoa(int(v))
	case uint32:
		key = strconv.Itoa(int(v))
	case int64:
		key = strconv.FormatInt(v, 10)
	case uint64:
		key = strconv.FormatUint(v, 10)
	case string:
		key = v
	case bool:
		key = strconv.FormatBool(v)
	case time.Time:
		key = v.String()
		// 2022-11-23 11:29:07 +0800 CST  这类格式把尾巴去掉
		key = strings.Replace(key, " +0800 CST", "", 1)
		key = strings.Replace(key, " +0000 UTC", "", 1)
	case []byte:
		key = string(v)
	default:
		newValue, _ := json.Marshal(value)
		key = string(newValue)
	}

	return key
}

// WorkerNum 按cpu数量和系数计算并发数, 最少为1, 最多为 rds_config.MAXCpuNum
func WorkerNum(coefficient float64) int {
	cpuNum := runtime.NumCPU()
	if cpuNum <= 0 {
		cpuNum = 1
	}
	if cpuNum > rds_config.MAXCpuNum {
		cpuNum = rds_config.MAXCpuNum
	}
	tokenNum := int(coefficient * float64(cpuNum))
	if tokenNum <= 0 {
		tokenNum = 1
	}
	return tokenNum
}

func GenTokenChan(coefficient float64) chan struct{} {
	tokenNum := WorkerNum(coefficient)
	ch := make(chan struct{}, tokenNum)
	for i := 0; i < tokenNum; i++ {
		ch <- struct{}{}
	}
	return ch
}

// PeriodString 纳秒转成可读的时间段, 如 1h2m3s, 35ms
func PeriodString(ns int64) string {
	d := time.Duration(ns)
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(time.Microsecond).String()
	default:
		return d.String()
	}
}

// GetProcessMemoryMB 当前进程的常驻内存
func GetProcessMemoryMB() float64 {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Warnf("[GetProcessMemoryMB] new process failed, err:%v", err)
		return 0
	}
	info, err := p.MemoryInfo()
	if err != nil {
		logger.Warnf("[GetProcessMemoryMB] read memory info failed, err:%v", err)
		return 0
	}
	return float64(info.RSS) / 1024 / 1024
}
