package server

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig"
	"gitlab.grandhoo.com/rock/rock_cfd/common"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables"
	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
	"gitlab.grandhoo.com/rock/rock_cfd/rule_dig"
)

func jobRunningHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 如果有任务正在执行，直接返回
		if !global_variables.IsJobRunning.CompareAndSwap(false, true) {
			logger.Infof("[jobRunningHandler] job is running, reject %v", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": common.ErrJobRunning.Error()})
			return
		}
		defer global_variables.IsJobRunning.Store(false)

		c.Next()
	}
}

func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/cfd", jobRunningHandler(), DigCfdRules)
	r.GET("/cfd/rules", GetCfdRules)
	r.GET("/cfd/tasks", GetRunningTasks)
	r.POST("/check-error", CheckError)
	return r
}

// Run 依次尝试 port 和 rds_config.GinPorts, 用第一个能监听的端口
func Run(port uint32) error {
	r := NewRouter()
	ports := append([]uint32{port}, rds_config.GinPorts...)
	for _, p := range ports {
		if p == 0 {
			continue
		}
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", p))
		if err != nil {
			logger.Warnf("[Run] listen on %v failed, err:%v", p, err)
			continue
		}
		logger.Infof("[Run] rock_cfd server listen on %v", p)
		return r.RunListener(listener)
	}
	return errors.New("no available port")
}

func DigCfdRules(c *gin.Context) {
	var req cfd_rule_dig.CfdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		logger.Warnf("[DigCfdRules] bind request failed, err:%v", err)
		return
	}
	logger.Infof("[DigCfdRules] request:%+v", req)

	resp, err := rule_dig.DigCfdRules(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrInvalidConf) || errors.Is(err, common.ErrTooFewRows) ||
			errors.Is(err, common.ErrOpenCsv) || errors.Is(err, common.ErrReadCsv) ||
			errors.Is(err, common.ErrReadExcel) || errors.Is(err, common.ErrEmptyTable) ||
			errors.Is(err, common.ErrUnknownColumn) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func GetCfdRules(c *gin.Context) {
	taskId := c.Query("taskId")
	if taskId == "" {
		var err error
		if taskId, err = cfd_rule_dig.GetLatestTaskId(); err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
	}
	rules, err := cfd_rule_dig.GetRulesByTaskId(taskId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"taskId": taskId,
		"data":   rules,
	})
}

func GetRunningTasks(c *gin.Context) {
	tasks := make([]gin.H, 0)
	for _, gv := range global_variables.RunningTasks() {
		tasks = append(tasks, gin.H{
			"taskId":      gv.TaskId,
			"tableName":   gv.TableName,
			"rowSize":     gv.RowSize,
			"enumColumns": gv.EnumColumns,
			"finishedY":   gv.FinishedY.Load(),
			"ruleSize":    gv.RuleSize.Load(),
			"elapsed":     time.Since(gv.StartTime).String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"running": global_variables.IsJobRunning.Load(),
		"data":    tasks,
	})
}

func CheckError(c *gin.Context) {
	var req cfd_rule_dig.CheckErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	resp, err := rule_dig.CheckErrors(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}
