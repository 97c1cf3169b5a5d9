package common

import "github.com/pkg/errors"

var (
	ErrOpenCsv       = errors.New("open csv failed")
	ErrReadCsv       = errors.New("read csv failed")
	ErrReadExcel     = errors.New("read excel failed")
	ErrEmptyTable    = errors.New("table has no rows")
	ErrTooFewRows    = errors.New("table needs at least two rows to score row pairs")
	ErrInvalidConf   = errors.New("invalid cfd conf")
	ErrUnknownColumn = errors.New("unknown column")
	ErrJobRunning    = errors.New("a job is running")
)
