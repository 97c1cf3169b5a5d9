package utils

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/wxnacy/wgo/arrays"
	"github.com/xuri/excelize/v2"

	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
	"gitlab.grandhoo.com/rock/rock_cfd/common"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables/table_data"
	"gitlab.grandhoo.com/rock/rock_cfd/utils/string_pool"
)

const utf8Bom = "\xEF\xBB\xBF"

func GetCsvData(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		logger.Errorf("[GetCsvData] open csv failed, path:%v, err:%v", path, err)
		return nil, errors.Wrap(common.ErrOpenCsv, err.Error())
	}
	defer f.Close()
	reader := csv.NewReader(f)
	preData, err := reader.ReadAll()
	if err != nil {
		logger.Errorf("[GetCsvData] read csv failed, path:%v, err:%v", path, err)
		return nil, errors.Wrap(common.ErrReadCsv, err.Error())
	}
	if len(preData) > 0 && len(preData[0]) > 0 {
		preData[0][0] = strings.TrimPrefix(preData[0][0], utf8Bom)
	}
	return preData, nil
}

// GetExcelData 读取第一个 sheet, 短行补齐成表头的长度
func GetExcelData(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		logger.Errorf("[GetExcelData] open excel failed, path:%v, err:%v", path, err)
		return nil, errors.Wrap(common.ErrReadExcel, err.Error())
	}
	defer func() {
		_ = f.Close()
	}()
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		logger.Errorf("[GetExcelData] read sheet failed, path:%v, sheet:%v, err:%v", path, sheet, err)
		return nil, errors.Wrap(common.ErrReadExcel, err.Error())
	}
	if len(rows) == 0 {
		return rows, nil
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		} else if len(row) > width {
			rows[i] = row[:width]
		}
	}
	return rows, nil
}

// LoadTable 读取 csv 或 xlsx 文件, 第一行是表头
// columns 不为空时只保留其中的列
func LoadTable(path string, columns []string) (*table_data.Table, error) {
	var preData [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		preData, err = GetExcelData(path)
	default:
		preData, err = GetCsvData(path)
	}
	if err != nil {
		return nil, err
	}
	if len(preData) == 0 {
		return nil, errors.Wrapf(common.ErrEmptyTable, "no header in %s", path)
	}

	header := preData[0]
	keep := make([]int, 0, len(header))
	keepColumns := make([]string, 0, len(header))
	for i, columnName := range header {
		if len(columns) > 0 && arrays.ContainsString(columns, columnName) == -1 {
			continue
		}
		keep = append(keep, i)
		keepColumns = append(keepColumns, columnName)
	}
	for _, columnName := range columns {
		if arrays.ContainsString(keepColumns, columnName) == -1 {
			return nil, errors.Wrapf(common.ErrUnknownColumn, "column %q not in %s", columnName, path)
		}
	}

	pool := string_pool.NewCap(1024)
	rows := make([][]string, 0, len(preData)-1)
	for _, line := range preData[1:] {
		row := make([]string, len(keep))
		for j, i := range keep {
			if i < len(line) {
				row[j] = pool.Intern(line[i])
			}
		}
		rows = append(rows, row)
	}
	tableName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	logger.Infof("[LoadTable] path:%v, table:%v, columns:%v, rows:%v, distinct cells:%v", path, tableName, len(keepColumns), len(rows), pool.Len())
	return table_data.NewTable(tableName, keepColumns, rows)
}

// CreateCsv 在 outputDir 下写 csv, 返回绝对路径
func CreateCsv(outputDir, name string, data [][]string) (string, error) {
	if err := os.MkdirAll(outputDir, 0777); err != nil {
		return "", errors.Wrapf(err, "mkdir %s", outputDir)
	}
	path := filepath.Join(outputDir, name)

	csvFile, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "create %s", path)
	}
	defer csvFile.Close()
	if _, err = csvFile.WriteString(utf8Bom); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	csvWriter := csv.NewWriter(csvFile)
	if err = csvWriter.WriteAll(data); err != nil {
		logger.Errorf("[CreateCsv] write csv failed, path:%v, err:%v", path, err)
		return "", errors.Wrapf(err, "write %s", path)
	}
	absPath, _ := filepath.Abs(path)
	return absPath, nil
}
