package cfd_rule_dig

import (
	"golang.org/x/exp/slices"

	"gitlab.grandhoo.com/rock/rock_cfd/base/logger"
)

const CdfLen = 15

// CdfValues 桶的下界, cdf[i] 是 confidence >= CdfValues[i] 的候选数量, cdf[0] 即候选总数
var CdfValues = []float64{0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.55, 0.6, 0.65, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95}

func NewCDF() []int {
	return make([]int, CdfLen)
}

// MergeCDF 返回新的 cdf, 不修改参数
func MergeCDF(cdf1, cdf2 []int) []int {
	merged := slices.Clone(cdf1)
	for i := range merged {
		merged[i] += cdf2[i]
	}
	return merged
}

func AddConfidence2CDF(confidence float64, cdf []int) {
	for i := 0; i < CdfLen && confidence >= CdfValues[i]; i++ {
		cdf[i]++
	}
}

// GetValidAndInvalidCount 用 cdf 估计 confidence 阈值下满足和不满足的候选数
// 阈值不在桶边界上时取下面的桶, 结果偏大
func GetValidAndInvalidCount(confidence float64, cdf []int) (valid int, invalid int) {
	pos, exact := slices.BinarySearch(CdfValues, confidence)
	logger.Debugf("[GetValidAndInvalidCount] confidence:%v, pos:%v, exact:%v", confidence, pos, exact)
	if !exact && pos > 0 {
		pos--
	}
	valid = cdf[pos]
	return valid, cdf[0] - valid
}
