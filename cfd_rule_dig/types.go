package cfd_rule_dig

import (
	"github.com/pkg/errors"

	"gitlab.grandhoo.com/rock/rock_cfd/base/config"
	"gitlab.grandhoo.com/rock/rock_cfd/common"
)

type Indicator struct {
	Support    float64 `json:"support" yaml:"support" msgpack:"support"`
	Confidence float64 `json:"confidence" yaml:"confidence" msgpack:"confidence"`
}

// Conf 一次挖掘的参数
type Conf struct {
	EnumK      int     `json:"enum_k" yaml:"enum_k" msgpack:"enum_k"`
	Support    float64 `json:"support" yaml:"support" msgpack:"support"`
	Confidence float64 `json:"confidence" yaml:"confidence" msgpack:"confidence"`
	TreeLevel  int     `json:"tree_level" yaml:"tree_level" msgpack:"tree_level"`
}

func DefaultConf() Conf {
	cfd := config.All.Cfd
	return Conf{
		EnumK:      cfd.EnumK,
		Support:    cfd.Support,
		Confidence: cfd.Confidence,
		TreeLevel:  cfd.TreeLevel,
	}
}

// Merge 用请求里的参数覆盖默认值, nil 表示请求没有传
func (c Conf) Merge(enumK *int, support, confidence *float64, treeLevel *int) Conf {
	if enumK != nil {
		c.EnumK = *enumK
	}
	if support != nil {
		c.Support = *support
	}
	if confidence != nil {
		c.Confidence = *confidence
	}
	if treeLevel != nil {
		c.TreeLevel = *treeLevel
	}
	return c
}

func (c Conf) Validate() error {
	if c.EnumK <= 1 {
		return errors.Wrapf(common.ErrInvalidConf, "enum_k must be greater than 1, got %d", c.EnumK)
	}
	if c.Support < 0 || c.Support > 1 {
		return errors.Wrapf(common.ErrInvalidConf, "support must be in [0,1], got %v", c.Support)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return errors.Wrapf(common.ErrInvalidConf, "confidence must be in [0,1], got %v", c.Confidence)
	}
	if c.TreeLevel < 1 {
		return errors.Wrapf(common.ErrInvalidConf, "tree_level must be at least 1, got %d", c.TreeLevel)
	}
	return nil
}

func (c Conf) Indicator() Indicator {
	return Indicator{Support: c.Support, Confidence: c.Confidence}
}

// CalSupport 分母是整张表的有序行对数 N*(N-1), 条件规则也一样
func CalSupport(xyAgree int64, rowSize int) float64 {
	n := int64(rowSize)
	if n < 2 {
		return 0
	}
	return float64(xyAgree) / float64(n*(n-1))
}

func CalConfidence(xAgree, xyAgree int64) float64 {
	if xAgree == 0 {
		return 0
	}
	return float64(xyAgree) / float64(xAgree)
}

// Score 计算 support 和 confidence, x 为 0 的节点永远不满足阈值
func (c Conf) Score(xAgree, xyAgree int64, rowSize int) (support, confidence float64, ok bool) {
	support = CalSupport(xyAgree, rowSize)
	confidence = CalConfidence(xAgree, xyAgree)
	ok = xAgree > 0 && support >= c.Support && confidence >= c.Confidence
	return
}

// PredicateScore 一个常数谓词 column=value 下的打分结果
type PredicateScore struct {
	Column     int
	Value      int32
	XAgree     int64
	XyAgree    int64
	Support    float64
	Confidence float64
}
