package cfd_rule_dig

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"gitlab.grandhoo.com/rock/rock_cfd/common"
)

func TestConf(t *testing.T) {
	Convey("default conf", t, func() {
		conf := DefaultConf()
		So(conf.EnumK, ShouldEqual, 10)
		So(conf.Support, ShouldEqual, 0.00005)
		So(conf.Confidence, ShouldEqual, 0.8)
		So(conf.TreeLevel, ShouldEqual, 3)
		So(conf.Validate(), ShouldBeNil)
	})

	Convey("merge request values", t, func() {
		k, level, support := 5, 2, 0.1
		conf := DefaultConf().Merge(&k, &support, nil, &level)
		So(conf, ShouldResemble, Conf{EnumK: 5, Support: 0.1, Confidence: 0.8, TreeLevel: 2})
	})

	Convey("invalid conf", t, func() {
		for _, conf := range []Conf{
			{EnumK: 1, Support: 0, Confidence: 0, TreeLevel: 1},
			{EnumK: 2, Support: -0.1, Confidence: 0, TreeLevel: 1},
			{EnumK: 2, Support: 0, Confidence: 1.5, TreeLevel: 1},
			{EnumK: 2, Support: 0, Confidence: 0, TreeLevel: 0},
		} {
			So(errors.Is(conf.Validate(), common.ErrInvalidConf), ShouldBeTrue)
		}
	})
}

func TestScore(t *testing.T) {
	conf := Conf{EnumK: 10, Support: 0.1, Confidence: 0.5, TreeLevel: 3}

	Convey("support uses the full table denominator", t, func() {
		So(CalSupport(2, 4), ShouldAlmostEqual, 2.0/12)
		So(CalSupport(2, 1), ShouldEqual, 0)
		So(CalConfidence(4, 2), ShouldEqual, 0.5)
		So(CalConfidence(0, 0), ShouldEqual, 0)
	})

	Convey("qualify needs both thresholds and a non zero x", t, func() {
		support, confidence, ok := conf.Score(4, 2, 4)
		So(ok, ShouldBeTrue)
		So(support, ShouldAlmostEqual, 2.0/12)
		So(confidence, ShouldEqual, 0.5)

		_, _, ok = conf.Score(4, 1, 4)
		So(ok, ShouldBeFalse)

		_, _, ok = Conf{}.Score(0, 0, 4)
		So(ok, ShouldBeFalse)
	})
}
