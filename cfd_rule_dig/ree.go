package cfd_rule_dig

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/hash"
	"golang.org/x/exp/slices"

	"gitlab.grandhoo.com/rock/rock_cfd/global_variables"
)

// CreateRee 规则的文本形式
// t0.A=t1.A^t0.B=t1.B->t0.Y=t1.Y
// t0.A=t1.A^t0.P='v'^t1.P='v'->t0.Y=t1.Y
func CreateRee(dependent string, determinant []string, predicate *global_variables.ConstantPredicate) string {
	var sb strings.Builder
	for i, column := range determinant {
		if i > 0 {
			sb.WriteString("^")
		}
		sb.WriteString(fmt.Sprintf("t0.%s=t1.%s", column, column))
	}
	if predicate != nil {
		if len(determinant) > 0 {
			sb.WriteString("^")
		}
		name, value := predicate.Column.ColumnId, predicate.ConstantValue
		sb.WriteString(fmt.Sprintf("t0.%s='%s'^t1.%s='%s'", name, value, name, value))
	}
	sb.WriteString(fmt.Sprintf("->t0.%s=t1.%s", dependent, dependent))
	return sb.String()
}

func CreateRuleRee(rule *global_variables.Rule) string {
	return CreateRee(rule.Rhs.ColumnId, rule.LhsNames(), rule.Predicate)
}

// RuleKey 规则的标识, 决定列按集合处理, 与顺序无关
func RuleKey(rule *global_variables.Rule) string {
	lhs := rule.LhsNames()
	slices.Sort(lhs)
	identity := rule.TableName + "|" + rule.Rhs.ColumnId + "|" + strings.Join(lhs, ",")
	if rule.Predicate != nil {
		identity += "|" + rule.Predicate.Column.ColumnId + "=" + rule.Predicate.ConstantValue
	}
	return hash.Md5Hex([]byte(identity))
}
