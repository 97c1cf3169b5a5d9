package global_variables

// Rule 一条 cfd 规则, Lhs 为空时是 t0.y=t1.y 这种没有决定列的规则
// Predicate 为 nil 时是普通规则, 否则是带一个常数谓词的条件规则
type Rule struct {
	Ree       string             `json:"ree" msgpack:"ree"`
	TableName string             `json:"tableName" msgpack:"table_name"`
	Lhs       []Column           `json:"lhs" msgpack:"lhs"`
	Rhs       Column             `json:"rhs" msgpack:"rhs"`
	Predicate *ConstantPredicate `json:"predicate,omitempty" msgpack:"predicate,omitempty"`
	XAgree    int64              `json:"xAgree" msgpack:"x_agree"`
	XyAgree   int64              `json:"xyAgree" msgpack:"xy_agree"`
	CR        float64            `json:"support" msgpack:"support"`       // support
	FTR       float64            `json:"confidence" msgpack:"confidence"` // confidence
}

func (r *Rule) LhsNames() []string {
	names := make([]string, len(r.Lhs))
	for i, c := range r.Lhs {
		names[i] = c.ColumnId
	}
	return names
}

func (r *Rule) IsConditional() bool {
	return r.Predicate != nil
}
