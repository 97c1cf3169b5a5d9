package global_variables

type Column struct {
	ColumnId    string `json:"columnId" msgpack:"column_id"`
	ColumnIndex int    `json:"columnIndex" msgpack:"column_index"`
}

// ConstantPredicate t0.col='value' ^ t1.col='value'
type ConstantPredicate struct {
	Column        Column `json:"column" msgpack:"column"`
	ConstantValue string `json:"constantValue" msgpack:"constant_value"`
	ValueIndex    int32  `json:"-" msgpack:"value_index"`
}
