package dao

import (
	"gorm.io/gorm/clause"
)

// col 生成经过方言转义的列引用
func col(name string) clause.Column {
	return clause.Column{Name: name}
}

// eq 列等值条件
func eq(name string, value interface{}) clause.Expression {
	return clause.Eq{Column: col(name), Value: value}
}

// orderBy 按列升序
func orderBy(name string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: col(name)}
}

// gormIn 列 IN 列表条件
func gormIn(name string, values []int64) clause.Expression {
	vs := make([]interface{}, 0, len(values))
	for _, v := range values {
		vs = append(vs, v)
	}
	return clause.IN{Column: col(name), Values: vs}
}
