package domain

import (
	"github.com/org-hierarchy-api/internal/closure"
)

// DepartmentClosure — строка closure-таблицы подразделений.
// Составной первичный ключ гарантирует уникальность пары (предок, потомок).
type DepartmentClosure struct {
	AncestorID   int64 `json:"ancestor_id" gorm:"primaryKey;autoIncrement:false"`
	DescendantID int64 `json:"descendant_id" gorm:"primaryKey;autoIncrement:false;index"`
	Level        int   `json:"level" gorm:"not null"`
}

// TableName задаёт имя таблицы для GORM
func (DepartmentClosure) TableName() string {
	return "department_closures"
}

// Closure возвращает универсальную closure-запись
func (c DepartmentClosure) Closure() closure.Record {
	return closure.Record{AncestorID: c.AncestorID, DescendantID: c.DescendantID, Level: c.Level}
}

// DepartmentClosureFactory создаёт closure-записи подразделений
type DepartmentClosureFactory struct{}

// New создаёт closure-запись без валидации
func (DepartmentClosureFactory) New(ancestorID, descendantID int64, level int) DepartmentClosure {
	return DepartmentClosure{AncestorID: ancestorID, DescendantID: descendantID, Level: level}
}

// TeamClosure — строка closure-таблицы команд
type TeamClosure struct {
	AncestorID   int64 `json:"ancestor_id" gorm:"primaryKey;autoIncrement:false"`
	DescendantID int64 `json:"descendant_id" gorm:"primaryKey;autoIncrement:false;index"`
	Level        int   `json:"level" gorm:"not null"`
}

// TableName задаёт имя таблицы для GORM
func (TeamClosure) TableName() string {
	return "team_closures"
}

// Closure возвращает универсальную closure-запись
func (c TeamClosure) Closure() closure.Record {
	return closure.Record{AncestorID: c.AncestorID, DescendantID: c.DescendantID, Level: c.Level}
}

// TeamClosureFactory создаёт closure-записи команд
type TeamClosureFactory struct{}

// New создаёт closure-запись без валидации
func (TeamClosureFactory) New(ancestorID, descendantID int64, level int) TeamClosure {
	return TeamClosure{AncestorID: ancestorID, DescendantID: descendantID, Level: level}
}
