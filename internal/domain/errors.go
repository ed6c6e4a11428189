package domain

import "errors"

// Определение бизнес-ошибок уровня сущностей.
// Ошибки инвариантов иерархии определены в пакете closure.
var (
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrTeamNotFound            = errors.New("team not found")
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrDuplicateDepartmentName = errors.New("department with this name already exists in the same parent")
	ErrDuplicateTeamName       = errors.New("team with this name already exists in the same parent")
	ErrInvalidDeleteMode       = errors.New("invalid delete mode")
	ErrReassignTargetRequired  = errors.New("reassign_to_department_id is required when mode is reassign")
	ErrReassignTargetNotFound  = errors.New("target department for reassignment not found")
	ErrCannotReassignToSelf    = errors.New("cannot reassign employees into the subtree being deleted")
)
