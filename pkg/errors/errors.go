package errors

import "errors"

// ErrResourceConflict 资源冲突：同一设备/车辆已存在有效指派
var ErrResourceConflict = errors.New("资源已被占用，请先结束现有指派")

// ErrActiveAssignment 仍有有效指派，禁止删除
var ErrActiveAssignment = errors.New("存在有效指派，无法删除")
