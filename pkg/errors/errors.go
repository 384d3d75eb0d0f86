package errors

import "errors"

// ErrNotOwner 记录不属于当前用户
// 服务层对外统一按“不存在”处理，避免泄露其他用户记录是否存在
var ErrNotOwner = errors.New("记录不属于当前用户")
