package models

import "errors"

// ErrRoomNotFound 房間不存在。計時器與斷線清理路徑把它視為預期情況，
// 其餘路徑則回報給呼叫端
var ErrRoomNotFound = errors.New("room not found")
