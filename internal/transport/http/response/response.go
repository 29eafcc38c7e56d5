package response

// Err 失败响应体：{"error": "..."}
type Err struct {
	Error string `json:"error"`
}

// Error 可以传自定义 msg 覆盖默认
func Error(code int, customMsg string) Err {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return Err{Error: msg}
}

// Success 删除、登出等无返回数据的操作
type Success struct {
	Success bool `json:"success"`
}

func OK() Success { return Success{Success: true} }
