package response

// FieldError 字段级错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError 统一错误包装，Kind 对应问题类型的片段
type AppError struct {
	Code   int
	Kind   string
	Title  string
	Detail string
	Fields []FieldError
	Err    error
}

func (e *AppError) Error() string {
	message := e.Detail
	if message == "" {
		message = e.Title
	}
	if e.Err == nil {
		return message
	}
	return message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code int, kind, title, detail string, err error) *AppError {
	return &AppError{
		Code:   code,
		Kind:   kind,
		Title:  title,
		Detail: detail,
		Err:    err,
	}
}
