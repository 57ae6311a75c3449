package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ResultSuccess = "success"
	ResultFail    = "fail"
)

// APIResponse is the single envelope every endpoint answers with.
type APIResponse[T any] struct {
	Result  string `json:"result"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Success writes a success envelope with status (200 when zero).
func Success[T any](ctx *gin.Context, status int, data T, message string) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Result:  ResultSuccess,
		Message: message,
		Data:    data,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes a fail envelope with status (400 when zero). data may be nil.
func Error(ctx *gin.Context, status int, message string, data any) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[any]{
		Result:  ResultFail,
		Message: message,
		Data:    data,
	}
	ctx.JSON(status, resp)
	return resp
}

// Abort writes a fail envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, APIResponse[any]{
		Result:  ResultFail,
		Message: message,
	})
}
