package fiber_handle

import (
	errorc "cardmarket/pkg/core/err"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrHandler 统一错误输出，HTTP 状态码取错误码所属的状态族
func ErrHandler(ctx *fiber.Ctx, err error) error {

	var e *fiber.Error
	if errors.As(err, &e) {
		return ctx.Status(e.Code).JSON(fiber.Map{"status": e.Code, "message": e.Message})
	}

	cError := errorc.ParseError(err)

	return ctx.Status(HttpStatus(cError)).JSON(fiber.Map{"status": cError.Code, "message": cError.Msg, "errData": cError})
}

func HttpStatus(e *errorc.Error) int {
	if e == nil || e.ErrorCode == nil {
		return fiber.StatusInternalServerError
	}
	switch e.ErrorCode {
	case errorc.ErrorCodeUnknown, errorc.ErrorCodeDB, errorc.ErrorCodeThird:
		return fiber.StatusInternalServerError
	case errorc.ErrorCodeInternal, errorc.ErrorCodeUnavailable:
		return fiber.StatusServiceUnavailable
	}
	if e.Code >= 400 && e.Code < 600 {
		return e.Code
	}
	return fiber.StatusInternalServerError
}
