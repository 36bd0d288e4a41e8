package loansim

import (
	"errors"
	"fmt"
)

// ErrorCode 稳定的错误码，供 API/CLI 映射
type ErrorCode string

const (
	CodeInvalidPrincipal     ErrorCode = "INVALID_PRINCIPAL"
	CodeInvalidMonths        ErrorCode = "INVALID_MONTHS"
	CodeInvalidArgument      ErrorCode = "INVALID_ARGUMENT"
	CodeNullRates            ErrorCode = "NULL_RATES"
	CodeInvalidRate          ErrorCode = "INVALID_RATE"
	CodeAllocationFailed     ErrorCode = "ALLOCATION_FAILED"
	CodeNegativeAmortization ErrorCode = "NEGATIVE_AMORTIZATION"
	CodePaymentTooLarge      ErrorCode = "PAYMENT_TOO_LARGE"
	CodeNumericOverflow      ErrorCode = "NUMERIC_OVERFLOW"
)

// FinanceError 领域错误，每种错误只有一个实例，用 errors.Is 比较
type FinanceError struct {
	Code ErrorCode
	msg  string
}

func (e *FinanceError) Error() string { return e.msg }

var (
	ErrInvalidPrincipal     = &FinanceError{CodeInvalidPrincipal, "invalid principal amount"}
	ErrInvalidMonths        = &FinanceError{CodeInvalidMonths, "invalid number of months"}
	ErrInvalidArgument      = &FinanceError{CodeInvalidArgument, "invalid argument"}
	ErrNullRates            = &FinanceError{CodeNullRates, "rates sequence is missing"}
	ErrInvalidRate          = &FinanceError{CodeInvalidRate, "invalid interest rate value"}
	ErrAllocationFailed     = &FinanceError{CodeAllocationFailed, "schedule allocation failed"}
	ErrNegativeAmortization = &FinanceError{CodeNegativeAmortization, "payment is smaller than accrued interest"}
	ErrPaymentTooLarge      = &FinanceError{CodePaymentTooLarge, "custom payment exceeds balance plus interest"}
	ErrNumericOverflow      = &FinanceError{CodeNumericOverflow, "numeric overflow during calculation"}
)

// StepError 某一期计算失败，Month 从 1 开始
type StepError struct {
	Month int
	Err   error
}

func (e *StepError) Error() string { return fmt.Sprintf("month %d: %v", e.Month, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// CodeOf 取出错误码，非领域错误返回空串
func CodeOf(err error) ErrorCode {
	var fe *FinanceError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
