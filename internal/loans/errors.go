package loans

import "errors"

// ErrInvalidArgument возвращается, когда кредит нарушает условие paymentDate <= dueDate
var ErrInvalidArgument = errors.New("invalid argument")
