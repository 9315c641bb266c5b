package controllers

// ErrNoPermission is returned when the actor does not own the resource it is
// trying to change.
var ErrNoPermission = &CustomError{"You do not have permission"}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}
