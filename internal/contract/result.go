package contract

// ResultStatus reports whether a dashboard call reached its collaborator.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

// Result is the {status, message, data} shape every dashboard operation
// returns. On error Data holds a fallback value, never the zero value of a
// pointer, so views can always render it.
type Result[T any] struct {
	Status  ResultStatus
	Message string
	Data    T
}

func OK[T any](data T) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: data}
}

func Failed[T any](message string, fallback T) Result[T] {
	return Result[T]{Status: StatusError, Message: message, Data: fallback}
}

func (r Result[T]) Succeeded() bool {
	return r.Status == StatusSuccess
}
