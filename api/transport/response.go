package transport

// Response shapes are part of the public contract and stay flat: clients
// receive the documented fields directly, with no envelope around them.

type RegisterResponse struct {
	Message string `json:"message"`
	UserUID string `json:"user_uid"`
}

type TaskResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

// ErrorResponse carries the short failure reason under "detail".
type ErrorResponse struct {
	Detail string `json:"detail"`
}
