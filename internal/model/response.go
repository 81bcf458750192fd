package model

// Response is the envelope of every JSON API response.
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}

func Success(data interface{}) Response {
	return Response{Data: data, Message: "Success"}
}

// Failure builds an error envelope. data may carry the state the error left behind.
func Failure(errMsg string, data interface{}) Response {
	return Response{Data: data, Error: &errMsg, Message: "Error"}
}
