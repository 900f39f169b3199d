package handler

import "github.com/labstack/echo/v4"

// apiResponse is the success envelope of every user route.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

func respond(c echo.Context, code int, data any, message string) error {
	return c.JSON(code, apiResponse{
		StatusCode: code,
		Success:    code < 400,
		Data:       data,
		Message:    message,
	})
}
