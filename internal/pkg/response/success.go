package response

import "github.com/gin-gonic/gin"

// Envelope is the JSON structure for successful requests.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK sends data wrapped in a success envelope.
func OK(c *gin.Context, code int, data any) {
	c.JSON(code, Envelope{Success: true, Data: data})
}

// Message sends a success envelope with a human-readable message.
func Message(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Envelope{Success: true, Message: message, Data: data})
}
