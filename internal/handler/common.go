package handler // handler defines http handlers

import (
	"errors"  // errors provides the sentinel used in getUserID
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// fail writes the error envelope shared by every failure response:
// an error flag plus a human-readable message.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"error": true, "message": message})
}

// failWithDetails writes the validation failure envelope carrying a
// field-level detail map alongside the message.
func failWithDetails(c echo.Context, status int, message string, details map[string]string) error {
	return c.JSON(status, echo.Map{"error": true, "message": message, "details": details})
}
