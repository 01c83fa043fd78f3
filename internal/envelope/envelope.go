// Package envelope implements the {code, status, message, date, data}
// wrapper every JSON endpoint answers with.
package envelope

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CodeOK is the code of every successful response.
const CodeOK = "OK"

// Response is the wire envelope. Status false signals a business failure;
// Code then carries the stable error code and Message the readable text.
type Response[T any] struct {
	Code    string `json:"code"`
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Data    T      `json:"data"`
}

// Raw is used by clients that decode Data in a second step.
type Raw = Response[json.RawMessage]

var now = time.Now

func stamp() string {
	return now().UTC().Format(time.RFC3339)
}

func Success[T any](message string, data T) Response[T] {
	return Response[T]{Code: CodeOK, Status: true, Message: message, Date: stamp(), Data: data}
}

func Failure(code, message string) Response[any] {
	return Response[any]{Code: code, Status: false, Message: message, Date: stamp()}
}

// OK writes a 200 success envelope.
func OK[T any](c *fiber.Ctx, message string, data T) error {
	return c.Status(fiber.StatusOK).JSON(Success(message, data))
}

// Created writes a 201 success envelope.
func Created[T any](c *fiber.Ctx, message string, data T) error {
	return c.Status(fiber.StatusCreated).JSON(Success(message, data))
}

// Fail writes a failure envelope with the given HTTP status.
func Fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(Failure(code, message))
}
