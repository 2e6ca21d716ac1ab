/*
Package planner implements the logical core of the wellness assistant: it turns
a validated user profile into 7-day meal and workout plans by prompting a
text-generation service, then recovering typed day records from whatever text
comes back. Generation failures are never fatal; callers always receive a
renderable plan plus zero or more notices describing what went wrong.
*/
package planner

import (
	"context"
	"fmt"
)

// TextGenerator is the contract the generation service must satisfy. A single
// blocking call that returns response text or a service-level error. When
// jsonOnly is set, implementations should hint the backing model to emit raw
// JSON if they support such a hint.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, jsonOnly bool) (string, error)
}

// GeneratorFunc adapts a plain function to the TextGenerator interface.
type GeneratorFunc func(ctx context.Context, prompt string, jsonOnly bool) (string, error)

// GenerateText implements TextGenerator.
func (f GeneratorFunc) GenerateText(ctx context.Context, prompt string, jsonOnly bool) (string, error) {
	return f(ctx, prompt, jsonOnly)
}

// Notice levels. Errors cover service-call failures; warnings cover responses
// that came back but did not match the expected shape.
const (
	LevelError   = "error"
	LevelWarning = "warning"
)

// Notice is a non-fatal, user-facing message emitted alongside a substitute
// result. The presentation layer displays notices; it never treats them as
// request failures.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func errorNotice(format string, args ...interface{}) Notice {
	return Notice{Level: LevelError, Message: fmt.Sprintf(format, args...)}
}

func warningNotice(message string) Notice {
	return Notice{Level: LevelWarning, Message: message}
}
