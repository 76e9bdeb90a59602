// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail, phrased as a gerund so it reads
// naturally after "Error".
type Op string

// Operation constants - grouped by workflow.
const (
	// Shared
	OpImageLoad  Op = "loading image"
	OpConfigLoad Op = "loading config"
	OpStateOpen  Op = "opening state database"

	// Grayscale conversion
	OpConvert     Op = "converting image"
	OpConvertSave Op = "saving image"

	// Cutout
	OpCutout     Op = "processing image"
	OpCutoutSave Op = "saving images"

	// Local output
	OpWriteFile Op = "writing file"
	OpHistory   Op = "reading history"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Error %s '%s': %v", op, context, err)
}

// Wrap prefixes err with op. err stays reachable through errors.Is.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Status is the short form shown in the status line.
func Status(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}
