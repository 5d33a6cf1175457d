package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Compile errors
//   - E3xxx: Runtime errors
type ErrorCode string

const (
	// Compile errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unmatched closing bracket
	E1002 ErrorCode = "E1002" // Unmatched opening bracket
	E1003 ErrorCode = "E1003" // Pointer displacement overflow
	E1004 ErrorCode = "E1004" // Source read failed

	// Runtime errors (E3xxx)
	E3001 ErrorCode = "E3001" // Step limit reached
	E3002 ErrorCode = "E3002" // Memory limit reached
	E3003 ErrorCode = "E3003" // Input read failed
	E3004 ErrorCode = "E3004" // Output write failed
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unmatched closing bracket",
	E1002: "unmatched opening bracket",
	E1003: "pointer displacement overflow",
	E1004: "source read failed",

	E3001: "step limit reached",
	E3002: "memory limit reached",
	E3003: "input read failed",
	E3004: "output write failed",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "compile"
	case '3':
		return "runtime"
	default:
		return "unknown"
	}
}
