package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal,
// and order matters: a lock failure wrapping ErrMutexClosed reports the closed mutex.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Locking
	// ===================
	{
		err: ErrMutexClosed,
		info: ErrorInfo{
			Message: "The mutex was used after it was closed.",
			Action:  "Create a new mutex instead of reusing a closed one.",
		},
	},
	{
		err: ErrOwnerUnknown,
		info: ErrorInfo{
			Message: "Could not determine which goroutine is acquiring the lock.",
			Action:  "Report this with your Go version and platform.",
		},
	},
	{
		err: ErrRecursionLimit,
		info: ErrorInfo{
			Message: "The lock was re-entered too many times by its owner.",
			Action:  "Check for unbounded recursion while holding the lock.",
		},
	},
	{
		err: ErrLockFailed,
		info: ErrorInfo{
			Message: "The lock primitive failed. This is not contention.",
			Action:  "Check file permissions and available file descriptors.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Could not acquire the lock before the deadline.",
			Action:  "Run 'relock holder <name>' to see who holds it, or increase --timeout.",
		},
	},
	{
		err: ErrNoHolder,
		info: ErrorInfo{
			Message: "The lock is not currently held.",
			Action:  "",
		},
	},
	{
		err: ErrLockFileCorrupted,
		info: ErrorInfo{
			Message: "The lock file does not contain a valid holder record.",
			Action:  "Remove the lock file once no process is using it.",
		},
	},
	{
		err: ErrCountMismatch,
		info: ErrorInfo{
			Message: "Contention run lost updates: the mutex did not provide exclusion.",
			Action:  "Re-run with --verbose and report the output.",
		},
	},

	// ===================
	// Durations
	// ===================
	{
		err: ErrDurationOverflow,
		info: ErrorInfo{
			Message: "The duration cannot be represented in the requested unit.",
			Action:  "Use a coarser unit or a smaller tick count.",
		},
	},
	{
		err: ErrInvalidPeriod,
		info: ErrorInfo{
			Message: "The tick period must have a positive numerator and denominator.",
			Action:  "Pass a period such as 1/1000 for milliseconds.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure .relock/config.yaml exists and is valid YAML.",
		},
	},
	{
		err: ErrConfigInvalidLock,
		info: ErrorInfo{
			Message: "Invalid lock configuration.",
			Action:  "Check the 'lock' section in .relock/config.yaml for invalid values.",
		},
	},
	{
		err: ErrConfigInvalidContend,
		info: ErrorInfo{
			Message: "Invalid contend configuration.",
			Action:  "Check the 'contend' section in .relock/config.yaml for invalid values.",
		},
	},

	// ===================
	// Misc
	// ===================
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid arguments.",
		},
	},
	{
		err: ErrPathTraversal,
		info: ErrorInfo{
			Message: "Lock names must not contain path separators or '..'.",
			Action:  "Use a plain name such as 'deploy'.",
		},
	},
	{
		err: ErrEmptyValue,
		info: ErrorInfo{
			Message: "A required value was not provided.",
			Action:  "Provide the required value and try again.",
		},
	},
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that have no clear action, the action string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
