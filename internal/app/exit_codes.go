package app

// exit codes for execution outcomes
const (
	ExitOpened         = 0
	ExitTooLong        = 10
	ExitNotFound       = 11
	ExitUnexpected     = 12
	ExitEmptySelection = 13
)

// ExitCode maps an execution response to the process exit code
func ExitCode(resp Response) int {
	switch resp.Outcome() {
	case Opened:
		return ExitOpened
	case RejectedTooLong:
		return ExitTooLong
	case RejectedNotFound:
		return ExitNotFound
	case RejectedEmptySelection:
		return ExitEmptySelection
	}
	return ExitUnexpected
}
