// SPDX-License-Identifier: MIT

package tracking

// SuccessCode is the terminal outcome of tracking a path or running an endgame.
type SuccessCode int

const (
	// Success means the target time was reached with a converged point.
	Success SuccessCode = iota
	// GoingToInfinity means the point norm exceeded the path truncation threshold.
	GoingToInfinity
	// MatrixSolveFailure means the Jacobian stayed singular after a precision increase.
	MatrixSolveFailure
	// MaxPrecisionReached means the AMP criteria asked for more than the maximum precision.
	MaxPrecisionReached
	// MaxNumStepsTaken means the step budget ran out before the target time.
	MaxNumStepsTaken
	// Fail means the step size fell below its minimum or Newton could not converge.
	Fail
	// CycleNumberTooHigh means an endgame loop did not close within the maximum cycle number.
	CycleNumberTooHigh
	// MinTrackTimeReached means the endgame radius fell below its minimum without convergence.
	MinTrackTimeReached
)

var successCodeNames = [...]string{
	Success:             "Success",
	GoingToInfinity:     "GoingToInfinity",
	MatrixSolveFailure:  "MatrixSolveFailure",
	MaxPrecisionReached: "MaxPrecisionReached",
	MaxNumStepsTaken:    "MaxNumStepsTaken",
	Fail:                "Fail",
	CycleNumberTooHigh:  "CycleNumberTooHigh",
	MinTrackTimeReached: "MinTrackTimeReached",
}

// String implements fmt.Stringer.
func (c SuccessCode) String() string {
	if c >= 0 && int(c) < len(successCodeNames) {
		return successCodeNames[c]
	}
	return "SuccessCode(?)"
}

// Codes lists every SuccessCode in declaration order.
func Codes() []SuccessCode {
	out := make([]SuccessCode, len(successCodeNames))
	for i := range out {
		out[i] = SuccessCode(i)
	}
	return out
}
