package types

type ConstraintOp string

const (
	ConstraintOpNone   ConstraintOp = ""
	ConstraintOpEq     ConstraintOp = "=="
	ConstraintOpNe     ConstraintOp = "!="
	ConstraintOpCompat ConstraintOp = "~="
	ConstraintOpGte    ConstraintOp = ">="
	ConstraintOpLte    ConstraintOp = "<="
	ConstraintOpGt     ConstraintOp = ">"
	ConstraintOpLt     ConstraintOp = "<"
)

type Runtime string

const (
	RuntimePython38  Runtime = "python3.8"
	RuntimePython39  Runtime = "python3.9"
	RuntimePython310 Runtime = "python3.10"
	RuntimePython311 Runtime = "python3.11"
	RuntimePython312 Runtime = "python3.12"
)

// DefaultRuntime is the newest supported runtime, used when the caller
// does not select one.
const DefaultRuntime = RuntimePython312

// RuntimeTarget describes how a runtime maps onto installer flags. Wheels
// must be resolved against the deployed interpreter, not the host one.
type RuntimeTarget struct {
	// PipVersion is the value passed to pip's --python-version flag.
	PipVersion string
	// PipPlatform is the wheel platform tag for the Lambda execution
	// environment (Amazon Linux, x86_64).
	PipPlatform string
}

var runtimeTargets = map[Runtime]RuntimeTarget{
	RuntimePython38:  {PipVersion: "3.8", PipPlatform: "manylinux2014_x86_64"},
	RuntimePython39:  {PipVersion: "3.9", PipPlatform: "manylinux2014_x86_64"},
	RuntimePython310: {PipVersion: "3.10", PipPlatform: "manylinux2014_x86_64"},
	RuntimePython311: {PipVersion: "3.11", PipPlatform: "manylinux2014_x86_64"},
	RuntimePython312: {PipVersion: "3.12", PipPlatform: "manylinux2014_x86_64"},
}

// ParseRuntime validates a runtime selector against the closed set of
// supported runtimes. An empty value selects DefaultRuntime.
func ParseRuntime(value string) (Runtime, bool) {
	if value == "" {
		return DefaultRuntime, true
	}
	rt := Runtime(value)
	if _, ok := runtimeTargets[rt]; !ok {
		return "", false
	}
	return rt, true
}

// Target returns the installer mapping for a supported runtime.
func (r Runtime) Target() RuntimeTarget {
	return runtimeTargets[r]
}

// SupportedRuntimes lists the supported runtimes oldest-first.
func SupportedRuntimes() []Runtime {
	return []Runtime{
		RuntimePython38,
		RuntimePython39,
		RuntimePython310,
		RuntimePython311,
		RuntimePython312,
	}
}
