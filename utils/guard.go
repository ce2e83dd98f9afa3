package utils

// Guard runs a cleanup when a function that produces a resource, such as an output file, fails part way.
//
//	guard := NewGuard(func() { RemoveFileNoError(path) })
//	defer guard.OnFail()
//	if err != nil { return err }
//	guard.Success()
type Guard struct {
	OnFail  func()
	success bool
}

// NewGuard returns a guard that calls onFailCleanup from OnFail unless Success was called first.
func NewGuard(onFailCleanup func()) *Guard {
	ret := &Guard{}
	ret.OnFail = func() {
		if !ret.success {
			onFailCleanup()
		}
	}
	return ret
}

// Success declares the function succeeded so OnFail does nothing.
func (guard *Guard) Success() {
	guard.success = true
}
