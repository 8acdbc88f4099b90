package interpreter

import "time"

// globals returns a fresh environment populated with the native functions every Lox program has
// access to without declaring them, chained to no parent (it is the outermost scope). "clock"
// returns milliseconds since an unspecified epoch, not seconds as golox's interpreter/builtins.go
// returns.
func globals() *environment {
	env := newEnvironment(nil)
	env.define("clock", &nativeFunction{
		name: "clock",
		n:    0,
		fn: func([]value) value {
			return valueNumber(float64(time.Now().UnixNano()) / float64(time.Millisecond))
		},
	})
	return env
}
