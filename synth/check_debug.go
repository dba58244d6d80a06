//go:build synthdebug

package synth

import "fmt"

func check(ok bool, msg string, v float64) {
	if !ok {
		panic(fmt.Sprintf("synth: %s (%v)", msg, v))
	}
}
