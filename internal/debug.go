//go:build dsca_debug

package internal

const debugging = true

func assert(cond bool, message string) {
	if !cond {
		panic(message)
	}
}
