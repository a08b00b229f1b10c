//go:build !argos_minimal

package random

var active = &Backend{
	name:        "full",
	defaultType: "mt19937",
	types: map[string]func() Generator{
		"mt19937": func() Generator { return NewMT19937() },
		"pcg":     func() Generator { return NewPCG() },
		"chacha8": func() Generator { return NewChaCha8() },
		"lcg":     func() Generator { return NewLCG() },
	},
}
