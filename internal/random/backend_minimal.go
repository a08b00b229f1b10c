//go:build argos_minimal

package random

var active = &Backend{
	name:        "minimal",
	defaultType: "lcg",
	types: map[string]func() Generator{
		"lcg": func() Generator { return NewLCG() },
	},
}
