// Package gomap maps resolved configuration trees to Go values and back.
//
// Struct fields are matched by the hconf tag, or by the snake_case form of
// the field name:
//
//	type Optim struct {
//		Name        string        `hconf:"name"`
//		LR          float64       // "lr"
//		WeightDecay float64       // "weight_decay"
//		Betas       []float64     `hconf:"betas,omitempty"`
//		Seed        *int          `hconf:",required"`
//		Warmup      time.Duration // "1m30s", or seconds when a number
//		Skip        string        `hconf:"-"`
//	}
//
// Embedded structs are flattened. Types implementing IRFromer or
// encoding.TextUnmarshaler decode themselves.
package gomap
