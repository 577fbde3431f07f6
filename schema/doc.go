// Package schema checks resolved documents against optional constraints.
//
// A schema is a YAML document:
//
//	name: speaker
//	fields:
//	  model.optim.name: {type: string, enum: [adam, adamw, sgd, novograd]}
//	  model.optim.lr: {type: float, min: 0, required: true}
//	  trainer.devices: {type: int, min: 1}
//	  model.decoder.layers[*].act: {enum: [relu, gelu, swish]}
//
// Types are int, float (which also accepts integers), number, string,
// bool, list and map. Min and max bound numbers, and the length of
// strings, lists and maps. Paths may use the * and [*] wildcards.
package schema
