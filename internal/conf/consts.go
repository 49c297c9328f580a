package conf

// Model backend identifiers accepted by model.type.
const (
	ModelTypeAuto   = "auto"
	ModelTypeTFLite = "tflite"
	ModelTypeTree   = "tree"
)

// EnvPrefix prefixes every environment variable the service reads.
const EnvPrefix = "POTABILITY"
