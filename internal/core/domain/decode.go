package domain

// DecodeStage identifies one step of the decode chain.
type DecodeStage string

// Decode stages in chain order.
const (
	StageNone     DecodeStage = ""
	StageRaw      DecodeStage = "raw"
	StageTopCrop  DecodeStage = "top_crop"
	StageContrast DecodeStage = "contrast"
	StageBinarize DecodeStage = "binarize"
	StageInvert   DecodeStage = "invert"
)

// DecodeStages lists the chain in the order it is attempted.
func DecodeStages() []DecodeStage {
	return []DecodeStage{StageRaw, StageTopCrop, StageContrast, StageBinarize, StageInvert}
}

// String returns the string representation.
func (s DecodeStage) String() string {
	if s == StageNone {
		return "none"
	}
	return string(s)
}

// DecodeResult is the outcome of running the decode chain on one image.
type DecodeResult struct {
	// Payload is the trimmed decoded text. Empty when not found.
	Payload string

	// Stage is the stage that produced Payload.
	Stage DecodeStage

	// Found is false when every stage failed.
	Found bool

	// Attempts is the number of stages tried.
	Attempts int
}
