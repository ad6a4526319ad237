package shader

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Stage is the pipeline phase a shader object targets.
type Stage int

const (
	Vertex Stage = iota
	Fragment
	Geometry
	TessControl
	TessEvaluation
	Compute

	stageCount
)

var (
	// ErrUnknownStage is returned when a stage value or name is not recognized.
	ErrUnknownStage = errors.New("unknown shader stage")

	// ErrUnknownExtension is returned when a file extension maps to no stage.
	ErrUnknownExtension = errors.New("unknown shader extension")
)

var stageNames = [stageCount]string{
	Vertex:         "vertex",
	Fragment:       "fragment",
	Geometry:       "geometry",
	TessControl:    "tess_control",
	TessEvaluation: "tess_evaluation",
	Compute:        "compute",
}

var stageDefines = [stageCount]string{
	Vertex:         "VERTEX_SHADER",
	Fragment:       "FRAGMENT_SHADER",
	Geometry:       "GEOMETRY_SHADER",
	TessControl:    "TESS_CONTROL_SHADER",
	TessEvaluation: "TESS_EVALUATION_SHADER",
	Compute:        "COMPUTE_SHADER",
}

// extensionStages is the file naming convention used by AddProgramFromExts.
var extensionStages = map[string]Stage{
	".vert": Vertex,
	".frag": Fragment,
	".geom": Geometry,
	".tesc": TessControl,
	".tese": TessEvaluation,
	".comp": Compute,
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	return s >= 0 && s < stageCount
}

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Define returns the preprocessor token defined while compiling for this stage.
func (s Stage) Define() string {
	if !s.Valid() {
		return ""
	}
	return stageDefines[s]
}

// ParseStage converts a lowercase stage name (as produced by String) to a Stage.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

// StageFromPath infers the stage from the file extension of path.
func StageFromPath(path string) (Stage, error) {
	ext := filepath.Ext(path)
	stage, ok := extensionStages[ext]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownExtension, path)
	}
	return stage, nil
}
