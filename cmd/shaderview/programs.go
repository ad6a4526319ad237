package main

import (
	"fmt"

	"github.com/Faultbox/shaderset/internal/config"
	"github.com/Faultbox/shaderset/internal/engine/shader"
)

// entry is a registered program and the name it is shown under.
type entry struct {
	name    string
	program *shader.Program
}

// registerPrograms adds every configured program to set, followed by one
// program built from the positional arguments, if any.
func registerPrograms(set *shader.Set, programs []config.ProgramConfig, args []string) ([]entry, error) {
	var entries []entry
	for _, pc := range programs {
		p, err := addProgram(set, pc)
		if err != nil {
			return nil, fmt.Errorf("program %q: %w", pc.Name, err)
		}
		entries = append(entries, entry{name: pc.Name, program: p})
	}

	if len(args) > 0 {
		p, err := set.AddProgramFromExts(args...)
		if err != nil {
			return nil, fmt.Errorf("program from arguments: %w", err)
		}
		entries = append(entries, entry{name: "args", program: p})
	}
	return entries, nil
}

func addProgram(set *shader.Set, pc config.ProgramConfig) (*shader.Program, error) {
	if pc.File != "" {
		stages, err := pc.ParsedStages()
		if err != nil {
			return nil, err
		}
		return set.AddProgramFromCombinedFile(pc.File, stages...)
	}
	return set.AddProgramFromExts(pc.Files...)
}
