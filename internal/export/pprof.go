// Package export converts reconstructed flame graph data into
// interchange formats: pprof profiles, folded stacks and JSON
// documents.
package export

import (
	"fmt"
	"os"

	"github.com/google/pprof/profile"

	"github.com/flame-analysis/pkg/model"
)

// BuildProfile converts reconstructed stacks into a pprof profile with
// a single samples/count value type. Functions and locations are
// deduplicated by symbol name; sample locations run leaf-first per the
// pprof convention, so root-to-leaf stacks are appended in reverse.
func BuildProfile(stacks []*model.Stack) *profile.Profile {
	p := &profile.Profile{}
	m := &profile.Mapping{ID: 1, HasFunctions: true}
	p.Mapping = []*profile.Mapping{m}
	p.SampleType = []*profile.ValueType{
		{Type: "samples", Unit: "count"},
	}

	locations := make(map[string]*profile.Location)
	nextID := uint64(1)

	locationFor := func(name string) *profile.Location {
		if loc, ok := locations[name]; ok {
			return loc
		}

		fn := &profile.Function{
			ID:         nextID,
			Name:       name,
			SystemName: name,
		}
		p.Function = append(p.Function, fn)

		loc := &profile.Location{
			ID:      nextID,
			Mapping: m,
			Line:    []profile.Line{{Function: fn}},
		}
		p.Location = append(p.Location, loc)

		locations[name] = loc
		nextID++
		return loc
	}

	for _, s := range stacks {
		if len(s.Frames) == 0 {
			continue
		}

		sample := &profile.Sample{
			Value:    []int64{s.Samples},
			Location: make([]*profile.Location, 0, len(s.Frames)),
		}
		for i := len(s.Frames) - 1; i >= 0; i-- {
			sample.Location = append(sample.Location, locationFor(s.Frames[i]))
		}
		p.Sample = append(p.Sample, sample)
	}

	return p
}

// WriteProfile builds a pprof profile from the stacks and writes it to
// path. profile.Write emits the gzipped wire format pprof expects.
func WriteProfile(stacks []*model.Stack, path string) error {
	p := BuildProfile(stacks)
	if err := p.CheckValid(); err != nil {
		return fmt.Errorf("built profile is invalid: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := p.Write(file); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return file.Close()
}
