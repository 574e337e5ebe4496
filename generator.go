package letterstim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/distortlab/letterstim/imageutil"
)

// Job is one (frequency, amplitude, repetition) cell of the parameter
// product. Index numbers jobs in generation order and seeds the job's
// random stream.
type Job struct {
	Index     int
	Frequency float64
	Amplitude float64
	Rep       int
}

// Stimulus is one rendered image and its file name.
type Stimulus struct {
	Name  StimulusName
	Image *imageutil.Field
}

// Summary reports a finished run.
type Summary struct {
	Jobs  int
	Seed  uint64
	Files []string
}

// Generator renders and writes the stimulus pairs of a Config.
type Generator struct {
	cfg Config
	asm *Assembler
}

// NewGenerator validates cfg and prepares the assembler. A zero seed is
// replaced by one drawn from the clock; Config reports the one in use.
func NewGenerator(cfg Config, glyphs GlyphSource) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Seed = cfg.ResolveSeed()
	asm, err := NewAssembler(cfg.Layout, glyphs)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, asm: asm}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config { return g.cfg }

// Jobs enumerates frequencies, then amplitudes, then repetitions.
func (g *Generator) Jobs() []Job {
	jobs := make([]Job, 0, len(g.cfg.Frequencies)*len(g.cfg.Amplitudes)*g.cfg.Reps)
	for _, f := range g.cfg.Frequencies {
		for _, a := range g.cfg.Amplitudes {
			for r := 0; r < g.cfg.Reps; r++ {
				jobs = append(jobs, Job{Index: len(jobs), Frequency: f, Amplitude: a, Rep: r})
			}
		}
	}
	return jobs
}

// jobRand returns the job's private stream. It depends only on the seed
// and the job index, so output does not depend on scheduling.
func (g *Generator) jobRand(job Job) *rand.Rand {
	return rand.New(rand.NewPCG(g.cfg.Seed, uint64(job.Index)))
}

// Render draws the undistorted and distorted stimuli for job. Both share
// the same trial layout.
func (g *Generator) Render(job Job) ([2]Stimulus, error) {
	var out [2]Stimulus
	rng := g.jobRand(job)
	trial := NewTrial(rng)
	layout := g.asm.Layout()

	name := StimulusName{
		Flanked:   g.cfg.Flanked,
		Frequency: job.Frequency,
		Amplitude: job.Amplitude,
		Rep:       job.Rep,
		Position:  trial.TargetSlot(),
		Letter:    layout.TargetLetter(trial),
		Spacing:   layout.SpacingDegrees(),
	}

	plain, err := g.asm.Compose(trial, g.cfg.Flanked, nil)
	if err != nil {
		return out, err
	}
	params := Params{Kind: g.cfg.Kind, Amplitude: job.Amplitude, Frequency: job.Frequency}
	warped, err := g.asm.Compose(trial, g.cfg.Flanked, func(tile *imageutil.Field) (*imageutil.Field, error) {
		return Distort(tile, params, rng)
	})
	if err != nil {
		return out, err
	}

	out[0] = Stimulus{Name: name, Image: plain.Rescale(0, 1)}
	out[0].Name.Distortion = UndistortedName(g.cfg.Kind)
	out[1] = Stimulus{Name: name, Image: warped.Rescale(0, 1)}
	out[1].Name.Distortion = string(g.cfg.Kind)
	return out, nil
}

// RunJob renders job and writes both images to the output directory,
// returning the written paths.
func (g *Generator) RunJob(job Job) ([]string, error) {
	stims, err := g.Render(job)
	if err != nil {
		return nil, fmt.Errorf("job %d: %w", job.Index, err)
	}
	paths := make([]string, 0, len(stims))
	for _, s := range stims {
		path := filepath.Join(g.cfg.OutDir, s.Name.String())
		if err := imageutil.SaveField(s.Image, path); err != nil {
			return paths, fmt.Errorf("job %d: %w", job.Index, err)
		}
		Logger().Debug("stimulus written", "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// Run executes every job on a pool of Config.Workers goroutines. The
// first failure cancels the remaining jobs and is returned; files already
// written are kept and listed in the summary.
func (g *Generator) Run(ctx context.Context) (Summary, error) {
	if err := os.MkdirAll(g.cfg.OutDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := g.Jobs()
	lg := Logger()
	lg.Info("generating stimuli",
		"kind", g.cfg.Kind,
		"flanked", g.cfg.Flanked,
		"jobs", len(jobs),
		"workers", g.cfg.WorkerCount(),
		"seed", g.cfg.Seed,
		"out", g.cfg.OutDir)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan Job)
	go func() {
		defer close(queue)
		for _, j := range jobs {
			select {
			case queue <- j:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		files    []string
		firstErr error
	)
	for w := 0; w < g.cfg.WorkerCount(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				if ctx.Err() != nil {
					return
				}
				paths, err := g.RunJob(job)

				mu.Lock()
				files = append(files, paths...)
				if err != nil && firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()

				if err != nil {
					lg.Error("job failed", "job", job.Index, "error", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	sort.Strings(files)
	sum := Summary{Jobs: len(jobs), Seed: g.cfg.Seed, Files: files}
	if firstErr != nil {
		return sum, firstErr
	}
	if err := ctx.Err(); err != nil {
		// Cancelled by the caller, not by a failing job.
		return sum, err
	}
	lg.Info("generation complete", "files", len(files))
	return sum, nil
}
