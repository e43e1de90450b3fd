// Package batch injects the same payload into many carrier files concurrently
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/wiseaidev/stegano/models"
	"github.com/wiseaidev/stegano/payload"
	"github.com/wiseaidev/stegano/pngparser"
	"github.com/wiseaidev/stegano/stego"
)

type Job struct {
	Input  string
	Output string
}

type Result struct {
	Job
	Format string
	Offset uint64
	Size   int
	Err    error
}

type Runner struct {
	Workers int
	Config  models.StegoConfig
	// FailFast cancels the remaining jobs after the first failure.
	FailFast   bool
	Logger     logrus.FieldLogger
	OnProgress func(Result)
}

func NewRunner(workers int, cfg models.StegoConfig, logger logrus.FieldLogger) *Runner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Runner{Workers: workers, Config: cfg, Logger: logger}
}

// Jobs pairs every input with an output of the same base name in outDir.
func Jobs(outDir string, inputs []string) []Job {
	jobs := make([]Job, 0, len(inputs))
	for _, in := range inputs {
		jobs = append(jobs, Job{Input: in, Output: filepath.Join(outDir, filepath.Base(in))})
	}
	return jobs
}

// Run processes jobs with at most Workers in flight. Results are returned
// in job order. The returned error is the first failure when FailFast is
// set, or ctx's error when the run was cancelled.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	opts, off, err := r.options()
	if err != nil {
		return nil, err
	}
	secret := r.Config.Payload
	if r.Config.Compress {
		if secret, err = payload.Compress(secret); err != nil {
			return nil, err
		}
	}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]Result, len(jobs))
	var mu sync.Mutex
	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := r.process(gctx, job, secret, off, opts)

			mu.Lock()
			results[i] = res
			if r.OnProgress != nil {
				r.OnProgress(res)
			}
			mu.Unlock()

			if res.Err != nil {
				r.Logger.WithFields(logrus.Fields{"input": job.Input}).WithError(res.Err).Warn("injection failed")
				if r.FailFast {
					return res.Err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func (r *Runner) options() (stego.Options, stego.Offset, error) {
	var opts stego.Options
	off, err := stego.ParseOffset(r.Config.Offset)
	if err != nil {
		return opts, off, err
	}
	if opts.Format, err = stego.ParseFormat(r.Config.Format); err != nil {
		return opts, off, err
	}
	if r.Config.ChunkType != "" {
		if opts.ChunkType, err = pngparser.ParseChunkType(r.Config.ChunkType); err != nil {
			return opts, off, err
		}
	}
	return opts, off, nil
}

func (r *Runner) process(ctx context.Context, job Job, secret []byte, off stego.Offset, opts stego.Options) Result {
	res := Result{Job: job}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	carrier, err := os.ReadFile(job.Input)
	if err != nil {
		res.Err = fmt.Errorf("read carrier: %w", err)
		return res
	}

	out, err := stego.Inject(carrier, []byte(r.Config.Key), secret, off, opts)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", job.Input, err)
		return res
	}

	if err := os.WriteFile(job.Output, out.Data, 0o644); err != nil {
		res.Err = fmt.Errorf("write output: %w", err)
		return res
	}

	res.Format = out.Format.String()
	res.Offset = out.Offset
	res.Size = len(out.Data)
	r.Logger.WithFields(logrus.Fields{
		"input":  job.Input,
		"output": job.Output,
		"format": res.Format,
		"offset": res.Offset,
	}).Debug("payload injected")
	return res
}
