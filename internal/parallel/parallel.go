// Package parallel provides the chunk-sizing and fan-out/fan-in helpers
// the construction driver uses to split data-parallel work across
// goroutines, adapted from the reference's
// internal.ComputeJobsPerTask and its map/reduce chunk-processing style
// used throughout BWT.go and SA_IS.go.
package parallel

import (
	"errors"
	"runtime"
	"sync"
)

// ComputeJobsPerTask distributes 'jobs' units of work across 'tasks'
// workers as evenly as possible, returning the count assigned to each
// task. The excess (jobs - tasks*floor(jobs/tasks)) is spread one-per-task
// starting from task 0, matching the reference's round-robin remainder
// distribution. When jobs <= tasks, every task is assigned one job, so the
// counts then sum to tasks rather than jobs.
func ComputeJobsPerTask(jobsPerTask []uint, jobs, tasks uint) ([]uint, error) {
	if tasks == 0 {
		return jobsPerTask, errors.New("parallel: invalid number of tasks: 0")
	}
	if jobs == 0 {
		return jobsPerTask, errors.New("parallel: invalid number of jobs: 0")
	}

	var q, r uint
	if jobs <= tasks {
		q = 1
		r = 0
	} else {
		q = jobs / tasks
		r = jobs - q*tasks
	}

	for i := range jobsPerTask {
		jobsPerTask[i] = q
	}

	n := uint(0)
	for r != 0 {
		jobsPerTask[n]++
		r--
		n++
		if n == tasks {
			n = 0
		}
	}

	return jobsPerTask, nil
}

// Workers returns a worker count suitable for splitting n independent units
// of work, capped at both n and runtime.NumCPU().
func Workers(n int) int {
	w := runtime.NumCPU()
	if w < 1 {
		w = 1
	}
	if n < w {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Chunks splits [0, n) into `workers` contiguous, near-equal ranges,
// lo-inclusive, hi-exclusive.
func Chunks(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		return [][2]int{{0, n}}
	}

	jobsPerTask := make([]uint, workers)
	ComputeJobsPerTask(jobsPerTask, uint(n), uint(workers))

	out := make([][2]int, 0, workers)
	start := 0
	for _, c := range jobsPerTask {
		end := start + int(c)
		out = append(out, [2]int{start, end})
		start = end
	}
	return out
}

// Do runs fn(lo, hi) concurrently over workers chunks spanning [0, n),
// blocking until every chunk completes. Used by the construction driver
// for frequency counting and BWT-chunk processing.
func Do(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := Workers(n)
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunks := Chunks(n, workers)
	var wg sync.WaitGroup
	for _, c := range chunks {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(c[0], c[1])
	}
	wg.Wait()
}
