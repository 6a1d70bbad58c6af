package parallel

import "testing"

func TestComputeJobsPerTaskEvenSplit(t *testing.T) {
	jobsPerTask := make([]uint, 4)
	got, err := ComputeJobsPerTask(jobsPerTask, 8, 4)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range got {
		if v != 2 {
			t.Fatalf("expected 2 jobs per task, got %v", got)
		}
	}
}

func TestComputeJobsPerTaskRemainder(t *testing.T) {
	jobsPerTask := make([]uint, 3)
	got, err := ComputeJobsPerTask(jobsPerTask, 10, 3)
	if err != nil {
		t.Fatal(err)
	}
	sum := uint(0)
	for _, v := range got {
		sum += v
	}
	if sum != 10 {
		t.Fatalf("expected sum 10, got %d (%v)", sum, got)
	}
	if got[0] < got[2] {
		t.Fatalf("expected remainder assigned to earlier tasks, got %v", got)
	}
}

func TestComputeJobsPerTaskRejectsZero(t *testing.T) {
	jobsPerTask := make([]uint, 2)
	if _, err := ComputeJobsPerTask(jobsPerTask, 0, 2); err == nil {
		t.Fatal("expected error for zero jobs")
	}
	if _, err := ComputeJobsPerTask(jobsPerTask, 2, 0); err == nil {
		t.Fatal("expected error for zero tasks")
	}
}

func TestChunksCoverRangeExactlyOnce(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 100, 1000} {
		for _, w := range []int{1, 2, 3, 8} {
			chunks := Chunks(n, w)
			covered := make([]bool, n)
			for _, c := range chunks {
				for i := c[0]; i < c[1]; i++ {
					if covered[i] {
						t.Fatalf("n=%d w=%d: index %d covered twice", n, w, i)
					}
					covered[i] = true
				}
			}
			for i, ok := range covered {
				if !ok {
					t.Fatalf("n=%d w=%d: index %d never covered", n, w, i)
				}
			}
		}
	}
}

func TestDoRunsOverFullRange(t *testing.T) {
	n := 257
	seen := make([]int32, n)
	Do(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			seen[i] = 1
		}
	})
	for i, v := range seen {
		if v != 1 {
			t.Fatalf("index %d not visited", i)
		}
	}
}
