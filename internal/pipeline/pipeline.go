package pipeline

import (
	"fmt"
	"runtime"
	"sync"
)

// Task is one independent unit of work. Tasks must not share mutable state.
type Task func() error

type job struct {
	index int
	task  Task
}

// Run executes tasks on a bounded pool of workers and waits for all of them.
// The returned errors are ordered by task position; a panicking task is
// reported as an error instead of crashing the caller.
func Run(tasks []Task, workers int) []error {
	if len(tasks) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	workers = min(workers, len(tasks))

	jobs := make(chan job)
	results := make([]error, len(tasks))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = runOne(j)
			}
		}()
	}

	for i, t := range tasks {
		jobs <- job{index: i, task: t}
	}
	close(jobs)
	wg.Wait()

	out := make([]error, 0, len(results))
	for _, err := range results {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

func runOne(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %d panicked: %v", j.index, r)
		}
	}()
	if j.task == nil {
		return nil
	}
	return j.task()
}
