package batch

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Task is one track directory to process.
type Task struct {
	Name string
	Dir  string
}

// ListTracks returns every immediate subdirectory of root, sorted by name.
// Hidden directories are ignored.
func ListTracks(root string) ([]Task, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list tracks in %s: %w", root, err)
	}
	tasks := make([]Task, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		tasks = append(tasks, Task{Name: entry.Name(), Dir: filepath.Join(root, entry.Name())})
	}
	return tasks, nil
}

// Sample picks n tasks uniformly at random without replacement and returns
// them sorted by name. n <= 0 or n >= len(tasks) returns every task. A zero
// seed draws from the clock.
func Sample(tasks []Task, n int, seed int64) []Task {
	if n <= 0 || n >= len(tasks) {
		return slices.Clone(tasks)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>32|1))
	picked := make([]Task, 0, n)
	for _, idx := range rng.Perm(len(tasks))[:n] {
		picked = append(picked, tasks[idx])
	}
	slices.SortFunc(picked, func(a, b Task) int { return strings.Compare(a.Name, b.Name) })
	return picked
}
