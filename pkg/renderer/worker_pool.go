package renderer

import (
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// frameScene is the read-only data shared by every band of one frame
type frameScene struct {
	frame  int
	world  *geometry.World
	lights []geometry.Sphere
}

// BandTask represents a band rendering task for the worker pool
type BandTask struct {
	Band   *Band
	TaskID int // For deterministic ordering
	scene  *frameScene
}

// BandResult contains the result from rendering a band
type BandResult struct {
	TaskID  int
	Pixels  int
	Samples int
}

// WorkerPool manages parallel band rendering
type WorkerPool struct {
	taskQueue   chan BandTask
	resultQueue chan BandResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual band rendering tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   chan BandTask
	resultQueue chan BandResult
}

// DefaultWorkerCount returns the number of logical CPUs, falling back to runtime.NumCPU
func DefaultWorkerCount() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		core.Logger().Warn("cpu probe failed, using runtime.NumCPU", "error", err)
		return runtime.NumCPU()
	}
	return n
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// maxTasks bounds the queues so submitting a whole frame never blocks.
func NewWorkerPool(raytracer *Raytracer, numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan BandTask, maxTasks),
		resultQueue: make(chan BandResult, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   raytracer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a band task to the worker pool
func (wp *WorkerPool) SubmitTask(task BandTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed band result
func (wp *WorkerPool) GetResult() (BandResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Each band writes only to its own slice of the frame buffer
		samples := w.raytracer.renderBand(task.scene, task.Band)

		w.resultQueue <- BandResult{
			TaskID:  task.TaskID,
			Pixels:  (task.Band.Y1 - task.Band.Y0) * w.raytracer.width,
			Samples: samples,
		}
	}
}
