// Package runner fans one device task out over many devices with a bounded
// worker pool.
package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/wentf9/cisco-mcp/pkg/models"
)

// Task 针对单台设备执行一次操作，返回设备输出
type Task func(ctx context.Context, dev models.Device) (string, error)

// Result 是一台设备的执行结果
type Result struct {
	Device models.Device
	Output string
	Err    error
}

const defaultConcurrency = 5

// RunParallel runs task against every device, at most concurrency at a time,
// and streams results as they finish. The channel closes after the last
// device. A panicking task is reported as that device's error instead of
// taking the whole batch down.
func RunParallel(ctx context.Context, devices []models.Device, concurrency uint, task Task) <-chan Result {
	if concurrency == 0 {
		concurrency = defaultConcurrency
	}
	limit := make(chan struct{}, concurrency)
	// 缓冲区大小设为设备数量，防止阻塞 worker
	results := make(chan Result, len(devices))

	var wg sync.WaitGroup
	go func() {
		for _, dev := range devices {
			wg.Go(func() {
				// 获取许可
				limit <- struct{}{}
				defer func() { <-limit }()
				defer func() {
					if r := recover(); r != nil {
						results <- Result{Device: dev, Err: fmt.Errorf("task panicked: %v", r)}
					}
				}()
				out, err := task(ctx, dev)
				results <- Result{Device: dev, Output: out, Err: err}
			})
		}
		wg.Wait()
		close(results)
	}()
	return results
}
