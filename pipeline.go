package orbit

import "sync"

// task splits data into one contiguous chunk per worker and calls fn with
// each element index. fn must only write to state owned by that index.
func task[T any](workersCount int, data []T, fn func(i int, item T)) {
	dataSize := len(data)
	if dataSize == 0 {
		return
	}
	workersCount = min(max(1, workersCount), dataSize)
	if workersCount == 1 {
		for i, item := range data {
			fn(i, item)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i, data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}
