package channel_utils

import (
	"sync"

	"github.com/yonigottesman/gpt-storyteller/application/ports/outbound"
)

// MergeChannels fans the given channels into one. Per-channel ordering is
// preserved; the merged channel closes once every input has closed.
func MergeChannels[T any](workerPool outbound.TaskDispatcher, channels ...<-chan T) (<-chan T, error) {
	merged := make(chan T)

	var wg sync.WaitGroup

	// release unblocks drain tasks that were already submitted before a
	// Submit failure: nobody will read merged, so their output is discarded
	// and merged is closed once they finish.
	release := func() {
		go func() {
			for range merged {
			}
		}()
		go func() {
			wg.Wait()
			close(merged)
		}()
	}

	for _, c := range channels {
		ch := c
		wg.Add(1)
		err := workerPool.Submit(func() {
			defer wg.Done()
			for val := range ch {
				merged <- val
			}
		})
		if err != nil {
			wg.Done()
			release()
			return nil, err
		}
	}

	err := workerPool.Submit(func() {
		wg.Wait()
		close(merged)
	})
	if err != nil {
		release()
		return nil, err
	}

	return merged, nil
}
