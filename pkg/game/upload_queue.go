package game

import (
	"sync"

	"github.com/leterax/voxelstream/pkg/voxel"
)

// meshUpload is a finished mesh job waiting to be installed on the main goroutine.
type meshUpload struct {
	chunk   *voxel.Chunk
	version uint64
	data    *voxel.MeshData
}

// uploadQueue is a FIFO with many producers and a single consumer.
type uploadQueue struct {
	mu    sync.Mutex
	items []meshUpload
}

func (q *uploadQueue) Push(u meshUpload) {
	q.mu.Lock()
	q.items = append(q.items, u)
	q.mu.Unlock()
}

func (q *uploadQueue) Pop() (meshUpload, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return meshUpload{}, false
	}
	u := q.items[0]
	q.items[0] = meshUpload{}
	q.items = q.items[1:]
	return u, true
}

func (q *uploadQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
